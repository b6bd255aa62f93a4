package app

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/rs/cors"
)

// Start listens on rl.Config.Listen and serves until Shutdown. The ready
// channel, if given, is closed once the listener is bound.
func (rl *Relay) Start(ready ...chan struct{}) (err error) {
	var listener net.Listener
	if listener, err = net.Listen("tcp", rl.Config.Listen); chk.E(err) {
		return
	}
	rl.Addr = listener.Addr().String()
	rl.httpServer = &http.Server{
		Handler:      cors.Default().Handler(rl),
		Addr:         rl.Addr,
		WriteTimeout: 2 * time.Second,
		ReadTimeout:  2 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
	log.I.F("listening on %s", rl.Addr)
	for _, r := range ready {
		close(r)
	}
	if err = rl.httpServer.Serve(listener); err == http.ErrServerClosed {
		err = nil
	}
	chk.E(err)
	return
}

// Shutdown closes every client connection and stops the HTTP server. It is
// safe to call once Start has returned the listener is bound.
func (rl *Relay) Shutdown() {
	log.I.Ln("shutting down relay")
	rl.Cancel()
	rl.clients.Range(func(conn *websocket.Conn, _ struct{}) bool {
		chk.T(conn.WriteControl(websocket.CloseMessage, nil,
			time.Now().Add(time.Second)))
		chk.T(conn.Close())
		rl.clients.Delete(conn)
		return true
	})
	if rl.httpServer != nil {
		c, cancel := context.WithTimeout(context.Background(),
			5*time.Second)
		defer cancel()
		chk.E(rl.httpServer.Shutdown(c))
	}
}
