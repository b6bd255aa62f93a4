package app

import (
	"context"
	"net/http"
	"sync"

	"github.com/castrlabs/castr/pkg/relayws"
	"github.com/fasthttp/websocket"
)

// HandleWebsocket upgrades the connection and runs one session: a read
// loop, a single writer pump and a ping watcher. All three exit through
// the shared kill func so teardown happens exactly once.
func (rl *Relay) HandleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := rl.upgrader.Upgrade(w, r, nil)
	if chk.E(err) {
		return
	}
	rl.clients.Store(conn, struct{}{})
	ws := relayws.New(conn, r)
	ws.SetRealRemote(GetIP(r))
	log.T.F("connected from %s", ws.RealRemote())
	ctx, cancel := context.WithCancel(context.WithValue(rl.Ctx, wsKey, ws))
	var once sync.Once
	kill := func() {
		once.Do(func() {
			for _, ondisc := range rl.OnDisconnect {
				ondisc(ctx)
			}
			cancel()
			rl.RemoveListener(ws)
			rl.clients.Delete(conn)
			ws.Close()
			log.T.F("disconnected %s", ws.RealRemote())
		})
	}
	// pongs must be enqueued, not written from the read goroutine; the
	// writer pump owns the conn
	conn.SetPingHandler(func(string) error {
		ws.WriteControl(websocket.PongMessage)
		return nil
	})
	rl.WG.Add(3)
	go func() {
		defer rl.WG.Done()
		ws.Writer(ctx.Done(), kill)
	}()
	go rl.websocketReadMessages(ctx, kill, ws, conn, r)
	go rl.websocketWatcher(ctx, kill, ws)
}
