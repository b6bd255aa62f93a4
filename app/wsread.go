package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/castrlabs/castr/pkg/relayws"
	"github.com/fasthttp/websocket"
)

// websocketReadMessages is the per-connection read loop. Every inbound
// frame is handed to wsProcessMessage synchronously, which keeps a single
// client's messages in order.
func (rl *Relay) websocketReadMessages(c context.Context, kill func(),
	ws *relayws.WebSocket, conn *websocket.Conn, r *http.Request) {

	defer rl.WG.Done()
	defer kill()
	if len(rl.Config.Whitelist) > 0 &&
		!hostInList(ws.RealRemote(), rl.Config.Whitelist) {
		log.D.F("denying connection from %s, not on whitelist",
			ws.RealRemote())
		return
	}
	conn.SetReadLimit(int64(rl.Info.Limitation.MaxMessageLength))
	chk.E(conn.SetReadDeadline(time.Now().Add(PongWait)))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(PongWait))
	})
	for _, onc := range rl.OnConnect {
		onc(c)
	}
	for {
		typ, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
				websocket.CloseAbnormalClosure,
			) {
				log.D.F("unexpected close from %s: %v",
					ws.RealRemote(), err)
			}
			return
		}
		if typ != websocket.TextMessage {
			continue
		}
		rl.wsProcessMessage(msg, c, ws)
	}
}

func hostInList(remote string, list []string) bool {
	host := remote
	if i := strings.LastIndex(remote, ":"); i >= 0 {
		host = remote[:i]
	}
	for _, w := range list {
		if w == host || w == remote {
			return true
		}
	}
	return false
}
