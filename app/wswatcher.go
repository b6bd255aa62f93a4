package app

import (
	"context"
	"time"

	"github.com/castrlabs/castr/pkg/relayws"
	"github.com/fasthttp/websocket"
)

// websocketWatcher pings the client on a fixed period so dead peers are
// noticed within PongWait.
func (rl *Relay) websocketWatcher(c context.Context, kill func(),
	ws *relayws.WebSocket) {

	defer rl.WG.Done()
	defer kill()
	ticker := time.NewTicker(PingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-c.Done():
			return
		case <-ticker.C:
			if ws.IsClosed() {
				return
			}
			ws.WriteControl(websocket.PingMessage)
		}
	}
}
