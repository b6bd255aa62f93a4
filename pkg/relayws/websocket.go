// Package relayws wraps a websocket connection for relay use. All writes
// go through a bounded outbound queue drained by a single writer goroutine,
// so a broadcast enqueue never blocks on a slow consumer and never races
// another writer on the connection. A connection that cannot drain its
// queue is disconnected; writes after close are silent no-ops.
package relayws

import (
	"net/http"
	"os"
	"time"

	"github.com/castrlabs/castr/pkg/nostr/enveloper"
	"github.com/castrlabs/castr/pkg/slog"
	"github.com/fasthttp/websocket"
	"go.uber.org/atomic"
)

var log, chk = slog.New(os.Stderr)

// QueueSize is the outbound queue depth per connection. At the default
// message size limit this bounds per-connection buffering to a few MB.
const QueueSize = 512

const writeWait = 10 * time.Second

type frame struct {
	typ  int
	data []byte
}

// WebSocket is a relay-side client connection.
type WebSocket struct {
	Conn    *websocket.Conn
	Request *http.Request // original request
	// OffenseCount tracks malformed messages for the session adapter.
	OffenseCount atomic.Uint32
	remote       atomic.String
	out          chan frame
	closed       atomic.Bool
}

// New wraps an upgraded connection. The writer pump is started by the
// caller with Writer.
func New(conn *websocket.Conn, r *http.Request) (ws *WebSocket) {
	return &WebSocket{
		Conn:    conn,
		Request: r,
		out:     make(chan frame, QueueSize),
	}
}

// RealRemote returns the client address, accounting for proxies.
func (ws *WebSocket) RealRemote() string     { return ws.remote.Load() }
func (ws *WebSocket) SetRealRemote(r string) { ws.remote.Store(r) }

// IsClosed reports whether the send capability has been revoked.
func (ws *WebSocket) IsClosed() bool { return ws.closed.Load() }

// Close revokes the send capability and closes the underlying connection.
// Safe to call more than once and from any goroutine.
func (ws *WebSocket) Close() {
	if ws.closed.Swap(true) {
		return
	}
	if ws.Conn != nil {
		chk.T(ws.Conn.Close())
	}
}

// WriteEnvelope enqueues an envelope for delivery. If the queue is full the
// consumer is too slow and the connection is closed; if the connection is
// already closed the write is dropped. Neither case blocks or errors: a
// dead recipient is not the sender's problem.
func (ws *WebSocket) WriteEnvelope(env enveloper.I) {
	ws.enqueue(frame{websocket.TextMessage, env.Bytes()})
}

// WriteControl enqueues a control frame (ping, pong).
func (ws *WebSocket) WriteControl(typ int) {
	ws.enqueue(frame{typ, nil})
}

func (ws *WebSocket) enqueue(f frame) {
	if ws.closed.Load() {
		return
	}
	select {
	case ws.out <- f:
	default:
		log.D.F("outbound queue full, disconnecting slow consumer %s",
			ws.RealRemote())
		ws.Close()
	}
}

// Writer drains the outbound queue onto the connection until the queue
// stops or the connection dies. It is the only goroutine that writes to the
// conn. The kill func tears down the whole session.
func (ws *WebSocket) Writer(done <-chan struct{}, kill func()) {
	defer kill()
	for {
		select {
		case <-done:
			return
		case f := <-ws.out:
			chk.T(ws.Conn.SetWriteDeadline(time.Now().Add(writeWait)))
			if err := ws.Conn.WriteMessage(f.typ, f.data); err != nil {
				log.T.F("write to %s failed: %v", ws.RealRemote(), err)
				return
			}
		}
	}
}
