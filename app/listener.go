package app

import (
	"context"
	"errors"

	"github.com/castrlabs/castr/pkg/nostr/filter"
	"github.com/castrlabs/castr/pkg/nostr/filters"
	"github.com/castrlabs/castr/pkg/relayws"
	"github.com/puzpuzpuz/xsync/v2"
)

var (
	errSubReplaced = errors.New("subscription replaced by client")
	errSubClosed   = errors.New("subscription closed by client")
	errConnClosed  = errors.New("connection closed")
)

// Listener is one live subscription: the filter set it wants and the cancel
// for its backlog query.
type Listener struct {
	filters filters.T
	cancel  context.CancelCauseFunc
	ws      *relayws.WebSocket
}

// ListenerMap is the per-connection set of subscriptions by id.
type ListenerMap = *xsync.MapOf[string, *Listener]

// ListenerEntry is one (connection, subscription) tuple as captured by
// SnapshotListeners.
type ListenerEntry struct {
	WS      *relayws.WebSocket
	ID      string
	Filters filters.T
}

// SetListener inserts or atomically replaces the subscription with the
// given id on the connection. A replaced subscription's backlog query is
// cancelled; there is no window where old and new filter sets both apply.
func (rl *Relay) SetListener(id string, ws *relayws.WebSocket,
	ff filters.T, c context.CancelCauseFunc) {

	subs, _ := rl.listeners.LoadOrCompute(ws, func() ListenerMap {
		return xsync.NewMapOf[*Listener]()
	})
	prev, loaded := subs.LoadAndStore(id,
		&Listener{filters: ff, cancel: c, ws: ws})
	if loaded {
		prev.cancel(errSubReplaced)
	}
}

// RemoveListenerId removes one subscription from a connection and cancels
// its backlog query. Removing an unknown id is a no-op.
func (rl *Relay) RemoveListenerId(ws *relayws.WebSocket, id string) {
	if subs, ok := rl.listeners.Load(ws); ok {
		if l, ok := subs.LoadAndDelete(id); ok {
			l.cancel(errSubClosed)
		}
		if subs.Size() == 0 {
			rl.listeners.Delete(ws)
		}
	}
}

// RemoveListener removes a whole connection from the registry in one step,
// used at connection close. In-flight broadcasts that already snapshotted
// the connection will still attempt sends, which no-op once the socket is
// closed.
func (rl *Relay) RemoveListener(ws *relayws.WebSocket) {
	if subs, ok := rl.listeners.LoadAndDelete(ws); ok {
		subs.Range(func(_ string, l *Listener) bool {
			l.cancel(errConnClosed)
			return true
		})
	}
}

// SnapshotListeners returns the point-in-time set of live (connection,
// subscription) tuples. Delivery iterates the snapshot, never the live
// maps, so registry mutations proceed regardless of how long delivery
// takes.
func (rl *Relay) SnapshotListeners() (entries []ListenerEntry) {
	rl.listeners.Range(func(ws *relayws.WebSocket, subs ListenerMap) bool {
		subs.Range(func(id string, l *Listener) bool {
			entries = append(entries,
				ListenerEntry{WS: ws, ID: id, Filters: l.filters})
			return true
		})
		return true
	})
	return
}

// GetListeningFilters returns the distinct filters of all live
// subscriptions.
func (rl *Relay) GetListeningFilters() (ff filters.T) {
	for _, entry := range rl.SnapshotListeners() {
	next:
		for _, f := range entry.Filters {
			for _, have := range ff {
				if filter.Equal(f, have) {
					continue next
				}
			}
			ff = append(ff, f)
		}
	}
	return
}
