package app

import (
	"github.com/castrlabs/castr/pkg/nostr/envelopes/eventenvelope"
	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/subscriptionid"
)

// BroadcastEvent delivers an accepted event to every live subscription
// whose filters match. The registry is snapshotted first and every send is
// an enqueue on the recipient's bounded outbound queue, so neither a slow
// consumer nor a long subscriber list blocks the ingesting goroutine, and
// no registry lock is held across I/O. Sends to connections that closed
// after the snapshot are dropped by the queue.
func (rl *Relay) BroadcastEvent(ev *event.T) {
	for _, entry := range rl.SnapshotListeners() {
		if entry.WS.IsClosed() {
			continue
		}
		if !entry.Filters.Match(ev) {
			continue
		}
		log.T.F("sending event %s to subscriber %s sub %s",
			ev.ID, entry.WS.RealRemote(), entry.ID)
		entry.WS.WriteEnvelope(&eventenvelope.T{
			SubscriptionID: subscriptionid.T(entry.ID),
			Event:          ev,
		})
	}
}
