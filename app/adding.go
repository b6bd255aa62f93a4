package app

import (
	"context"
	"errors"

	"github.com/castrlabs/castr/pkg/eventstore"
	"github.com/castrlabs/castr/pkg/nostr/event"
)

// AddEvent sends an event through the normal add pipeline, as if it was
// received from a websocket: policy checks, persistence, then fan-out.
// Identity and signature have already been verified by the session adapter
// (or the caller, for events injected programmatically). The returned error
// always carries a machine readable prefix.
func (rl *Relay) AddEvent(c context.Context, ev *event.T) (err error) {
	if ev == nil {
		return errors.New("error: event is nil")
	}
	for _, rej := range rl.RejectEvent {
		if reject, msg := rej(c, ev); reject {
			if msg == "" {
				msg = "no reason"
			}
			return errors.New(reason(msg, "blocked"))
		}
	}
	if !ev.Kind.IsEphemeral() {
		for _, store := range rl.StoreEvent {
			if saveErr := store(c, ev); saveErr != nil {
				if errors.Is(saveErr, eventstore.ErrDupEvent) {
					// the duplicate is reported to the submitter as a
					// success with a duplicate reason; no fan-out
					return saveErr
				}
				return errors.New(reason(saveErr.Error(), "error"))
			}
		}
		for _, ons := range rl.OnEventSaved {
			ons(c, ev)
		}
	} else {
		log.T.Ln("ephemeral event, fan-out only", ev.ID)
	}
	rl.BroadcastEvent(ev)
	return nil
}
