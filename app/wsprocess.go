package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/castrlabs/castr/pkg/eventstore"
	"github.com/castrlabs/castr/pkg/nostr/envelopes"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/closeenvelope"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/countenvelope"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/eoseenvelope"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/eventenvelope"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/noticeenvelope"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/okenvelope"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/reqenvelope"
	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/kind"
	"github.com/castrlabs/castr/pkg/nostr/timestamp"
	"github.com/castrlabs/castr/pkg/relayws"
)

// IgnoreAfter is the number of malformed messages tolerated per connection
// before further ones are dropped without a reply.
const IgnoreAfter = 16

func (rl *Relay) wsProcessMessage(msg []byte, c context.Context,
	ws *relayws.WebSocket) {

	if len(msg) == 0 {
		return
	}
	if ws.OffenseCount.Load() > IgnoreAfter {
		log.T.F("dropping message from %s, too many malformed messages",
			ws.RealRemote())
		return
	}
	if len(msg) > rl.Info.Limitation.MaxMessageLength {
		ws.WriteEnvelope(&okenvelope.T{
			OK: false,
			Reason: fmt.Sprintf(
				"invalid: relay limit disallows messages larger than %d "+
					"bytes, this message is %d bytes",
				rl.Info.Limitation.MaxMessageLength, len(msg)),
		})
		return
	}
	env, label, err := envelopes.ProcessEnvelope(msg)
	if err != nil {
		ws.OffenseCount.Inc()
		log.D.F("malformed %s message from %s: %v",
			label, ws.RealRemote(), err)
		ws.WriteEnvelope(&noticeenvelope.T{
			Text: reason(err.Error(), "invalid"),
		})
		return
	}
	switch env := env.(type) {
	case *eventenvelope.T:
		rl.handleEventMessage(c, ws, env)
	case *countenvelope.Request:
		if len(rl.CountEvents) == 0 {
			ws.WriteEnvelope(&noticeenvelope.T{
				Text: "unsupported: this relay does not support NIP-45",
			})
			return
		}
		var total int
		for _, f := range env.Filters {
			total += rl.handleCountRequest(c, env.ID, f)
		}
		ws.WriteEnvelope(&countenvelope.Response{ID: env.ID, Count: total})
	case *reqenvelope.T:
		rl.handleReqMessage(c, ws, env)
	case *closeenvelope.T:
		rl.RemoveListenerId(ws, env.Sub.String())
	}
}

// handleEventMessage runs the ingest pipeline for one submitted event:
// structural, identity and signature gates here, policy and persistence in
// AddEvent, and always exactly one OK back to the submitter.
func (rl *Relay) handleEventMessage(c context.Context,
	ws *relayws.WebSocket, env *eventenvelope.T) {

	ev := env.Event
	// structural validation
	if verr := rl.validateStructure(ev); verr != "" {
		ws.WriteEnvelope(&okenvelope.T{
			ID: ev.ID, OK: false, Reason: verr,
		})
		return
	}
	// identity validation: the id must be the hash of the canonical form
	if !ev.CheckID() {
		ws.WriteEnvelope(&okenvelope.T{
			ID:     ev.ID,
			OK:     false,
			Reason: "invalid: id is computed incorrectly",
		})
		return
	}
	// signature validation
	if ok, err := ev.CheckSignature(); err != nil {
		ws.WriteEnvelope(&okenvelope.T{
			ID:     ev.ID,
			OK:     false,
			Reason: "error: failed to verify signature: " + err.Error(),
		})
		return
	} else if !ok {
		ws.WriteEnvelope(&okenvelope.T{
			ID:     ev.ID,
			OK:     false,
			Reason: "invalid: signature is invalid",
		})
		return
	}
	var err error
	if ev.Kind == kind.Deletion {
		err = rl.handleDeleteRequest(c, ev)
	} else {
		err = rl.AddEvent(c, ev)
	}
	ok := err == nil
	var okReason string
	if err != nil {
		okReason = err.Error()
		if errors.Is(err, eventstore.ErrDupEvent) {
			// a resubmitted event is acknowledged as accepted
			ok = true
		}
	}
	ws.WriteEnvelope(&okenvelope.T{ID: ev.ID, OK: ok, Reason: okReason})
}

// validateStructure is the first ingest gate: required fields present and
// created_at inside the configured window. Returns the rejection reason or
// empty.
func (rl *Relay) validateStructure(ev *event.T) string {
	if ev == nil {
		return "invalid: event is nil"
	}
	if err := ev.ID.Validate(); err != nil {
		return reason(err.Error(), "invalid")
	}
	if len(ev.PubKey) != 64 {
		return "invalid: pubkey must be 64 hex characters"
	}
	if len(ev.Sig) != 128 {
		return "invalid: sig must be 128 hex characters"
	}
	now := timestamp.Now()
	if ev.CreatedAt-now > rl.Config.FutureSkew {
		return fmt.Sprintf(
			"invalid: event created_at %d is more than %d seconds in the "+
				"future", ev.CreatedAt, rl.Config.FutureSkew)
	}
	if rl.Config.MaxEventAge > 0 && now-ev.CreatedAt > rl.Config.MaxEventAge {
		return fmt.Sprintf(
			"invalid: relay limit disallows events older than %d seconds",
			rl.Config.MaxEventAge)
	}
	return ""
}

// handleReqMessage opens or replaces a subscription. The listener is
// registered before the backlog scan starts so an event accepted mid-scan
// is either captured by the scan or delivered live, never lost.
func (rl *Relay) handleReqMessage(c context.Context,
	ws *relayws.WebSocket, env *reqenvelope.T) {

	wg := sync.WaitGroup{}
	wg.Add(len(env.Filters))
	// a context just for the stored events handlers
	reqCtx, cancelReqCtx := context.WithCancelCause(c)
	reqCtx = context.WithValue(reqCtx, subscriptionIdKey,
		env.SubscriptionID.String())
	rl.SetListener(env.SubscriptionID.String(), ws, env.Filters,
		cancelReqCtx)
	for _, f := range env.Filters {
		err := rl.handleFilter(handleFilterParams{
			reqCtx, env.SubscriptionID, &wg, ws, f,
		})
		if err != nil {
			// fail the whole subscription if any filter is rejected
			ws.WriteEnvelope(&noticeenvelope.T{Text: err.Error()})
			rl.RemoveListenerId(ws, env.SubscriptionID.String())
			cancelReqCtx(errors.New("filter rejected"))
			return
		}
	}
	go func() {
		// once all stored events are dispatched, release the query context
		// and mark the end of stored events
		wg.Wait()
		cancelReqCtx(nil)
		ws.WriteEnvelope(&eoseenvelope.T{Sub: env.SubscriptionID})
	}()
}
