package app

import (
	"context"
	"errors"
	"sync"

	"github.com/castrlabs/castr/pkg/nostr/envelopes/eventenvelope"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/noticeenvelope"
	"github.com/castrlabs/castr/pkg/nostr/filter"
	"github.com/castrlabs/castr/pkg/nostr/subscriptionid"
	"github.com/castrlabs/castr/pkg/relayws"
)

type handleFilterParams struct {
	c    context.Context
	id   subscriptionid.T
	eose *sync.WaitGroup
	ws   *relayws.WebSocket
	f    *filter.T
}

// handleFilter runs the backlog query for one filter of a new
// subscription, dispatching stored events as they are loaded. The
// subscription is already registered in the registry by the caller, so an
// event accepted mid-scan is delivered live if the scan misses it; the
// client deduplicates on event id.
func (rl *Relay) handleFilter(h handleFilterParams) (err error) {
	defer h.eose.Done()
	if h.f.Limit != nil && *h.f.Limit < 0 {
		return errors.New("blocked: filter invalidated")
	}
	for _, rej := range rl.RejectFilter {
		if reject, msg := rej(h.c, h.id, h.f); reject {
			return errors.New(reason(msg, "blocked"))
		}
	}
	h.eose.Add(len(rl.QueryEvents))
	for _, query := range rl.QueryEvents {
		evs, qerr := query(h.c, h.f)
		if chk.E(qerr) {
			h.ws.WriteEnvelope(&noticeenvelope.T{Text: qerr.Error()})
			h.eose.Done()
			continue
		}
		go func() {
			defer h.eose.Done()
			for ev := range evs {
				if ev == nil {
					continue
				}
				h.ws.WriteEnvelope(&eventenvelope.T{
					SubscriptionID: h.id,
					Event:          ev,
				})
			}
		}()
	}
	return nil
}
