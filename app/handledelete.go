package app

import (
	"context"
	"errors"

	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/filter"
	"github.com/castrlabs/castr/pkg/nostr/tag"
)

// handleDeleteRequest processes a NIP-09 deletion event: each referenced
// event is removed if the deletion author wrote it. The error, when set,
// always carries a "blocked: " prefix.
func (rl *Relay) handleDeleteRequest(c context.Context,
	ev *event.T) (err error) {

	for _, t := range ev.Tags {
		if len(t) < 2 || t.Key() != "e" {
			continue
		}
		for _, query := range rl.QueryEvents {
			var evs event.C
			if evs, err = query(c, &filter.T{
				IDs: tag.T{t.Value()},
			}); chk.E(err) {
				continue
			}
			target := <-evs
			if target == nil {
				continue
			}
			if target.PubKey != ev.PubKey {
				return errors.New(
					"blocked: you are not the author of this event")
			}
			for _, del := range rl.DeleteEvent {
				chk.E(del(c, target))
			}
			break
		}
	}
	return nil
}
