package app

import (
	"context"

	"github.com/castrlabs/castr/pkg/nostr/filter"
	"github.com/castrlabs/castr/pkg/nostr/subscriptionid"
)

// handleCountRequest totals stored events matching one filter of a NIP-45
// COUNT request.
func (rl *Relay) handleCountRequest(c context.Context,
	id subscriptionid.T, f *filter.T) (total int) {

	for _, rej := range rl.RejectFilter {
		if reject, _ := rej(c, id, f); reject {
			return 0
		}
	}
	for _, count := range rl.CountEvents {
		n, err := count(c, f)
		if chk.E(err) {
			continue
		}
		total += n
	}
	return
}
