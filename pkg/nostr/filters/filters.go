// Package filters implements the filter list of a subscription: a match on
// any one filter is a match for the subscription.
package filters

import (
	"encoding/json"

	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/filter"
)

// T is the filter set of one subscription.
type T []*filter.T

// Match reports whether any of the filters matches the event.
func (ff T) Match(ev *event.T) bool {
	for _, f := range ff {
		if f.Matches(ev) {
			return true
		}
	}
	return false
}

func (ff T) String() string {
	b, _ := json.Marshal(ff)
	return string(b)
}
