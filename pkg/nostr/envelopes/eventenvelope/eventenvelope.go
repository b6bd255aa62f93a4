// Package eventenvelope implements the EVENT wire message. Client to relay
// it carries just the event; relay to client it also carries the
// subscription ID the event matched.
package eventenvelope

import (
	"encoding/json"
	"fmt"

	"github.com/castrlabs/castr/pkg/nostr/envelopes/labels"
	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/subscriptionid"
)

// T is the EVENT envelope. A zero SubscriptionID renders the two-element
// submission form.
type T struct {
	SubscriptionID subscriptionid.T
	Event          *event.T
}

func (env *T) Label() string { return labels.EVENT }

func (env *T) Bytes() (b []byte) {
	if env.SubscriptionID == "" {
		b, _ = json.Marshal([]interface{}{labels.EVENT, env.Event})
		return
	}
	b, _ = json.Marshal([]interface{}{
		labels.EVENT, env.SubscriptionID, env.Event,
	})
	return
}

// Unmarshal fills the envelope from the array elements after the label.
func (env *T) Unmarshal(elems []json.RawMessage) (err error) {
	switch len(elems) {
	case 1:
		// submission form: ["EVENT", event]
	case 2:
		// delivery form: ["EVENT", subid, event]
		if err = json.Unmarshal(elems[0],
			&env.SubscriptionID); err != nil {
			return fmt.Errorf("invalid subscription id: %w", err)
		}
		elems = elems[1:]
	default:
		return fmt.Errorf("EVENT envelope expects 2 or 3 elements, got %d",
			len(elems)+1)
	}
	env.Event = &event.T{}
	if err = json.Unmarshal(elems[0], env.Event); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}
	return
}
