// Package reqenvelope implements the REQ wire message: a subscription ID
// and one or more filters.
package reqenvelope

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/castrlabs/castr/pkg/nostr/envelopes/labels"
	"github.com/castrlabs/castr/pkg/nostr/filter"
	"github.com/castrlabs/castr/pkg/nostr/filters"
	"github.com/castrlabs/castr/pkg/nostr/subscriptionid"
)

type T struct {
	SubscriptionID subscriptionid.T
	Filters        filters.T
}

func (env *T) Label() string { return labels.REQ }

func (env *T) Bytes() (b []byte) {
	arr := []interface{}{labels.REQ, env.SubscriptionID}
	for _, f := range env.Filters {
		arr = append(arr, f)
	}
	b, _ = json.Marshal(arr)
	return
}

func (env *T) Unmarshal(elems []json.RawMessage) (err error) {
	if len(elems) < 2 {
		return errors.New(
			"REQ envelope expects a subscription id and at least one filter")
	}
	var sid string
	if err = json.Unmarshal(elems[0], &sid); err != nil {
		return fmt.Errorf("invalid subscription id: %w", err)
	}
	if env.SubscriptionID, err = subscriptionid.New(sid); err != nil {
		return
	}
	for _, elem := range elems[1:] {
		f := &filter.T{}
		if err = json.Unmarshal(elem, f); err != nil {
			return fmt.Errorf("invalid filter: %w", err)
		}
		env.Filters = append(env.Filters, f)
	}
	return
}
