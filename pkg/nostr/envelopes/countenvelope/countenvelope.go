// Package countenvelope implements the NIP-45 COUNT wire messages: the
// client request carries filters like a REQ, the response carries the
// count.
package countenvelope

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/castrlabs/castr/pkg/nostr/envelopes/labels"
	"github.com/castrlabs/castr/pkg/nostr/filter"
	"github.com/castrlabs/castr/pkg/nostr/filters"
	"github.com/castrlabs/castr/pkg/nostr/subscriptionid"
)

type Request struct {
	ID      subscriptionid.T
	Filters filters.T
}

func (env *Request) Label() string { return labels.COUNT }

func (env *Request) Bytes() (b []byte) {
	arr := []interface{}{labels.COUNT, env.ID}
	for _, f := range env.Filters {
		arr = append(arr, f)
	}
	b, _ = json.Marshal(arr)
	return
}

func (env *Request) Unmarshal(elems []json.RawMessage) (err error) {
	if len(elems) < 2 {
		return errors.New(
			"COUNT envelope expects a subscription id and at least one filter")
	}
	var sid string
	if err = json.Unmarshal(elems[0], &sid); err != nil {
		return fmt.Errorf("invalid subscription id: %w", err)
	}
	if env.ID, err = subscriptionid.New(sid); err != nil {
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

type Response struct {
	ID    subscriptionid.T
	Count int
}

func (env *Response) Label() string { return labels.COUNT }

func (env *Response) Bytes() (b []byte) {
	b, _ = json.Marshal([]interface{}{
		labels.COUNT, env.ID,
		struct {
			Count int `json:"count"`
		}{env.Count},
	})
	return
}
