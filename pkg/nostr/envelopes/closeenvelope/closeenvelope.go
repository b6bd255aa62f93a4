// Package closeenvelope implements the CLOSE wire message ending one
// subscription.
package closeenvelope

import (
	"encoding/json"
	"errors"

	"github.com/castrlabs/castr/pkg/nostr/envelopes/labels"
	"github.com/castrlabs/castr/pkg/nostr/subscriptionid"
)

type T struct {
	Sub subscriptionid.T
}

func (env *T) Label() string { return labels.CLOSE }

func (env *T) Bytes() (b []byte) {
	b, _ = json.Marshal([]interface{}{labels.CLOSE, env.Sub})
	return
}

func (env *T) Unmarshal(elems []json.RawMessage) (err error) {
	if len(elems) < 1 {
		return errors.New("CLOSE envelope expects a subscription id")
	}
	var sid string
	if err = json.Unmarshal(elems[0], &sid); err != nil {
		return
	}
	env.Sub, err = subscriptionid.New(sid)
	return
}
