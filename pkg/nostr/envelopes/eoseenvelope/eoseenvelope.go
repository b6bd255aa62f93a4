// Package eoseenvelope implements the EOSE wire message, the marker between
// a subscription's stored events and its live stream.
package eoseenvelope

import (
	"encoding/json"

	"github.com/castrlabs/castr/pkg/nostr/envelopes/labels"
	"github.com/castrlabs/castr/pkg/nostr/subscriptionid"
)

type T struct {
	Sub subscriptionid.T
}

func (env *T) Label() string { return labels.EOSE }

func (env *T) Bytes() (b []byte) {
	b, _ = json.Marshal([]interface{}{labels.EOSE, env.Sub})
	return
}
