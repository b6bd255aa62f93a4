// Package noticeenvelope implements the NOTICE wire message, a human
// readable message to one connection.
package noticeenvelope

import (
	"encoding/json"

	"github.com/castrlabs/castr/pkg/nostr/envelopes/labels"
)

type T struct {
	Text string
}

func (env *T) Label() string { return labels.NOTICE }

func (env *T) Bytes() (b []byte) {
	b, _ = json.Marshal([]interface{}{labels.NOTICE, env.Text})
	return
}
