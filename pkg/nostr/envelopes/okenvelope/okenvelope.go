// Package okenvelope implements the OK wire message: the relay's single
// acknowledgement for one submitted event, success or the prefixed reason
// for rejection.
package okenvelope

import (
	"encoding/json"
	"errors"

	"github.com/castrlabs/castr/pkg/nostr/envelopes/labels"
	"github.com/castrlabs/castr/pkg/nostr/eventid"
)

type T struct {
	ID     eventid.T
	OK     bool
	Reason string
}

func (env *T) Label() string { return labels.OK }

func (env *T) Bytes() (b []byte) {
	b, _ = json.Marshal([]interface{}{
		labels.OK, env.ID, env.OK, env.Reason,
	})
	return
}

func (env *T) Unmarshal(elems []json.RawMessage) (err error) {
	if len(elems) < 3 {
		return errors.New("OK envelope expects 4 elements")
	}
	if err = json.Unmarshal(elems[0], &env.ID); err != nil {
		return
	}
	if err = json.Unmarshal(elems[1], &env.OK); err != nil {
		return
	}
	return json.Unmarshal(elems[2], &env.Reason)
}
