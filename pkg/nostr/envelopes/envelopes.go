// Package envelopes sniffs the label of an incoming wire message and parses
// it into its typed envelope.
package envelopes

import (
	"encoding/json"
	"fmt"

	"github.com/castrlabs/castr/pkg/nostr/enveloper"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/closeenvelope"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/countenvelope"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/eventenvelope"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/labels"
	"github.com/castrlabs/castr/pkg/nostr/envelopes/reqenvelope"
)

// unmarshaler is implemented by the client-to-relay envelopes.
type unmarshaler interface {
	Unmarshal(elems []json.RawMessage) error
}

// ProcessEnvelope parses one inbound message. The label is returned even
// when the payload fails to parse, so callers can report which message type
// was malformed.
func ProcessEnvelope(b []byte) (env enveloper.I, label string, err error) {
	var arr []json.RawMessage
	if err = json.Unmarshal(b, &arr); err != nil {
		err = fmt.Errorf("envelope is not a JSON array: %w", err)
		return
	}
	if len(arr) == 0 {
		err = fmt.Errorf("envelope array is empty")
		return
	}
	if err = json.Unmarshal(arr[0], &label); err != nil {
		err = fmt.Errorf("envelope label is not a string: %w", err)
		return
	}
	var u unmarshaler
	switch label {
	case labels.EVENT:
		u = &eventenvelope.T{}
	case labels.REQ:
		u = &reqenvelope.T{}
	case labels.CLOSE:
		u = &closeenvelope.T{}
	case labels.COUNT:
		u = &countenvelope.Request{}
	default:
		err = fmt.Errorf("unknown envelope label %q", label)
		return
	}
	if err = u.Unmarshal(arr[1:]); err != nil {
		return
	}
	env = u.(enveloper.I)
	return
}
