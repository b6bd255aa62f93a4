// Package event implements the primary datatype of nostr, the event: an
// immutable, signed record whose ID is the hash of its canonical form.
package event

import (
	"bytes"
	"encoding/hex"
	"encoding/json"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/castrlabs/castr/pkg/nostr/eventid"
	"github.com/castrlabs/castr/pkg/nostr/kind"
	"github.com/castrlabs/castr/pkg/nostr/tags"
	"github.com/castrlabs/castr/pkg/nostr/timestamp"
	"github.com/minio/sha256-simd"
)

// T is the nostr event in its JSON wire form.
type T struct {
	// ID is the SHA256 hash of the canonical encoding of the event.
	ID eventid.T `json:"id"`
	// PubKey is the x-only public key of the event creator in hexadecimal.
	PubKey string `json:"pubkey"`
	// CreatedAt is the UNIX timestamp claimed by the event creator (never
	// trust a timestamp).
	CreatedAt timestamp.T `json:"created_at"`
	// Kind is the protocol code for the type of event.
	Kind kind.T `json:"kind"`
	// Tags is an ordered list of ordered string lists.
	Tags tags.T `json:"tags"`
	// Content is an arbitrary string, its meaning set by the kind.
	Content string `json:"content"`
	// Sig is the schnorr signature over ID by PubKey.
	Sig string `json:"sig"`
}

// C is a channel of events, the form in which stored events are streamed out
// of a query.
type C chan *T

// Hash is the hash function used to derive event IDs.
func Hash(in []byte) (out []byte) {
	h := sha256.Sum256(in)
	return h[:]
}

// Serialize renders the event as its JSON wire form.
func (ev *T) Serialize() (b []byte) {
	b, _ = marshalNoEscape(ev)
	return
}

// ToCanonical returns the canonical serialization
// [0,pubkey,created_at,kind,tags,content] whose hash is the event ID.
func (ev *T) ToCanonical() (b []byte) {
	// tags must never serialize as null, an empty tag list is "[]"
	t := ev.Tags
	if t == nil {
		t = tags.T{}
	}
	b, _ = marshalNoEscape([]interface{}{
		0, ev.PubKey, ev.CreatedAt, ev.Kind, t, ev.Content,
	})
	return
}

// GetIDBytes returns the raw SHA256 hash of the canonical form.
func (ev *T) GetIDBytes() []byte { return Hash(ev.ToCanonical()) }

// GetID computes and returns the event ID in hexadecimal.
func (ev *T) GetID() eventid.T {
	return eventid.T(hex.EncodeToString(ev.GetIDBytes()))
}

// CheckID recomputes the ID from the canonical form and reports whether the
// event carries the correct one.
func (ev *T) CheckID() bool { return ev.GetID() == ev.ID }

// CheckSignature verifies Sig against PubKey over the canonical hash. The
// error return distinguishes garbage fields from a well formed but invalid
// signature.
func (ev *T) CheckSignature() (valid bool, err error) {
	var pkb []byte
	if pkb, err = hex.DecodeString(ev.PubKey); err != nil {
		return false, err
	}
	var pk *btcec.PublicKey
	if pk, err = schnorr.ParsePubKey(pkb); err != nil {
		return false, err
	}
	var sigb []byte
	if sigb, err = hex.DecodeString(ev.Sig); err != nil {
		return false, err
	}
	var sig *schnorr.Signature
	if sig, err = schnorr.ParseSignature(sigb); err != nil {
		return false, err
	}
	return sig.Verify(ev.GetIDBytes(), pk), nil
}

// Sign computes the ID, signs it with the given secret key in hexadecimal,
// and fills in ID, PubKey and Sig.
func (ev *T) Sign(sk string) (err error) {
	var skb []byte
	if skb, err = hex.DecodeString(sk); err != nil {
		return
	}
	sec, _ := btcec.PrivKeyFromBytes(skb)
	ev.PubKey = hex.EncodeToString(schnorr.SerializePubKey(sec.PubKey()))
	id := ev.GetIDBytes()
	var sig *schnorr.Signature
	if sig, err = schnorr.Sign(sec, id); err != nil {
		return
	}
	ev.ID = eventid.T(hex.EncodeToString(id))
	ev.Sig = hex.EncodeToString(sig.Serialize())
	return
}

// Descending sorts a slice of events in reverse chronological order, ties
// broken by ID so the order is total.
type Descending []*T

func (e Descending) Len() int { return len(e) }
func (e Descending) Less(i, j int) bool {
	if e[i].CreatedAt != e[j].CreatedAt {
		return e[i].CreatedAt > e[j].CreatedAt
	}
	return e[i].ID < e[j].ID
}
func (e Descending) Swap(i, j int) { e[i], e[j] = e[j], e[i] }

// IsOlder reports whether prev should be superseded by next for replaceable
// kinds: older created_at loses, ties broken toward the lower ID.
func IsOlder(prev, next *T) bool {
	p, n := prev.CreatedAt, next.CreatedAt
	return p < n || (p == n && prev.ID > next.ID)
}

// marshalNoEscape is json.Marshal without HTML escaping, which would change
// the canonical form of content containing angle brackets or ampersands.
func marshalNoEscape(v interface{}) (b []byte, err error) {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err = enc.Encode(v); err != nil {
		return
	}
	b = bytes.TrimRight(buf.Bytes(), "\n")
	return
}
