package badger

import (
	"encoding/binary"
	"encoding/hex"

	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/kind"
)

// Key layout. Everything hangs off three small indexes:
//
//	e<id32>                          -> event JSON
//	t<^created_at8><id8>             -> id32 (reverse chronological scan)
//	r<pubkey32><kind2>[<d tag>]      -> id32 (replaceable pointer)
//
// The timestamp in the t key is bitwise inverted so a forward iteration
// yields newest first.
const (
	prefixEvent       = 'e'
	prefixTime        = 't'
	prefixReplaceable = 'r'
)

func eventKey(id []byte) (k []byte) {
	k = make([]byte, 1+32)
	k[0] = prefixEvent
	copy(k[1:], id)
	return
}

func timeKey(ev *event.T, id []byte) (k []byte) {
	k = make([]byte, 1+8+8)
	k[0] = prefixTime
	binary.BigEndian.PutUint64(k[1:], ^ev.CreatedAt.U64())
	copy(k[9:], id[:8])
	return
}

// timeKeyPrefixUntil returns the earliest t key that can hold a timestamp
// no later than until, for starting a reverse chronological scan there.
func timeKeyPrefixUntil(until uint64) (k []byte) {
	k = make([]byte, 1+8)
	k[0] = prefixTime
	binary.BigEndian.PutUint64(k[1:], ^until)
	return
}

func replaceableKey(ev *event.T, pk []byte) (k []byte) {
	k = make([]byte, 1+32+2, 1+32+2+64)
	k[0] = prefixReplaceable
	copy(k[1:], pk)
	binary.BigEndian.PutUint16(k[33:], ev.Kind.ToUint16())
	if ev.Kind.IsParameterizedReplaceable() {
		// the d tag value distinguishes parameterized entries
		if d := ev.Tags.GetFirst("d"); d != nil {
			k = append(k, []byte(d.Value())...)
		}
	}
	return
}

func isReplaceableKind(ki kind.T) bool {
	return ki.IsReplaceable() || ki.IsParameterizedReplaceable()
}

func idBytes(ev *event.T) (id []byte, err error) {
	return hex.DecodeString(ev.ID.String())
}

func pubkeyBytes(ev *event.T) (pk []byte, err error) {
	return hex.DecodeString(ev.PubKey)
}
