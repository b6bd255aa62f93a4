// Package kind gives the nostr event kind numbers a compiler-enforced type
// and names the ones this relay touches. The kinds are their own package so
// call sites read as `kind.Deletion` rather than a longer repetitive form.
package kind

// T is the event kind in the nostr protocol.
type T uint16

func (ki T) ToInt() int       { return int(ki) }
func (ki T) ToUint16() uint16 { return uint16(ki) }

const (
	// ProfileMetadata stores user profile data: pet names, bio, picture.
	// Only the latest per pubkey is retained.
	ProfileMetadata T = 0
	SetMetadata     T = 0
	// TextNote is a standard short plain text note.
	TextNote T = 1
	// FollowList is a list of pubkeys the author follows.
	FollowList T = 3
	// Deletion requests removal of the events referenced in its e tags.
	Deletion T = 5
	// GroupChatMessage is the NIP-29 chat message kind.
	GroupChatMessage T = 9
	// ChannelMessage is the NIP-28 public chat message kind.
	ChannelMessage T = 42
	// ReplaceableStart through ReplaceableEnd is the replaceable range:
	// only the latest per (pubkey, kind) is retained.
	ReplaceableStart T = 10000
	ReplaceableEnd   T = 20000
	// EphemeralStart through EphemeralEnd is the ephemeral range: never
	// persisted, only fanned out to live subscribers.
	EphemeralStart T = 20000
	EphemeralEnd   T = 30000
	// ParameterizedReplaceableStart through ParameterizedReplaceableEnd is
	// the parameterized replaceable range, replaced per (pubkey, kind, d
	// tag).
	ParameterizedReplaceableStart T = 30000
	ParameterizedReplaceableEnd   T = 40000
	// GroupMetadata is the NIP-29 group metadata kind, replaceable.
	GroupMetadata T = 39000
)

var names = map[T]string{
	ProfileMetadata:  "ProfileMetadata",
	TextNote:         "TextNote",
	FollowList:       "FollowList",
	Deletion:         "Deletion",
	GroupChatMessage: "GroupChatMessage",
	ChannelMessage:   "ChannelMessage",
	GroupMetadata:    "GroupMetadata",
}

// GetString returns the name of a kind, if it has one.
func GetString(ki T) string { return names[ki] }

// IsReplaceable means a new event with the same (pubkey, kind) overwrites
// the stored one.
func (ki T) IsReplaceable() bool {
	return ki == ProfileMetadata || ki == FollowList ||
		(ki >= ReplaceableStart && ki < ReplaceableEnd)
}

func (ki T) IsEphemeral() bool {
	return ki >= EphemeralStart && ki < EphemeralEnd
}

func (ki T) IsParameterizedReplaceable() bool {
	return ki >= ParameterizedReplaceableStart &&
		ki < ParameterizedReplaceableEnd
}
