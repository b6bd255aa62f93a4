// Package tag implements the tag list element of nostr events, an ordered
// list of strings where position carries meaning.
package tag

// Positions of the meaningful tag fields.
const (
	Key = iota
	Value
	Relay
)

// T is a list of strings with a literal ordering. Not a set, elements can
// repeat.
type T []string

// Key returns the first element of the tag.
func (t T) Key() string {
	if len(t) > Key {
		return t[Key]
	}
	return ""
}

// Value returns the second element of the tag.
func (t T) Value() string {
	if len(t) > Value {
		return t[Value]
	}
	return ""
}

// Contains reports whether the tag contains the given string.
func (t T) Contains(s string) bool {
	for i := range t {
		if t[i] == s {
			return true
		}
	}
	return false
}

// Clone makes a copy with its own backing array.
func (t T) Clone() (c T) {
	c = make(T, len(t))
	copy(c, t)
	return
}
