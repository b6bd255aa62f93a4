// Package tags implements the tags field of a nostr event, an ordered list
// of tag lists.
package tags

import (
	"github.com/castrlabs/castr/pkg/nostr/tag"
)

// T is a list of tag.T. The ordering is part of the canonical form and must
// be preserved.
type T []tag.T

// GetFirst returns the first tag whose initial elements equal the given
// prefix, or nil.
func (t T) GetFirst(prefix ...string) *tag.T {
	for i := range t {
		if startsWith(t[i], prefix) {
			return &t[i]
		}
	}
	return nil
}

// GetAll returns all tags whose initial elements equal the given prefix.
func (t T) GetAll(prefix ...string) (all T) {
	for i := range t {
		if startsWith(t[i], prefix) {
			all = append(all, t[i])
		}
	}
	return
}

// ContainsAny returns true if any tag with the given name has a value that
// is a member of values.
func (t T) ContainsAny(name string, values ...string) bool {
	for i := range t {
		if len(t[i]) < 2 || t[i].Key() != name {
			continue
		}
		for _, v := range values {
			if t[i].Value() == v {
				return true
			}
		}
	}
	return false
}

// Clone makes a deep copy.
func (t T) Clone() (c T) {
	c = make(T, len(t))
	for i := range t {
		c[i] = t[i].Clone()
	}
	return
}

func startsWith(t tag.T, prefix []string) bool {
	if len(prefix) > len(t) {
		return false
	}
	for i := range prefix {
		if prefix[i] != t[i] {
			return false
		}
	}
	return true
}
