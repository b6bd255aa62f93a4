// Package kinds is a set of kind.T used in filters and policies.
package kinds

import (
	"github.com/castrlabs/castr/pkg/nostr/kind"
)

// T is a list of kind.T.
type T []kind.T

// New creates a kinds.T from a list of kind numbers.
func New(ks ...kind.T) T { return ks }

// Contains reports whether the kind is a member.
func (ks T) Contains(s kind.T) bool {
	for i := range ks {
		if ks[i] == s {
			return true
		}
	}
	return false
}

// ToInts converts to plain ints, eg for a relay information document.
func (ks T) ToInts() (is []int) {
	is = make([]int, len(ks))
	for i := range ks {
		is[i] = ks[i].ToInt()
	}
	return
}
