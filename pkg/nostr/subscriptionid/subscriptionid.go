// Package subscriptionid implements the client-chosen subscription
// identifier carried in REQ, CLOSE, EVENT and EOSE envelopes.
package subscriptionid

import "fmt"

// T is a non-empty string of at most 64 characters, unique per connection.
type T string

func (si T) String() string { return string(si) }

// IsValid checks the length constraint from NIP-01.
func (si T) IsValid() bool { return len(si) > 0 && len(si) <= 64 }

// New validates and coerces a string to a subscription ID.
func New(s string) (T, error) {
	si := T(s)
	if !si.IsValid() {
		return "", fmt.Errorf(
			"subscription id must be between 1 and 64 characters, got %d",
			len(s))
	}
	return si, nil
}
