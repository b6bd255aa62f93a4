// Package eventid implements the event ID, the SHA256 hash in hexadecimal of
// the canonical form of an event.
package eventid

import (
	"encoding/hex"
	"fmt"
)

// T is the hex encoded SHA256 hash of the canonical event form.
type T string

func (ei T) String() string { return string(ei) }

// Bytes returns the raw 32 byte hash, or nil if the id is not valid hex.
func (ei T) Bytes() (b []byte) {
	b, _ = hex.DecodeString(string(ei))
	return
}

// New checks a string is a valid event ID and returns it coerced to the
// type.
func New(s string) (ei T, err error) {
	ei = T(s)
	if err = ei.Validate(); err != nil {
		ei = ""
		return
	}
	return
}

// Validate checks the string is 64 characters of valid hexadecimal.
func (ei T) Validate() (err error) {
	if len(ei) != 64 {
		return fmt.Errorf("event ID invalid length: got %d expect 64",
			len(ei))
	}
	if _, err = hex.DecodeString(string(ei)); err != nil {
		return fmt.Errorf("event ID is not valid hex: %w", err)
	}
	return
}
