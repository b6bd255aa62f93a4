// Package enveloper defines the interface shared by all wire message
// envelopes.
package enveloper

// I is an envelope: a typed wrapper around one JSON array wire message.
type I interface {
	// Label returns the first element of the array, the message type tag.
	Label() string
	// Bytes renders the envelope to its wire form.
	Bytes() []byte
}
