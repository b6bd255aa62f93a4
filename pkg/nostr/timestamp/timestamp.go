// Package timestamp implements the 1 second precision UNIX timestamps used
// in nostr events and filters.
package timestamp

import (
	"encoding/binary"
	"fmt"
	"time"
)

// T is a UNIX timestamp of 1 second precision.
type T int64

// Now returns the timestamp of the current second.
func Now() T { return T(time.Now().Unix()) }

// FromTime returns a T from a time.Time.
func FromTime(t time.Time) T { return T(t.Unix()) }

// FromUnix converts from a standard int64 unix timestamp.
func FromUnix(t int64) T { return T(t) }

// FromBytes converts from the 8 byte big endian form.
func FromBytes(b []byte) T { return T(binary.BigEndian.Uint64(b)) }

func (t T) I64() int64       { return int64(t) }
func (t T) U64() uint64      { return uint64(t) }
func (t T) Int() int         { return int(t) }
func (t T) Time() time.Time  { return time.Unix(int64(t), 0) }
func (t T) String() string   { return fmt.Sprint(int64(t)) }

// Bytes returns the big endian 8 byte form, used for lexically ordered
// database keys.
func (t T) Bytes() (b []byte) {
	b = make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(t))
	return
}

// Ptr returns a pointer, so optional filter fields can register as unset by
// being nil.
func (t T) Ptr() *T { return &t }
