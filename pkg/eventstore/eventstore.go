// Package eventstore defines the persistence contract between a relay and
// its storage backend.
package eventstore

import (
	"context"
	"errors"

	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/filter"
)

// Store is a persistence layer for nostr events handled by a relay.
type Store interface {
	// Init is called before first use, allowing the backend to open its
	// resources.
	Init() (err error)
	// Close must be called after the store is done with, to release its
	// resources.
	Close()
	// SaveEvent persists an accepted event. Replaceable kinds overwrite
	// the stored event with the same (pubkey, kind) key if the new one is
	// newer; all other kinds are create-if-absent and a duplicate returns
	// ErrDupEvent.
	SaveEvent(c context.Context, ev *event.T) (err error)
	// QueryEvents streams stored events matching the filter in reverse
	// chronological order, bounded by the filter limit. The channel is
	// closed when the query completes or the context is cancelled.
	QueryEvents(c context.Context, f *filter.T) (ch event.C, err error)
	// CountEvents returns the number of stored events matching the
	// filter.
	CountEvents(c context.Context, f *filter.T) (count int, err error)
	// DeleteEvent removes a stored event.
	DeleteEvent(c context.Context, ev *event.T) (err error)
}

var (
	ErrDupEvent       = errors.New("duplicate: event already exists")
	ErrEventNotExists = errors.New("unknown: event not known by this relay")
)
