// Package badger is the badger backed eventstore.Store used by the relay.
package badger

import (
	"context"
	"encoding/json"
	"os"

	"github.com/castrlabs/castr/pkg/eventstore"
	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/slog"
	"github.com/dgraph-io/badger/v4"
)

var log, chk = slog.New(os.Stderr)

// Backend implements eventstore.Store on a badger key-value store. Path is
// the database directory; InMemory is for tests.
type Backend struct {
	Path     string
	InMemory bool
	DB       *badger.DB
}

var _ eventstore.Store = (*Backend)(nil)

func (b *Backend) Init() (err error) {
	opts := badger.DefaultOptions(b.Path).
		WithInMemory(b.InMemory).
		WithLogger(nil)
	if b.InMemory {
		opts.Dir, opts.ValueDir = "", ""
	}
	if b.DB, err = badger.Open(opts); chk.E(err) {
		return
	}
	log.D.F("badger eventstore open at '%s'", b.Path)
	return
}

func (b *Backend) Close() { chk.E(b.DB.Close()) }

// SaveEvent persists one event. Non-replaceable kinds are create-if-absent:
// a duplicate id returns eventstore.ErrDupEvent untouched. Replaceable
// kinds keep only the newest event per replaceable key; saving an event
// older than the stored one succeeds without overwriting it.
func (b *Backend) SaveEvent(c context.Context, ev *event.T) (err error) {
	var id, pk []byte
	if id, err = idBytes(ev); chk.E(err) {
		return
	}
	if pk, err = pubkeyBytes(ev); chk.E(err) {
		return
	}
	return b.DB.Update(func(txn *badger.Txn) (err error) {
		if !isReplaceableKind(ev.Kind) {
			if _, err = txn.Get(eventKey(id)); err == nil {
				return eventstore.ErrDupEvent
			} else if err != badger.ErrKeyNotFound {
				return
			}
			return writeEvent(txn, ev, id)
		}
		rk := replaceableKey(ev, pk)
		item, err := txn.Get(rk)
		switch err {
		case nil:
			var prevID []byte
			if prevID, err = item.ValueCopy(nil); err != nil {
				return
			}
			var prev *event.T
			if prev, err = getEvent(txn, prevID); err != nil {
				return
			}
			if !event.IsOlder(prev, ev) {
				// stored event is newer, nothing to replace
				return nil
			}
			if err = deleteEvent(txn, prev, prevID); err != nil {
				return
			}
		case badger.ErrKeyNotFound:
		default:
			return
		}
		if err = writeEvent(txn, ev, id); err != nil {
			return
		}
		return txn.Set(rk, id)
	})
}

// DeleteEvent removes an event and its index entries.
func (b *Backend) DeleteEvent(c context.Context, ev *event.T) (err error) {
	var id, pk []byte
	if id, err = idBytes(ev); chk.E(err) {
		return
	}
	if pk, err = pubkeyBytes(ev); chk.E(err) {
		return
	}
	return b.DB.Update(func(txn *badger.Txn) (err error) {
		if err = deleteEvent(txn, ev, id); err != nil {
			return
		}
		if !isReplaceableKind(ev.Kind) {
			return
		}
		// drop the replaceable pointer only if it points at this event
		rk := replaceableKey(ev, pk)
		item, err := txn.Get(rk)
		if err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return
		}
		var ptr []byte
		if ptr, err = item.ValueCopy(nil); err != nil {
			return
		}
		if string(ptr) == string(id) {
			return txn.Delete(rk)
		}
		return nil
	})
}

func writeEvent(txn *badger.Txn, ev *event.T, id []byte) (err error) {
	if err = txn.Set(eventKey(id), ev.Serialize()); err != nil {
		return
	}
	return txn.Set(timeKey(ev, id), id)
}

func deleteEvent(txn *badger.Txn, ev *event.T, id []byte) (err error) {
	if err = txn.Delete(eventKey(id)); err != nil {
		return
	}
	return txn.Delete(timeKey(ev, id))
}

func getEvent(txn *badger.Txn, id []byte) (ev *event.T, err error) {
	item, err := txn.Get(eventKey(id))
	if err != nil {
		return
	}
	err = item.Value(func(val []byte) (err error) {
		ev = &event.T{}
		return json.Unmarshal(val, ev)
	})
	return
}
