package badger

import (
	"context"

	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/filter"
	"github.com/dgraph-io/badger/v4"
)

// MaxQueryLimit caps a backlog query when the filter gives no limit of its
// own.
const MaxQueryLimit = 512

// QueryEvents streams matching events newest first over the returned
// channel. The scan walks the time index from the filter's until bound (or
// the newest event) back to the since bound, evaluating the full filter
// against each candidate.
func (b *Backend) QueryEvents(c context.Context,
	f *filter.T) (ch event.C, err error) {

	limit := MaxQueryLimit
	if f.Limit != nil {
		limit = *f.Limit
		if limit > MaxQueryLimit {
			limit = MaxQueryLimit
		}
	}
	ch = make(event.C)
	go func() {
		defer close(ch)
		if limit <= 0 {
			return
		}
		sent := 0
		chk.E(b.DB.View(func(txn *badger.Txn) (err error) {
			it := txn.NewIterator(badger.IteratorOptions{
				PrefetchValues: true,
				PrefetchSize:   64,
				Prefix:         []byte{prefixTime},
			})
			defer it.Close()
			start := []byte{prefixTime}
			if f.Until != nil {
				start = timeKeyPrefixUntil(f.Until.U64())
			}
			for it.Seek(start); it.Valid(); it.Next() {
				var id []byte
				if id, err = it.Item().ValueCopy(nil); chk.E(err) {
					return
				}
				var ev *event.T
				if ev, err = getEvent(txn, id); chk.E(err) {
					return
				}
				if f.Since != nil && ev.CreatedAt < *f.Since {
					// the scan is newest first, nothing older matches
					return nil
				}
				if !f.Matches(ev) {
					continue
				}
				select {
				case ch <- ev:
				case <-c.Done():
					return nil
				}
				if sent++; sent >= limit {
					return nil
				}
			}
			return nil
		}))
	}()
	return
}

// CountEvents counts matching events without streaming them.
func (b *Backend) CountEvents(c context.Context,
	f *filter.T) (count int, err error) {

	err = b.DB.View(func(txn *badger.Txn) (err error) {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   64,
			Prefix:         []byte{prefixTime},
		})
		defer it.Close()
		start := []byte{prefixTime}
		if f.Until != nil {
			start = timeKeyPrefixUntil(f.Until.U64())
		}
		for it.Seek(start); it.Valid(); it.Next() {
			var id []byte
			if id, err = it.Item().ValueCopy(nil); chk.E(err) {
				return
			}
			var ev *event.T
			if ev, err = getEvent(txn, id); chk.E(err) {
				return
			}
			if f.Since != nil && ev.CreatedAt < *f.Since {
				return nil
			}
			if f.Matches(ev) {
				count++
			}
		}
		return nil
	})
	return
}
