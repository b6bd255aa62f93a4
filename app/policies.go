package app

import (
	"context"

	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/kind"
	"github.com/castrlabs/castr/pkg/nostr/timestamp"
)

// RestrictToSpecifiedKinds returns a RejectEvent policy rejecting any event
// whose kind is not in the given set.
func RestrictToSpecifiedKinds(ks ...kind.T) RejectEvent {
	allowed := make(map[kind.T]struct{}, len(ks))
	for _, k := range ks {
		allowed[k] = struct{}{}
	}
	return func(c context.Context, ev *event.T) (rej bool, msg string) {
		if _, ok := allowed[ev.Kind]; ok {
			return false, ""
		}
		return true, "event kind not allowed"
	}
}

// PreventTimestampsInThePast rejects events older than the threshold.
func PreventTimestampsInThePast(threshold timestamp.T) RejectEvent {
	return func(c context.Context, ev *event.T) (rej bool, msg string) {
		if timestamp.Now()-ev.CreatedAt > threshold {
			return true, "event too old"
		}
		return false, ""
	}
}

// PreventTimestampsInTheFuture rejects events dated further into the
// future than the tolerated clock skew.
func PreventTimestampsInTheFuture(threshold timestamp.T) RejectEvent {
	return func(c context.Context, ev *event.T) (rej bool, msg string) {
		if ev.CreatedAt-timestamp.Now() > threshold {
			return true, "event too far in the future"
		}
		return false, ""
	}
}
