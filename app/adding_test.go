package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castrlabs/castr/pkg/eventstore"
	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/kind"
	"github.com/castrlabs/castr/pkg/nostr/timestamp"
)

func TestAddEventNil(t *testing.T) {
	rl := newTestRelay(t)
	assert.Error(t, rl.AddEvent(context.Background(), nil))
}

func TestAddEventRejectPolicy(t *testing.T) {
	rl := newTestRelay(t)
	var stored int
	rl.RejectEvent = append(rl.RejectEvent,
		func(c context.Context, ev *event.T) (bool, string) {
			return ev.Content == "spam", "no spam here"
		})
	rl.StoreEvent = append(rl.StoreEvent,
		func(c context.Context, ev *event.T) error {
			stored++
			return nil
		})
	err := rl.AddEvent(context.Background(),
		&event.T{Kind: kind.TextNote, Content: "spam",
			CreatedAt: timestamp.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked: no spam here")
	assert.Zero(t, stored)

	require.NoError(t, rl.AddEvent(context.Background(),
		&event.T{Kind: kind.TextNote, Content: "fine",
			CreatedAt: timestamp.Now()}))
	assert.Equal(t, 1, stored)
}

func TestAddEventDuplicatePassedThrough(t *testing.T) {
	rl := newTestRelay(t)
	rl.StoreEvent = append(rl.StoreEvent,
		func(c context.Context, ev *event.T) error {
			return eventstore.ErrDupEvent
		})
	var saved int
	rl.OnEventSaved = append(rl.OnEventSaved,
		func(c context.Context, ev *event.T) { saved++ })
	err := rl.AddEvent(context.Background(),
		&event.T{Kind: kind.TextNote, CreatedAt: timestamp.Now()})
	assert.ErrorIs(t, err, eventstore.ErrDupEvent)
	assert.Zero(t, saved)
}

func TestAddEventStorageError(t *testing.T) {
	rl := newTestRelay(t)
	rl.StoreEvent = append(rl.StoreEvent,
		func(c context.Context, ev *event.T) error {
			return errors.New("disk on fire")
		})
	err := rl.AddEvent(context.Background(),
		&event.T{Kind: kind.TextNote, CreatedAt: timestamp.Now()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error: disk on fire")
}

func TestAddEventEphemeralSkipsStorage(t *testing.T) {
	rl := newTestRelay(t)
	var stored int
	rl.StoreEvent = append(rl.StoreEvent,
		func(c context.Context, ev *event.T) error {
			stored++
			return nil
		})
	require.NoError(t, rl.AddEvent(context.Background(),
		&event.T{Kind: 20001, CreatedAt: timestamp.Now()}))
	assert.Zero(t, stored)
}

func TestPolicies(t *testing.T) {
	c := context.Background()
	allow := RestrictToSpecifiedKinds(kind.ProfileMetadata,
		kind.GroupChatMessage)
	rej, _ := allow(c, &event.T{Kind: kind.GroupChatMessage})
	assert.False(t, rej)
	rej, msg := allow(c, &event.T{Kind: kind.TextNote})
	assert.True(t, rej)
	assert.Equal(t, "event kind not allowed", msg)

	past := PreventTimestampsInThePast(100)
	rej, _ = past(c, &event.T{CreatedAt: timestamp.Now() - 5000})
	assert.True(t, rej)
	rej, _ = past(c, &event.T{CreatedAt: timestamp.Now() - 50})
	assert.False(t, rej)

	future := PreventTimestampsInTheFuture(100)
	rej, _ = future(c, &event.T{CreatedAt: timestamp.Now() + 5000})
	assert.True(t, rej)
	rej, _ = future(c, &event.T{CreatedAt: timestamp.Now()})
	assert.False(t, rej)
}
