package badger

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castrlabs/castr/pkg/eventstore"
	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/filter"
	"github.com/castrlabs/castr/pkg/nostr/kind"
	"github.com/castrlabs/castr/pkg/nostr/kinds"
	"github.com/castrlabs/castr/pkg/nostr/tag"
	"github.com/castrlabs/castr/pkg/nostr/tags"
	"github.com/castrlabs/castr/pkg/nostr/timestamp"
)

func newTestBackend(t *testing.T) *Backend {
	b := &Backend{InMemory: true}
	require.NoError(t, b.Init())
	t.Cleanup(b.Close)
	return b
}

func newSecKey(t *testing.T) string {
	sec, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return hex.EncodeToString(sec.Serialize())
}

func signedEvent(t *testing.T, sk string, k kind.T, created int64,
	content string, tt ...tag.T) *event.T {

	ev := &event.T{
		CreatedAt: timestamp.T(created),
		Kind:      k,
		Tags:      tags.T(tt),
		Content:   content,
	}
	require.NoError(t, ev.Sign(sk))
	return ev
}

func drain(t *testing.T, ch event.C) (evs []*event.T) {
	for ev := range ch {
		evs = append(evs, ev)
	}
	return
}

func queryAll(t *testing.T, b *Backend, f *filter.T) []*event.T {
	ch, err := b.QueryEvents(context.Background(), f)
	require.NoError(t, err)
	return drain(t, ch)
}

func TestSaveAndQueryNewestFirst(t *testing.T) {
	b := newTestBackend(t)
	sk := newSecKey(t)
	c := context.Background()
	for _, created := range []int64{100, 300, 200} {
		ev := signedEvent(t, sk, kind.TextNote, created, "x")
		require.NoError(t, b.SaveEvent(c, ev))
	}
	evs := queryAll(t, b, &filter.T{})
	require.Len(t, evs, 3)
	assert.Equal(t, timestamp.T(300), evs[0].CreatedAt)
	assert.Equal(t, timestamp.T(200), evs[1].CreatedAt)
	assert.Equal(t, timestamp.T(100), evs[2].CreatedAt)
}

func TestSaveDuplicate(t *testing.T) {
	b := newTestBackend(t)
	c := context.Background()
	ev := signedEvent(t, newSecKey(t), kind.TextNote, 100, "once")
	require.NoError(t, b.SaveEvent(c, ev))
	err := b.SaveEvent(c, ev)
	assert.ErrorIs(t, err, eventstore.ErrDupEvent)
	assert.Len(t, queryAll(t, b, &filter.T{}), 1)
}

func TestReplaceableKeepsNewest(t *testing.T) {
	b := newTestBackend(t)
	sk := newSecKey(t)
	c := context.Background()
	older := signedEvent(t, sk, kind.ProfileMetadata, 100, `{"name":"a"}`)
	newer := signedEvent(t, sk, kind.ProfileMetadata, 200, `{"name":"b"}`)
	require.NoError(t, b.SaveEvent(c, older))
	require.NoError(t, b.SaveEvent(c, newer))
	evs := queryAll(t, b, &filter.T{Kinds: kinds.T{kind.ProfileMetadata}})
	require.Len(t, evs, 1)
	assert.Equal(t, newer.ID, evs[0].ID)
	// saving the older one again succeeds but does not displace the newer
	require.NoError(t, b.SaveEvent(c, older))
	evs = queryAll(t, b, &filter.T{Kinds: kinds.T{kind.ProfileMetadata}})
	require.Len(t, evs, 1)
	assert.Equal(t, newer.ID, evs[0].ID)
}

func TestReplaceablePerAuthor(t *testing.T) {
	b := newTestBackend(t)
	c := context.Background()
	a := signedEvent(t, newSecKey(t), kind.ProfileMetadata, 100, "a")
	z := signedEvent(t, newSecKey(t), kind.ProfileMetadata, 100, "z")
	require.NoError(t, b.SaveEvent(c, a))
	require.NoError(t, b.SaveEvent(c, z))
	assert.Len(t, queryAll(t, b,
		&filter.T{Kinds: kinds.T{kind.ProfileMetadata}}), 2)
}

func TestParameterizedReplaceable(t *testing.T) {
	b := newTestBackend(t)
	sk := newSecKey(t)
	c := context.Background()
	general := signedEvent(t, sk, kind.GroupMetadata, 100, "one",
		tag.T{"d", "general"})
	offtopic := signedEvent(t, sk, kind.GroupMetadata, 100, "two",
		tag.T{"d", "offtopic"})
	general2 := signedEvent(t, sk, kind.GroupMetadata, 200, "three",
		tag.T{"d", "general"})
	require.NoError(t, b.SaveEvent(c, general))
	require.NoError(t, b.SaveEvent(c, offtopic))
	require.NoError(t, b.SaveEvent(c, general2))
	evs := queryAll(t, b, &filter.T{Kinds: kinds.T{kind.GroupMetadata}})
	require.Len(t, evs, 2)
	got := map[string]bool{}
	for _, ev := range evs {
		got[ev.ID.String()] = true
	}
	assert.True(t, got[general2.ID.String()])
	assert.True(t, got[offtopic.ID.String()])
	assert.False(t, got[general.ID.String()])
}

func TestQueryFilterFields(t *testing.T) {
	b := newTestBackend(t)
	skA, skB := newSecKey(t), newSecKey(t)
	c := context.Background()
	ea := signedEvent(t, skA, kind.TextNote, 100, "from a")
	eb := signedEvent(t, skB, kind.GroupChatMessage, 200, "from b",
		tag.T{"e", ea.ID.String()})
	require.NoError(t, b.SaveEvent(c, ea))
	require.NoError(t, b.SaveEvent(c, eb))

	evs := queryAll(t, b, &filter.T{Authors: tag.T{ea.PubKey[:8]}})
	require.Len(t, evs, 1)
	assert.Equal(t, ea.ID, evs[0].ID)

	evs = queryAll(t, b, &filter.T{
		Tags: filter.TagMap{"e": {ea.ID.String()}},
	})
	require.Len(t, evs, 1)
	assert.Equal(t, eb.ID, evs[0].ID)

	since := timestamp.T(150)
	evs = queryAll(t, b, &filter.T{Since: &since})
	require.Len(t, evs, 1)
	assert.Equal(t, eb.ID, evs[0].ID)

	until := timestamp.T(150)
	evs = queryAll(t, b, &filter.T{Until: &until})
	require.Len(t, evs, 1)
	assert.Equal(t, ea.ID, evs[0].ID)
}

func TestQueryLimit(t *testing.T) {
	b := newTestBackend(t)
	sk := newSecKey(t)
	c := context.Background()
	for i := int64(1); i <= 10; i++ {
		require.NoError(t, b.SaveEvent(c,
			signedEvent(t, sk, kind.TextNote, i*10, "n")))
	}
	limit := 3
	evs := queryAll(t, b, &filter.T{Limit: &limit})
	require.Len(t, evs, 3)
	// the newest three
	assert.Equal(t, timestamp.T(100), evs[0].CreatedAt)
	assert.Equal(t, timestamp.T(80), evs[2].CreatedAt)

	zero := 0
	assert.Empty(t, queryAll(t, b, &filter.T{Limit: &zero}))
}

func TestDeleteEvent(t *testing.T) {
	b := newTestBackend(t)
	sk := newSecKey(t)
	c := context.Background()
	ev := signedEvent(t, sk, kind.TextNote, 100, "gone soon")
	require.NoError(t, b.SaveEvent(c, ev))
	require.NoError(t, b.DeleteEvent(c, ev))
	assert.Empty(t, queryAll(t, b, &filter.T{}))
	// deleting again is a no-op
	require.NoError(t, b.DeleteEvent(c, ev))
}

func TestCountEvents(t *testing.T) {
	b := newTestBackend(t)
	sk := newSecKey(t)
	c := context.Background()
	for i := int64(1); i <= 5; i++ {
		require.NoError(t, b.SaveEvent(c,
			signedEvent(t, sk, kind.TextNote, i, "n")))
	}
	require.NoError(t, b.SaveEvent(c,
		signedEvent(t, sk, kind.GroupChatMessage, 6, "m")))
	n, err := b.CountEvents(c, &filter.T{Kinds: kinds.T{kind.TextNote}})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	n, err = b.CountEvents(c, &filter.T{})
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}
