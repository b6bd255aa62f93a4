package filter

import (
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/eventid"
	"github.com/castrlabs/castr/pkg/nostr/kind"
	"github.com/castrlabs/castr/pkg/nostr/kinds"
	"github.com/castrlabs/castr/pkg/nostr/tag"
	"github.com/castrlabs/castr/pkg/nostr/tags"
	"github.com/castrlabs/castr/pkg/nostr/timestamp"
)

func ts(v int64) *timestamp.T { t := timestamp.T(v); return &t }

func sampleEvent() *event.T {
	return &event.T{
		ID:        "abc123abc123abc123abc123abc123abc123abc123abc123abc123abc123abc1",
		PubKey:    "deadbeef00000000000000000000000000000000000000000000000000000000",
		CreatedAt: 1000,
		Kind:      kind.TextNote,
		Tags: tags.T{
			{"e", "abc123abc123abc123abc123abc123abc123abc123abc123abc123abc123abc1"},
			{"p", "cafebabe00000000000000000000000000000000000000000000000000000000"},
			{"d", "group-general"},
		},
		Content: "hello",
	}
}

func TestMatches(t *testing.T) {
	ev := sampleEvent()
	for _, tc := range []struct {
		name string
		f    T
		want bool
	}{
		{"empty filter matches everything", T{}, true},
		{"full id", T{IDs: tag.T{ev.ID.String()}}, true},
		{"id prefix", T{IDs: tag.T{"abc123"}}, true},
		{"id prefix miss", T{IDs: tag.T{"abc124"}}, false},
		{"empty ids list matches nothing", T{IDs: tag.T{}}, false},
		{"author full", T{Authors: tag.T{ev.PubKey}}, true},
		{"author prefix", T{Authors: tag.T{"deadbeef"}}, true},
		{"author case sensitive", T{Authors: tag.T{"DEADBEEF"}}, false},
		{"author miss among many",
			T{Authors: tag.T{"aaaa", "bbbb", "cccc"}}, false},
		{"kind match", T{Kinds: kinds.T{kind.TextNote}}, true},
		{"kind miss", T{Kinds: kinds.T{kind.ProfileMetadata}}, false},
		{"empty kinds list matches nothing", T{Kinds: kinds.T{}}, false},
		{"tag e match",
			T{Tags: TagMap{"e": {ev.ID.String()}}}, true},
		{"tag d match", T{Tags: TagMap{"d": {"group-general"}}}, true},
		{"tag exact not prefix",
			T{Tags: TagMap{"d": {"group"}}}, false},
		{"tag any of values",
			T{Tags: TagMap{"d": {"nope", "group-general"}}}, true},
		{"tag absent name", T{Tags: TagMap{"t": {"x"}}}, false},
		{"since inclusive", T{Since: ts(1000)}, true},
		{"since excludes older", T{Since: ts(1001)}, false},
		{"until inclusive", T{Until: ts(1000)}, true},
		{"until excludes newer", T{Until: ts(999)}, false},
		{"window hit", T{Since: ts(500), Until: ts(1500)}, true},
		{"all fields and-ed", T{
			IDs:     tag.T{"abc"},
			Authors: tag.T{"deadbeef"},
			Kinds:   kinds.T{kind.TextNote},
			Tags:    TagMap{"p": {"cafebabe00000000000000000000000000000000000000000000000000000000"}},
			Since:   ts(1),
			Until:   ts(2000),
		}, true},
		{"one failing field fails all", T{
			IDs:   tag.T{"abc"},
			Kinds: kinds.T{kind.ProfileMetadata},
		}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.f.Matches(ev))
		})
	}
}

func TestMatchesNilEvent(t *testing.T) {
	f := &T{}
	assert.False(t, f.Matches(nil))
}

func TestMatchesLimitIgnored(t *testing.T) {
	// limit bounds the backlog query, it never gates live matching
	zero := 0
	f := &T{Limit: &zero}
	assert.True(t, f.Matches(sampleEvent()))
}

func TestUnmarshalTagFiltersAndUnknownKeys(t *testing.T) {
	raw := `{"kinds":[1,9],"#e":["ab"],"#p":["cd"],"limit":5,"frobnicate":true}`
	var f T
	require.NoError(t, f.UnmarshalJSON([]byte(raw)))
	assert.Equal(t, kinds.T{1, 9}, f.Kinds)
	assert.Equal(t, tag.T{"ab"}, f.Tags["e"])
	assert.Equal(t, tag.T{"cd"}, f.Tags["p"])
	require.NotNil(t, f.Limit)
	assert.Equal(t, 5, *f.Limit)
}

func TestMarshalRoundTrip(t *testing.T) {
	f := &T{
		IDs:   tag.T{"abc"},
		Kinds: kinds.T{kind.GroupChatMessage},
		Tags:  TagMap{"e": {"ff"}},
		Since: ts(10),
		Limit: new(int),
	}
	b, err := f.MarshalJSON()
	require.NoError(t, err)
	var g T
	require.NoError(t, g.UnmarshalJSON(b))
	assert.True(t, Equal(f, &g))
}

func TestEqualIgnoresTagMapOrder(t *testing.T) {
	a := &T{Tags: TagMap{"e": {"1"}, "p": {"2"}}}
	b := &T{Tags: TagMap{"p": {"2"}, "e": {"1"}}}
	assert.True(t, Equal(a, b))
	c := &T{Tags: TagMap{"p": {"2"}, "e": {"3"}}}
	assert.False(t, Equal(a, c))
}

func TestClone(t *testing.T) {
	f := &T{
		IDs:   tag.T{"aa"},
		Tags:  TagMap{"e": {"bb"}},
		Since: ts(5),
		Limit: new(int),
	}
	c := f.Clone()
	require.True(t, Equal(f, c))
	c.IDs[0] = "zz"
	c.Tags["e"][0] = "yy"
	*c.Since = 9
	assert.Equal(t, tag.T{"aa"}, f.IDs)
	assert.Equal(t, tag.T{"bb"}, f.Tags["e"])
	assert.Equal(t, timestamp.T(5), *f.Since)
}

// naiveMatch is a literal restatement of the matching rules used to
// cross-check the production predicate on random inputs.
func naiveMatch(f *T, ev *event.T) bool {
	if f.IDs != nil {
		found := false
		for _, p := range f.IDs {
			if strings.HasPrefix(ev.ID.String(), p) {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if f.Authors != nil {
		found := false
		for _, p := range f.Authors {
			if strings.HasPrefix(ev.PubKey, p) {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if f.Kinds != nil {
		found := false
		for _, k := range f.Kinds {
			if k == ev.Kind {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	for name, values := range f.Tags {
		found := false
		for _, t := range ev.Tags {
			if len(t) < 2 || t[0] != name {
				continue
			}
			for _, v := range values {
				if t[1] == v {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if f.Since != nil && ev.CreatedAt < *f.Since {
		return false
	}
	if f.Until != nil && ev.CreatedAt > *f.Until {
		return false
	}
	return true
}

func randomHex(rng *rand.Rand, n int) string {
	b := make([]byte, n/2)
	rng.Read(b)
	return hex.EncodeToString(b)
}

func randomEvent(rng *rand.Rand) *event.T {
	ev := &event.T{
		ID:        eventid.T(randomHex(rng, 64)),
		PubKey:    randomHex(rng, 64),
		CreatedAt: timestamp.T(rng.Intn(100)),
		Kind:      kind.T(rng.Intn(4)),
	}
	for i := 0; i < rng.Intn(3); i++ {
		name := string(rune('d' + rng.Intn(3)))
		ev.Tags = append(ev.Tags, tag.T{name, fmt.Sprintf("v%d", rng.Intn(4))})
	}
	return ev
}

func randomFilter(rng *rand.Rand, pool []*event.T) *T {
	f := &T{}
	if rng.Intn(2) == 0 {
		// draw prefixes from real ids so hits actually occur
		src := pool[rng.Intn(len(pool))]
		f.IDs = tag.T{src.ID.String()[:rng.Intn(64)+1]}
	}
	if rng.Intn(2) == 0 {
		src := pool[rng.Intn(len(pool))]
		f.Authors = tag.T{src.PubKey[:rng.Intn(64)+1]}
	}
	if rng.Intn(2) == 0 {
		f.Kinds = kinds.T{kind.T(rng.Intn(4)), kind.T(rng.Intn(4))}
	}
	if rng.Intn(2) == 0 {
		name := string(rune('d' + rng.Intn(3)))
		f.Tags = TagMap{name: {fmt.Sprintf("v%d", rng.Intn(4))}}
	}
	if rng.Intn(2) == 0 {
		f.Since = ts(int64(rng.Intn(100)))
	}
	if rng.Intn(2) == 0 {
		f.Until = ts(int64(rng.Intn(100)))
	}
	return f
}

func TestMatchesAgainstReference(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pool := make([]*event.T, 64)
	for i := range pool {
		pool[i] = randomEvent(rng)
	}
	for i := 0; i < 2000; i++ {
		f := randomFilter(rng, pool)
		ev := pool[rng.Intn(len(pool))]
		require.Equal(t, naiveMatch(f, ev), f.Matches(ev),
			"filter %s event %s", f.String(), ev.ID)
	}
}
