// Package filter implements the nostr subscription filter and its matching
// predicate. All fields of a filter are optional; the present ones are
// AND-ed together, and within one field an event need satisfy only one of
// the listed values.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/castrlabs/castr/pkg/nostr/event"
	"github.com/castrlabs/castr/pkg/nostr/kinds"
	"github.com/castrlabs/castr/pkg/nostr/tag"
	"github.com/castrlabs/castr/pkg/nostr/timestamp"
)

// TagMap holds the generic single-letter tag filters, keyed by tag name
// without the leading #.
type TagMap map[string]tag.T

// T is a query where any combination of fields can be filled in.
//
// The JSON form is awkward for Go: the tag filters appear as `#e`, `#p` and
// so on at the same level as the named fields, so marshalling is done by
// hand below rather than with struct tags.
type T struct {
	IDs     tag.T
	Kinds   kinds.T
	Authors tag.T
	Tags    TagMap
	Since   *timestamp.T
	Until   *timestamp.T
	Limit   *int
	Search  string
}

// Matches is the canonical matching predicate: true iff the event satisfies
// every present field. IDs and Authors entries match on prefix,
// case-sensitive hex, per NIP-01.
func (f *T) Matches(ev *event.T) bool {
	if ev == nil {
		return false
	}
	if f.IDs != nil && !prefixAny(ev.ID.String(), f.IDs) {
		return false
	}
	if f.Kinds != nil && !f.Kinds.Contains(ev.Kind) {
		return false
	}
	if f.Authors != nil && !prefixAny(ev.PubKey, f.Authors) {
		return false
	}
	for name, values := range f.Tags {
		if values != nil && !ev.Tags.ContainsAny(name, values...) {
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

func prefixAny(s string, prefixes tag.T) bool {
	for i := range prefixes {
		if strings.HasPrefix(s, prefixes[i]) {
			return true
		}
	}
	return false
}

// Equal reports whether two filters select exactly the same events.
func Equal(a, b *T) bool {
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	return string(ja) == string(jb)
}

// Clone makes a deep copy.
func (f *T) Clone() (c *T) {
	c = &T{
		IDs:     f.IDs.Clone(),
		Kinds:   append(kinds.T(nil), f.Kinds...),
		Authors: f.Authors.Clone(),
		Search:  f.Search,
	}
	if f.Tags != nil {
		c.Tags = make(TagMap, len(f.Tags))
		for k, v := range f.Tags {
			c.Tags[k] = v.Clone()
		}
	}
	if f.Since != nil {
		c.Since = f.Since.Ptr()
	}
	if f.Until != nil {
		c.Until = f.Until.Ptr()
	}
	if f.Limit != nil {
		l := *f.Limit
		c.Limit = &l
	}
	return
}

func (f *T) String() string {
	b, _ := json.Marshal(f)
	return string(b)
}

// MarshalJSON folds the tag filters up to the same level as the named
// fields, prefixed with #. Go sorts map keys when marshalling so the output
// is deterministic.
func (f *T) MarshalJSON() (b []byte, err error) {
	o := make(map[string]interface{})
	if f.IDs != nil {
		o["ids"] = f.IDs
	}
	if f.Kinds != nil {
		o["kinds"] = f.Kinds
	}
	if f.Authors != nil {
		o["authors"] = f.Authors
	}
	for name, values := range f.Tags {
		o["#"+name] = values
	}
	if f.Since != nil {
		o["since"] = *f.Since
	}
	if f.Until != nil {
		o["until"] = *f.Until
	}
	if f.Limit != nil {
		o["limit"] = *f.Limit
	}
	if f.Search != "" {
		o["search"] = f.Search
	}
	return json.Marshal(o)
}

// UnmarshalJSON unpacks a JSON filter object, collecting the `#x` keys into
// the Tags map.
func (f *T) UnmarshalJSON(b []byte) (err error) {
	if f == nil {
		return fmt.Errorf("cannot unmarshal into nil filter")
	}
	var raw map[string]json.RawMessage
	if err = json.Unmarshal(b, &raw); err != nil {
		return
	}
	*f = T{}
	for key, val := range raw {
		switch key {
		case "ids":
			err = json.Unmarshal(val, &f.IDs)
		case "kinds":
			err = json.Unmarshal(val, &f.Kinds)
		case "authors":
			err = json.Unmarshal(val, &f.Authors)
		case "since":
			f.Since = new(timestamp.T)
			err = json.Unmarshal(val, f.Since)
		case "until":
			f.Until = new(timestamp.T)
			err = json.Unmarshal(val, f.Until)
		case "limit":
			f.Limit = new(int)
			err = json.Unmarshal(val, f.Limit)
		case "search":
			err = json.Unmarshal(val, &f.Search)
		default:
			if strings.HasPrefix(key, "#") && len(key) > 1 {
				var values tag.T
				if err = json.Unmarshal(val, &values); err == nil {
					if f.Tags == nil {
						f.Tags = make(TagMap)
					}
					f.Tags[key[1:]] = values
				}
			}
			// unknown keys are ignored, not errors
		}
		if err != nil {
			return fmt.Errorf("invalid filter field %q: %w", key, err)
		}
	}
	return
}
