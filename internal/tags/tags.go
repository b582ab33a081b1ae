// Package tags parses free-text tag input into canonical tag records.
package tags

import (
	"strings"
	"unicode/utf8"

	"github.com/publishing-api/internal/slug"
)

// Column limits of the tags table
const (
	MaxNameLength = 100
	MaxSlugLength = 120
)

// Tag is a normalized tag ready to be upserted by slug
type Tag struct {
	Name string
	Slug string
}

// Normalize splits raw on commas, trims each entry and drops blanks and
// entries without any alphanumeric character. Entries sharing a slug are the
// same tag: the position of the first occurrence is kept, the spelling of the
// last one wins, matching the upsert that later writes them.
func Normalize(raw string) []Tag {
	var out []Tag
	index := make(map[string]int)

	for _, part := range strings.Split(raw, ",") {
		name := strings.Join(strings.Fields(part), " ")
		if name == "" {
			continue
		}
		s := slug.Make(name)
		if s == "" {
			continue
		}
		if i, ok := index[s]; ok {
			out[i].Name = name
			continue
		}
		index[s] = len(out)
		out = append(out, Tag{Name: name, Slug: s})
	}
	return out
}

// Names returns the display names of tags
func Names(tags []Tag) []string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return names
}

// Oversized returns the first tag that does not fit the column limits
func Oversized(tags []Tag) (Tag, bool) {
	for _, t := range tags {
		if utf8.RuneCountInString(t.Name) > MaxNameLength || len(t.Slug) > MaxSlugLength {
			return t, true
		}
	}
	return Tag{}, false
}
