// Package query filters, scores and orders the catalog. Everything here is
// a pure function of its inputs; invalid criteria are normalized instead of
// rejected, so evaluation never fails.
package query

import "strings"

// AdultMode selects novels by their adult flag.
type AdultMode int

const (
	AdultAny AdultMode = iota
	AdultOnly
	AdultExclude
)

// ParseAdultMode accepts "any", "only" and "exclude". Anything else is AdultAny.
func ParseAdultMode(s string) AdultMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "only", "only-adult", "adult":
		return AdultOnly
	case "exclude", "exclude-adult", "hide":
		return AdultExclude
	}
	return AdultAny
}

// CoverMode selects novels by whether a usable local cover exists.
type CoverMode int

const (
	CoverAny CoverMode = iota
	CoverOnly
	CoverWithout
)

// ParseCoverMode accepts "any", "with" and "without". Anything else is CoverAny.
func ParseCoverMode(s string) CoverMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "with", "only-with", "only":
		return CoverOnly
	case "without", "only-without", "none":
		return CoverWithout
	}
	return CoverAny
}

// Range bounds an integer field. A nil bound is open.
type Range struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// Between builds a closed range.
func Between(lo, hi int) Range {
	return Range{Min: &lo, Max: &hi}
}

// bounds returns the effective inclusive limits. A reversed range is
// swapped rather than treated as empty.
func (r Range) bounds() (lo, hi int, active bool) {
	if r.Min == nil && r.Max == nil {
		return 0, 0, false
	}
	lo, hi = minInt, maxInt
	if r.Min != nil {
		lo = *r.Min
	}
	if r.Max != nil {
		hi = *r.Max
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, true
}

const (
	maxInt = int(^uint(0) >> 1)
	minInt = -maxInt - 1
)

// Filter describes which novels to include. The zero value matches everything.
type Filter struct {
	Search string `json:"search,omitempty"`
	Author string `json:"author,omitempty"`
	// Tags is the include set: a novel matches if any of its tags equals
	// any of these, ignoring case.
	Tags []string `json:"tags,omitempty"`
	// TagPhrases is a comma or semicolon separated list: a novel matches if
	// any of its tags contains any phrase.
	TagPhrases string    `json:"tag_phrases,omitempty"`
	Status     string    `json:"status,omitempty"` // "" or "any" for no constraint
	Adult      AdultMode `json:"adult"`
	Cover      CoverMode `json:"cover"`
	Chapters   Range     `json:"chapters"`
	Likes      Range     `json:"likes"`
}

// SearchTerm is the normalized free-text search string.
func (f Filter) SearchTerm() string {
	return strings.ToLower(strings.TrimSpace(f.Search))
}

// SplitPhrases splits a tag phrase list on commas and semicolons, trimming
// and lower-casing each entry and dropping empty ones.
func SplitPhrases(s string) []string {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == ';'
	})
	phrases := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			phrases = append(phrases, p)
		}
	}
	return phrases
}

// SortKey names the field results are ordered by.
type SortKey string

const (
	SortTitle     SortKey = "title"
	SortLikes     SortKey = "likes"
	SortChapters  SortKey = "chapters"
	SortRelevance SortKey = "relevance"
)

// ParseSortKey maps user input to a SortKey, defaulting to SortLikes.
func ParseSortKey(s string) SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return SortTitle
	case "chapters", "chapter_count", "chaptercount":
		return SortChapters
	case "relevance":
		return SortRelevance
	}
	return SortLikes
}

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps user input to a Direction, defaulting to Desc.
func ParseDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Asc
	}
	return Desc
}

// Sort is the ordering applied after filtering.
type Sort struct {
	Key SortKey   `json:"key"`
	Dir Direction `json:"dir"`
}

// DefaultSort orders by popularity, most liked first.
var DefaultSort = Sort{Key: SortLikes, Dir: Desc}
