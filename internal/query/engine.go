package query

import (
	"sort"
	"strings"

	"github.com/vrsandeep/novelshelf/internal/models"
)

// CoverChecker reports whether a novel has a usable local cover. The cover
// package provides the real implementation.
type CoverChecker interface {
	HasValidCover(n *models.Novel) bool
}

// Evaluate returns the novels matching f, ordered by s. The input slice is
// not modified. Identical inputs always produce identical output, whatever
// order novels arrive in.
func Evaluate(novels []*models.Novel, f Filter, s Sort, covers CoverChecker) []*models.Novel {
	base := make([]*models.Novel, 0, len(novels))
	for _, n := range novels {
		if n != nil {
			base = append(base, n)
		}
	}
	// A fixed base order makes ties in the stable sort below deterministic.
	sort.Slice(base, func(i, j int) bool { return base[i].ID < base[j].ID })

	m := newMatcher(f, covers)
	matched := base[:0]
	for _, n := range base {
		if m.match(n) {
			matched = append(matched, n)
		}
	}

	order(matched, s, f.SearchTerm())
	return matched
}

// matcher is a Filter compiled once per evaluation.
type matcher struct {
	search   string
	author   string
	include  map[string]bool
	phrases  []string
	status   string
	adult    AdultMode
	cover    CoverMode
	covers   CoverChecker
	chapters struct {
		lo, hi int
		active bool
	}
	likes struct {
		lo, hi int
		active bool
	}
}

func newMatcher(f Filter, covers CoverChecker) *matcher {
	m := &matcher{
		search:  f.SearchTerm(),
		author:  strings.ToLower(strings.TrimSpace(f.Author)),
		phrases: SplitPhrases(f.TagPhrases),
		adult:   f.Adult,
		cover:   f.Cover,
		covers:  covers,
	}
	for _, tag := range f.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if m.include == nil {
			m.include = make(map[string]bool)
		}
		m.include[tag] = true
	}
	if status := strings.TrimSpace(f.Status); !strings.EqualFold(status, "any") && !strings.EqualFold(status, "all") {
		m.status = status
	}
	m.chapters.lo, m.chapters.hi, m.chapters.active = f.Chapters.bounds()
	m.likes.lo, m.likes.hi, m.likes.active = f.Likes.bounds()
	return m
}

func (m *matcher) match(n *models.Novel) bool {
	if m.search != "" && !matchesSearch(n, m.search) {
		return false
	}
	if m.author != "" && !strings.Contains(strings.ToLower(n.Author), m.author) {
		return false
	}
	if len(m.phrases) > 0 && !m.matchesPhrases(n) {
		return false
	}
	if m.include != nil && !m.matchesIncluded(n) {
		return false
	}
	if m.status != "" && n.PublicationStatus != m.status {
		return false
	}
	switch m.adult {
	case AdultOnly:
		if !n.IsAdult {
			return false
		}
	case AdultExclude:
		if n.IsAdult {
			return false
		}
	}
	if m.cover != CoverAny {
		has := m.covers != nil && m.covers.HasValidCover(n)
		if m.cover == CoverOnly && !has || m.cover == CoverWithout && has {
			return false
		}
	}
	if m.chapters.active && (n.ChapterCount < m.chapters.lo || n.ChapterCount > m.chapters.hi) {
		return false
	}
	if m.likes.active && (n.LikeCount < m.likes.lo || n.LikeCount > m.likes.hi) {
		return false
	}
	return true
}

// matchesSearch looks for term in the title, id, author, tags and synopsis.
func matchesSearch(n *models.Novel, term string) bool {
	if strings.Contains(strings.ToLower(n.Title), term) ||
		strings.Contains(strings.ToLower(n.ID), term) ||
		strings.Contains(strings.ToLower(n.Author), term) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(n.Synopsis), term)
}

func (m *matcher) matchesPhrases(n *models.Novel) bool {
	for _, tag := range n.Tags {
		lower := strings.ToLower(tag)
		for _, phrase := range m.phrases {
			if strings.Contains(lower, phrase) {
				return true
			}
		}
	}
	return false
}

func (m *matcher) matchesIncluded(n *models.Novel) bool {
	for _, tag := range n.Tags {
		if m.include[strings.ToLower(tag)] {
			return true
		}
	}
	return false
}
