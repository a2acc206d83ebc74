package query

import (
	"bytes"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vrsandeep/novelshelf/internal/models"
)

// order sorts novels in place. The sort is stable, so novels that compare
// equal keep their incoming order.
func order(novels []*models.Novel, s Sort, term string) {
	desc := s.Dir == Desc

	switch s.Key {
	case SortLikes:
		sort.SliceStable(novels, func(i, j int) bool {
			return less(novels[i].LikeCount, novels[j].LikeCount, desc)
		})
	case SortChapters:
		sort.SliceStable(novels, func(i, j int) bool {
			return less(novels[i].ChapterCount, novels[j].ChapterCount, desc)
		})
	case SortRelevance:
		// Without search text there is nothing to score; fall back to title.
		if term == "" {
			orderByTitle(novels, desc)
			return
		}
		scores := make(map[*models.Novel]int, len(novels))
		for _, n := range novels {
			scores[n] = Score(n, term)
		}
		// Relevance is always highest score first.
		sort.SliceStable(novels, func(i, j int) bool {
			return scores[novels[i]] > scores[novels[j]]
		})
	default:
		orderByTitle(novels, desc)
	}
}

func less(a, b int, desc bool) bool {
	if desc {
		return a > b
	}
	return a < b
}

// orderByTitle sorts with the root Unicode collation so accented and
// non-Latin titles land where readers expect them.
func orderByTitle(novels []*models.Novel, desc bool) {
	var buf collate.Buffer
	c := collate.New(language.Und)
	keys := make(map[*models.Novel][]byte, len(novels))
	for _, n := range novels {
		keys[n] = c.KeyFromString(&buf, n.Title)
	}
	sort.SliceStable(novels, func(i, j int) bool {
		cmp := bytes.Compare(keys[novels[i]], keys[novels[j]])
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}
