// Package catalog holds the in-memory collection of novels built by an
// import. It is rebuilt from scratch on every import and never persisted.
package catalog

import (
	"sort"
	"strings"
	"sync"

	"github.com/vrsandeep/novelshelf/internal/models"
)

// Store maps novel id to novel. A single consumer writes to it; readers get
// copies so a query never sees a half-applied update.
type Store struct {
	mu     sync.RWMutex
	novels map[string]*models.Novel
}

// New creates an empty Store.
func New() *Store {
	return &Store{novels: make(map[string]*models.Novel)}
}

// Reset discards every novel. Called when an import starts.
func (s *Store) Reset() {
	s.mu.Lock()
	s.novels = make(map[string]*models.Novel)
	s.mu.Unlock()
}

// Upsert inserts n, replacing any novel with the same id.
func (s *Store) Upsert(n *models.Novel) {
	if n == nil || n.ID == "" {
		return
	}
	s.mu.Lock()
	s.novels[n.ID] = n
	s.mu.Unlock()
}

// Get returns the novel with the given id.
func (s *Store) Get(id string) (*models.Novel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.novels[id]
	return n, ok
}

// Len returns the number of novels.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.novels)
}

// Snapshot returns the current novels in unspecified order. The slice is
// a fresh copy; the novels themselves are shared and must not be mutated.
func (s *Store) Snapshot() []*models.Novel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Novel, 0, len(s.novels))
	for _, n := range s.novels {
		out = append(out, n)
	}
	return out
}

// TopTags returns the n most frequent tags, lower-cased, most frequent
// first and alphabetical among equal counts. n <= 0 returns every tag.
func (s *Store) TopTags(n int) []models.TagCount {
	return TopTags(s.Snapshot(), n)
}

// TopTags counts tags over novels. Empty tags are ignored.
func TopTags(novels []*models.Novel, n int) []models.TagCount {
	counts := make(map[string]int)
	for _, novel := range novels {
		for _, tag := range novel.Tags {
			if tag == "" {
				continue
			}
			counts[strings.ToLower(tag)]++
		}
	}

	tags := make([]models.TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, models.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	if n > 0 && len(tags) > n {
		tags = tags[:n]
	}
	return tags
}
