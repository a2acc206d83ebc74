package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/novelshelf/internal/models"
)

func TestStore_UpsertLastWriteWins(t *testing.T) {
	s := New()
	s.Upsert(&models.Novel{ID: "a", Title: "First"})
	s.Upsert(&models.Novel{ID: "a", Title: "Second"})

	require.Equal(t, 1, s.Len())
	n, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Second", n.Title)
}

func TestStore_IgnoresNovelsWithoutID(t *testing.T) {
	s := New()
	s.Upsert(nil)
	s.Upsert(&models.Novel{Title: "No id"})
	assert.Equal(t, 0, s.Len())
}

func TestStore_Reset(t *testing.T) {
	s := New()
	s.Upsert(&models.Novel{ID: "a"})
	s.Upsert(&models.Novel{ID: "b"})
	s.Reset()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Snapshot())
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	s := New()
	s.Upsert(&models.Novel{ID: "a"})
	snap := s.Snapshot()
	s.Upsert(&models.Novel{ID: "b"})
	assert.Len(t, snap, 1)
	assert.Len(t, s.Snapshot(), 2)
}

func TestTopTags(t *testing.T) {
	novels := []*models.Novel{
		{ID: "1", Tags: []string{"Fantasy", "romance", ""}},
		{ID: "2", Tags: []string{"fantasy", "action"}},
		{ID: "3", Tags: []string{"FANTASY", "romance", "action"}},
		{ID: "4", Tags: []string{"comedy"}},
	}

	got := TopTags(novels, 3)
	assert.Equal(t, []models.TagCount{
		{Tag: "fantasy", Count: 3},
		{Tag: "action", Count: 2},
		{Tag: "romance", Count: 2},
	}, got)

	assert.Len(t, TopTags(novels, 0), 4)
	assert.Empty(t, TopTags(nil, 5))
}
