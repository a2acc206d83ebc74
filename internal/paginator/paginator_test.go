package paginator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestPaginator_TotalPages(t *testing.T) {
	testCases := []struct {
		count, size, expected int
	}{
		{0, 8, 1},
		{1, 8, 1},
		{8, 8, 1},
		{9, 8, 2},
		{17, 8, 3},
		{5, 1, 5},
	}
	for _, tc := range testCases {
		p := New[int](tc.size)
		p.SetResults(seq(tc.count))
		if got := p.TotalPages(); got != tc.expected {
			t.Errorf("TotalPages() for %d items of size %d = %d; want %d", tc.count, tc.size, got, tc.expected)
		}
	}
}

func TestPaginator_PagesPartitionResults(t *testing.T) {
	for _, count := range []int{0, 1, 7, 8, 9, 23, 64} {
		for _, size := range []int{1, 3, 8} {
			p := New[int](size)
			p.SetResults(seq(count))

			seen := make(map[int]bool)
			sum := 0
			for page := 1; page <= p.TotalPages(); page++ {
				require.NoError(t, p.GoTo(page))
				slice := p.CurrentSlice()
				sum += len(slice)
				for _, item := range slice {
					assert.False(t, seen[item], "item %d appears on two pages", item)
					seen[item] = true
				}
			}
			assert.Equal(t, count, sum, "count=%d size=%d", count, size)
		}
	}
}

func TestPaginator_GoToOutOfRange(t *testing.T) {
	p := New[int](8)
	p.SetResults(seq(20))
	require.NoError(t, p.GoTo(2))

	err := p.GoTo(0)
	assert.ErrorIs(t, err, ErrInvalidPage)
	assert.Equal(t, 2, p.CurrentPage())

	err = p.GoTo(p.TotalPages() + 1)
	assert.ErrorIs(t, err, ErrInvalidPage)
	assert.Equal(t, 2, p.CurrentPage())
}

func TestPaginator_NextPreviousStopAtEdges(t *testing.T) {
	p := New[int](8)
	p.SetResults(seq(20))

	assert.False(t, p.Previous())
	assert.Equal(t, 1, p.CurrentPage())

	assert.True(t, p.Next())
	assert.True(t, p.Next())
	assert.False(t, p.Next())
	assert.Equal(t, 3, p.CurrentPage())
	assert.Equal(t, []int{16, 17, 18, 19}, p.CurrentSlice())

	assert.True(t, p.Previous())
	assert.Equal(t, 2, p.CurrentPage())
}

func TestPaginator_SetResultsResetsToFirstPage(t *testing.T) {
	p := New[int](2)
	p.SetResults(seq(10))
	require.NoError(t, p.GoTo(5))

	p.SetResults(seq(3))
	assert.Equal(t, 1, p.CurrentPage())
	assert.Equal(t, State{CurrentPage: 1, TotalPages: 2, PageSize: 2, Total: 3}, p.State())
}

func TestPaginator_EmptyResults(t *testing.T) {
	p := New[string](8)
	p.SetResults(nil)
	assert.Equal(t, 1, p.TotalPages())
	assert.Empty(t, p.CurrentSlice())
	assert.NoError(t, p.GoTo(1))
	assert.False(t, p.Next())
}

func TestPaginator_NonPositivePageSize(t *testing.T) {
	p := New[int](0)
	p.SetResults(seq(3))
	assert.Equal(t, 3, p.TotalPages())
}
