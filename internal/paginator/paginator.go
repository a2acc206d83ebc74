// Package paginator slices an ordered result set into fixed-size pages.
package paginator

import (
	"errors"
	"fmt"
)

// ErrInvalidPage is returned by GoTo for a page outside 1..TotalPages.
var ErrInvalidPage = errors.New("invalid page number")

// State is the externally visible pagination state.
type State struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	PageSize    int `json:"page_size"`
	Total       int `json:"total"`
}

// Paginator tracks the current page over a result set. It is not safe for
// concurrent use; its owner serializes access.
type Paginator[T any] struct {
	pageSize int
	items    []T
	current  int
}

// New creates a Paginator. A non-positive pageSize is treated as 1.
func New[T any](pageSize int) *Paginator[T] {
	if pageSize <= 0 {
		pageSize = 1
	}
	return &Paginator[T]{pageSize: pageSize, current: 1}
}

// SetResults replaces the result set and returns to page 1.
func (p *Paginator[T]) SetResults(items []T) {
	p.items = items
	p.current = 1
}

// TotalPages is max(1, ceil(len/pageSize)).
func (p *Paginator[T]) TotalPages() int {
	if len(p.items) == 0 {
		return 1
	}
	return (len(p.items) + p.pageSize - 1) / p.pageSize
}

// CurrentPage returns the 1-based current page.
func (p *Paginator[T]) CurrentPage() int { return p.current }

// PageSize returns the fixed page size.
func (p *Paginator[T]) PageSize() int { return p.pageSize }

// Total returns the number of items in the result set.
func (p *Paginator[T]) Total() int { return len(p.items) }

// GoTo moves to page. Out-of-range pages leave the state unchanged.
func (p *Paginator[T]) GoTo(page int) error {
	if total := p.TotalPages(); page < 1 || page > total {
		return fmt.Errorf("%w: %d (valid range 1-%d)", ErrInvalidPage, page, total)
	}
	p.current = page
	return nil
}

// Next advances one page. It reports false on the last page.
func (p *Paginator[T]) Next() bool {
	if p.current >= p.TotalPages() {
		return false
	}
	p.current++
	return true
}

// Previous goes back one page. It reports false on the first page.
func (p *Paginator[T]) Previous() bool {
	if p.current <= 1 {
		return false
	}
	p.current--
	return true
}

// CurrentSlice returns the items on the current page. The slice aliases
// the result set.
func (p *Paginator[T]) CurrentSlice() []T {
	start := (p.current - 1) * p.pageSize
	if start >= len(p.items) {
		return []T{}
	}
	end := min(start+p.pageSize, len(p.items))
	return p.items[start:end]
}

// State snapshots the pagination state.
func (p *Paginator[T]) State() State {
	return State{
		CurrentPage: p.current,
		TotalPages:  p.TotalPages(),
		PageSize:    p.pageSize,
		Total:       len(p.items),
	}
}
