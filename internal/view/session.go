// Package view owns the interactive side of the catalog: the store, the
// current criteria and the paginator. All of it is mutated on one
// goroutine, which also consumes the ingester's events, so no handler ever
// runs concurrently with another.
package view

import (
	"fmt"
	"log"
	"sync"

	"github.com/vrsandeep/novelshelf/internal/catalog"
	"github.com/vrsandeep/novelshelf/internal/importer"
	"github.com/vrsandeep/novelshelf/internal/models"
	"github.com/vrsandeep/novelshelf/internal/paginator"
	"github.com/vrsandeep/novelshelf/internal/query"
)

// Page is the result of a query as shown to the user.
type Page struct {
	Novels []*models.Novel `json:"novels"`
	paginator.State
	Filter query.Filter `json:"filter"`
	Sort   query.Sort   `json:"sort"`
}

// Status summarizes the session for status bars and the API.
type Status struct {
	Message     string `json:"message"`
	Importing   bool   `json:"importing"`
	RunID       string `json:"run_id,omitempty"`
	Line        int    `json:"line"`
	Imported    int    `json:"imported"`
	Errors      int    `json:"errors"`
	CatalogSize int    `json:"catalog_size"`
	Matching    int    `json:"matching"`
}

// Options configures a Session.
type Options struct {
	PageSize  int
	TopTags   int
	Covers    query.CoverChecker
	Presenter Presenter
}

// purger is implemented by cover checkers that cache lookups.
type purger interface {
	Purge()
}

// Session serializes every catalog operation on a single goroutine.
type Session struct {
	store     *catalog.Store
	covers    query.CoverChecker
	presenter Presenter
	topTagsN  int

	// Owned by the loop goroutine.
	pages   *paginator.Paginator[*models.Novel]
	filter  query.Filter
	sort    query.Sort
	topTags []models.TagCount
	status  Status

	events  *importer.Queue
	inbox   chan func()
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewSession starts the session goroutine.
func NewSession(store *catalog.Store, opts Options) *Session {
	if opts.Presenter == nil {
		opts.Presenter = NopPresenter{}
	}
	s := &Session{
		store:     store,
		covers:    opts.Covers,
		presenter: opts.Presenter,
		topTagsN:  opts.TopTags,
		pages:     paginator.New[*models.Novel](opts.PageSize),
		sort:      query.DefaultSort,
		status:    Status{Message: "Ready."},
		inbox:     make(chan func()),
		quit:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	s.events = importer.NewQueue(func(e importer.Event) {
		s.send(func() { s.handleEvent(e) })
	})
	go s.loop()
	return s
}

// Sink is where the ingester should push its events.
func (s *Session) Sink() importer.Sink {
	return s.events
}

// Store exposes the catalog for read-only lookups.
func (s *Session) Store() *catalog.Store {
	return s.store
}

// Close drains pending events and stops the session goroutine.
func (s *Session) Close() {
	s.once.Do(func() {
		s.events.Close()
		<-s.events.Done()
		close(s.quit)
		<-s.stopped
	})
}

func (s *Session) loop() {
	defer close(s.stopped)
	for {
		select {
		case fn := <-s.inbox:
			fn()
		case <-s.quit:
			return
		}
	}
}

// send hands fn to the loop. It returns false if the session is closed.
func (s *Session) send(fn func()) bool {
	select {
	case s.inbox <- fn:
		return true
	case <-s.quit:
		return false
	}
}

// call runs fn on the loop and waits for it to finish.
func (s *Session) call(fn func()) bool {
	done := make(chan struct{})
	if !s.send(func() { fn(); close(done) }) {
		return false
	}
	<-done
	return true
}

func (s *Session) handleEvent(e importer.Event) {
	switch e.Kind {
	case importer.EventStarted:
		s.store.Reset()
		if p, ok := s.covers.(purger); ok {
			p.Purge()
		}
		s.pages.SetResults(nil)
		s.topTags = nil
		s.status = Status{Message: "Importing novels...", Importing: true, RunID: e.RunID}
		s.presenter.ImportStarted(e.RunID, e.Source)

	case importer.EventEntityParsed:
		s.store.Upsert(e.Novel)

	case importer.EventProgress:
		s.status.Line = e.Line
		s.status.Message = fmt.Sprintf("Importing: %d lines processed...", e.Line)
		s.presenter.ImportProgress(e.RunID, e.Line)

	case importer.EventFinished:
		log.Printf("Import finished: %d imported, %d errors, %d novels in catalog", e.Imported, e.Errors, s.store.Len())
		s.status.Importing = false
		s.status.Imported, s.status.Errors = e.Imported, e.Errors
		s.status.Message = fmt.Sprintf("Import complete! Total novels: %d", e.Imported)
		s.topTags = s.store.TopTags(s.topTagsN)
		s.presenter.ImportFinished(e.RunID, e.Imported, e.Errors)
		s.refresh()

	case importer.EventFailed:
		if e.Rejected {
			// Another import is still running; only tell the user.
			s.presenter.ImportFailed(e.RunID, e.Message())
			return
		}
		log.Printf("Import failed: %s", e.Message())
		s.status.Importing = false
		s.status.Message = fmt.Sprintf("Import failed: %s", e.Message())
		s.presenter.ImportFailed(e.RunID, e.Message())
		// Novels emitted before the failure stay visible.
		s.topTags = s.store.TopTags(s.topTagsN)
		s.refresh()
	}
}

// refresh re-evaluates the current criteria and returns to page 1.
func (s *Session) refresh() {
	s.evaluate()
	s.publish()
}

func (s *Session) evaluate() {
	results := query.Evaluate(s.store.Snapshot(), s.filter, s.sort, s.covers)
	s.pages.SetResults(results)
	s.status.CatalogSize = s.store.Len()
	s.status.Matching = len(results)
}

// display runs the query on behalf of the user and reports the match
// count. The caller publishes the page.
func (s *Session) display() {
	s.evaluate()
	if !s.status.Importing {
		s.status.Message = fmt.Sprintf("Displaying %d novels matching filter criteria.", s.status.Matching)
	}
}

func (s *Session) publish() {
	s.presenter.PageChanged(s.page())
}

func (s *Session) page() Page {
	slice := s.pages.CurrentSlice()
	novels := make([]*models.Novel, len(slice))
	copy(novels, slice)
	return Page{
		Novels: novels,
		State:  s.pages.State(),
		Filter: s.filter,
		Sort:   s.sort,
	}
}

// Query applies new criteria and shows page 1 of the result.
func (s *Session) Query(f query.Filter, sort query.Sort) Page {
	var p Page
	s.call(func() {
		s.filter, s.sort = f, sort
		s.display()
		s.publish()
		p = s.page()
	})
	return p
}

// QueryPage applies new criteria and moves to page n in one step, so no
// import event can re-run the query in between. If n is out of range the
// new criteria still apply, page 1 is shown and the error wraps
// paginator.ErrInvalidPage.
func (s *Session) QueryPage(f query.Filter, sort query.Sort, n int) (Page, error) {
	var p Page
	var err error
	s.call(func() {
		s.filter, s.sort = f, sort
		s.display()
		if n != s.pages.CurrentPage() {
			err = s.pages.GoTo(n)
		}
		s.publish()
		p = s.page()
	})
	return p, err
}

// Refresh re-runs the current criteria against the catalog.
func (s *Session) Refresh() Page {
	var p Page
	s.call(func() {
		s.display()
		s.publish()
		p = s.page()
	})
	return p
}

// GoTo moves to page n. An out-of-range n leaves the page unchanged and
// returns an error wrapping paginator.ErrInvalidPage.
func (s *Session) GoTo(n int) (Page, error) {
	var p Page
	var err error
	s.call(func() {
		if err = s.pages.GoTo(n); err == nil {
			s.publish()
		}
		p = s.page()
	})
	return p, err
}

// Next moves forward one page if there is one.
func (s *Session) Next() Page {
	var p Page
	s.call(func() {
		if s.pages.Next() {
			s.publish()
		}
		p = s.page()
	})
	return p
}

// Previous moves back one page if there is one.
func (s *Session) Previous() Page {
	var p Page
	s.call(func() {
		if s.pages.Previous() {
			s.publish()
		}
		p = s.page()
	})
	return p
}

// Page returns the current page without changing anything.
func (s *Session) Page() Page {
	var p Page
	s.call(func() { p = s.page() })
	return p
}

// TopTags returns the most frequent tags computed after the last import.
func (s *Session) TopTags() []models.TagCount {
	var tags []models.TagCount
	s.call(func() { tags = append([]models.TagCount(nil), s.topTags...) })
	return tags
}

// Status returns the current status.
func (s *Session) Status() Status {
	var st Status
	s.call(func() {
		st = s.status
		st.CatalogSize = s.store.Len()
	})
	return st
}
