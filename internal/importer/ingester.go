// This file contains the streaming ingester. It reads the metadata file
// line by line on a background goroutine, decodes each line and reports
// every step as an Event. It never touches the catalog itself.

package importer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// State is the ingester's lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateImporting State = "importing"
	StateFinished  State = "finished"
	StateFailed    State = "failed"
)

// progressEvery is how many processed lines pass between Progress events.
const progressEvery = 100

// Stats describes the most recent import run.
type Stats struct {
	RunID    string `json:"run_id"`
	Source   string `json:"source"`
	State    State  `json:"state"`
	Lines    int    `json:"lines"`
	Imported int    `json:"imported"`
	Errors   int    `json:"errors"`
	Message  string `json:"message,omitempty"`
}

// Ingester runs at most one import at a time.
type Ingester struct {
	coversDir string
	sink      Sink

	mu    sync.Mutex
	stats Stats
	done  chan struct{}
}

// New creates an idle Ingester that reports to sink. coversDir is used to
// derive cover references for records that do not carry one.
func New(coversDir string, sink Sink) *Ingester {
	done := make(chan struct{})
	close(done)
	return &Ingester{
		coversDir: coversDir,
		sink:      sink,
		stats:     Stats{State: StateIdle},
		done:      done,
	}
}

// Start opens path and begins importing it in the background. It returns
// immediately. A Failed event is emitted, and an error returned, when an
// import is already running or the file cannot be opened.
func (in *Ingester) Start(path string) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.stats.State == StateImporting {
		return in.rejectLocked(path)
	}

	f, err := openSource(path)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		log.Printf("Import failed: %v", err)
		in.stats = Stats{Source: path, State: StateFailed, Message: err.Error()}
		in.sink.Push(Event{Kind: EventFailed, Source: path, Err: err})
		return err
	}
	in.beginLocked(path, f)
	return nil
}

// openSource opens path only if it is a regular file, so a directory is
// rejected before the catalog is reset.
func openSource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err == nil && !info.Mode().IsRegular() {
		err = fmt.Errorf("%s is not a regular file", path)
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// StartReader imports from an already opened stream, e.g. stdin. The
// ingester closes r when the run ends.
func (in *Ingester) StartReader(name string, r io.ReadCloser) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.stats.State == StateImporting {
		r.Close()
		return in.rejectLocked(name)
	}
	in.beginLocked(name, r)
	return nil
}

func (in *Ingester) rejectLocked(source string) error {
	log.Printf("Import of %s rejected: %v", source, ErrAlreadyImporting)
	in.sink.Push(Event{Kind: EventFailed, Source: source, Err: ErrAlreadyImporting, Rejected: true})
	return ErrAlreadyImporting
}

func (in *Ingester) beginLocked(source string, r io.ReadCloser) {
	runID := uuid.NewString()
	in.stats = Stats{RunID: runID, Source: source, State: StateImporting}
	in.done = make(chan struct{})
	in.sink.Push(Event{Kind: EventStarted, RunID: runID, Source: source})
	log.Printf("Starting import %s of %s", runID, source)
	go in.run(runID, source, r, in.done)
}

// State returns the current lifecycle state.
func (in *Ingester) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.stats.State
}

// Stats returns a copy of the current or last run's counters.
func (in *Ingester) Stats() Stats {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.stats
}

// Wait blocks until the running import (if any) has emitted its terminal
// event, or ctx is done.
func (in *Ingester) Wait(ctx context.Context) error {
	in.mu.Lock()
	done := in.done
	in.mu.Unlock()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (in *Ingester) run(runID, source string, r io.ReadCloser, done chan struct{}) {
	defer r.Close()

	reader := bufio.NewReader(r)
	lineNum, processed, imported, errorCount := 0, 0, 0, 0

	for {
		raw, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			in.fail(runID, source, lineNum, imported, errorCount, readErr, done)
			return
		}
		if raw == "" && readErr != nil {
			break
		}

		lineNum++
		line := strings.TrimRight(raw, "\r\n")
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if strings.TrimSpace(line) != "" {
			processed++
			novel, err := Decode(line, in.coversDir)
			if err != nil {
				var decErr *DecodeError
				if errors.As(err, &decErr) {
					decErr.Line = lineNum
				}
				log.Printf("Error processing line %d: %v", lineNum, err)
				errorCount++
			} else {
				in.sink.Push(Event{Kind: EventEntityParsed, RunID: runID, Source: source, Novel: novel})
				imported++
			}
			if processed%progressEvery == 0 {
				in.sink.Push(Event{Kind: EventProgress, RunID: runID, Source: source, Line: lineNum})
				in.update(lineNum, imported, errorCount)
			}
		}

		if readErr != nil { // io.EOF after a final unterminated line
			break
		}
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	in.stats.Lines, in.stats.Imported, in.stats.Errors = lineNum, imported, errorCount
	in.stats.State = StateFinished
	in.sink.Push(Event{Kind: EventProgress, RunID: runID, Source: source, Line: lineNum})
	in.sink.Push(Event{Kind: EventFinished, RunID: runID, Source: source, Imported: imported, Errors: errorCount})
	close(done)
	log.Printf("Finished import %s: %d imported, %d errors", runID, imported, errorCount)
}

func (in *Ingester) update(lines, imported, errorCount int) {
	in.mu.Lock()
	in.stats.Lines, in.stats.Imported, in.stats.Errors = lines, imported, errorCount
	in.mu.Unlock()
}

func (in *Ingester) fail(runID, source string, lines, imported, errorCount int, cause error, done chan struct{}) {
	err := fmt.Errorf("%w: %v", ErrStreamRead, cause)
	log.Printf("Import %s failed after line %d: %v", runID, lines, err)

	in.mu.Lock()
	defer in.mu.Unlock()
	in.stats.Lines, in.stats.Imported, in.stats.Errors = lines, imported, errorCount
	in.stats.State = StateFailed
	in.stats.Message = err.Error()
	in.sink.Push(Event{Kind: EventFailed, RunID: runID, Source: source, Err: err})
	close(done)
}
