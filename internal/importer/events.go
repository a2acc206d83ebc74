package importer

import "github.com/vrsandeep/novelshelf/internal/models"

// EventKind identifies a step of the import lifecycle.
type EventKind int

const (
	EventStarted EventKind = iota
	EventEntityParsed
	EventProgress
	EventFinished
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventEntityParsed:
		return "entity_parsed"
	case EventProgress:
		return "progress"
	case EventFinished:
		return "finished"
	case EventFailed:
		return "failed"
	}
	return "unknown"
}

// Event is produced by the ingester's worker and consumed, in order, by a
// single handler. Only the fields relevant to Kind are set.
type Event struct {
	Kind   EventKind
	RunID  string
	Source string

	Novel *models.Novel // EventEntityParsed

	Line int // EventProgress: number of the last line read

	Imported int // EventFinished
	Errors   int // EventFinished

	Err error // EventFailed
	// Rejected is set on the Failed event of a Start call that was refused
	// because another import was running. That import is unaffected.
	Rejected bool
}

// Message renders Err for display.
func (e Event) Message() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Sink receives events from the ingester. Push must not block.
type Sink interface {
	Push(Event)
}
