package importer

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound is returned when the metadata file cannot be opened.
	ErrSourceNotFound = errors.New("source file not found")
	// ErrAlreadyImporting rejects a Start while another import is running.
	ErrAlreadyImporting = errors.New("import already in progress")
	// ErrStreamRead ends an import that could not keep reading its source.
	ErrStreamRead = errors.New("error reading source")
	// ErrMalformedRecord marks a line that is not a JSON object.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrMissingID marks a well-formed record without an id.
	ErrMissingID = errors.New("record has no id")
)

// DecodeError describes why a single line was rejected. It never stops an
// import; the ingester only counts it.
type DecodeError struct {
	Line  int
	Kind  error // ErrMalformedRecord or ErrMissingID
	Cause error
}

func (e *DecodeError) Error() string {
	prefix := e.Kind.Error()
	if e.Line > 0 {
		prefix = fmt.Sprintf("line %d: %s", e.Line, prefix)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", prefix, e.Cause)
	}
	return prefix
}

// Is lets errors.Is match the sentinel kind.
func (e *DecodeError) Is(target error) bool {
	return target == e.Kind
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}
