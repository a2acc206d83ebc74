package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/vrsandeep/novelshelf/internal/view"
)

// terminalPresenter reports import progress on stderr and signals the end
// of the import on done.
type terminalPresenter struct {
	w       io.Writer
	verbose bool
	done    chan error
}

func newTerminalPresenter(w io.Writer, verbose bool) *terminalPresenter {
	return &terminalPresenter{w: w, verbose: verbose, done: make(chan error, 1)}
}

func (p *terminalPresenter) ImportStarted(_, source string) {
	if p.verbose {
		fmt.Fprintf(p.w, "Importing novels from %s...\n", source)
	}
}

func (p *terminalPresenter) ImportProgress(_ string, line int) {
	if p.verbose {
		fmt.Fprintf(p.w, "Importing: %d lines processed...\n", line)
	}
}

func (p *terminalPresenter) ImportFinished(_ string, imported, errs int) {
	fmt.Fprintf(p.w, "Import complete! Total novels: %d (%d lines skipped)\n", imported, errs)
	p.finish(nil)
}

func (p *terminalPresenter) ImportFailed(_, message string) {
	p.finish(errors.New("import failed: " + message))
}

// finish reports only the first terminal outcome.
func (p *terminalPresenter) finish(err error) {
	select {
	case p.done <- err:
	default:
	}
}

func (p *terminalPresenter) PageChanged(view.Page) {}
