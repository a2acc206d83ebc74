package view

import (
	"fmt"

	"github.com/vrsandeep/novelshelf/internal/models"
)

// Presenter is told about import progress and every page change. Its
// methods are called from the session goroutine, one at a time.
type Presenter interface {
	ImportStarted(runID, source string)
	ImportProgress(runID string, line int)
	ImportFinished(runID string, imported, errors int)
	ImportFailed(runID, message string)
	PageChanged(p Page)
}

// NopPresenter ignores everything.
type NopPresenter struct{}

func (NopPresenter) ImportStarted(string, string)    {}
func (NopPresenter) ImportProgress(string, int)      {}
func (NopPresenter) ImportFinished(string, int, int) {}
func (NopPresenter) ImportFailed(string, string)     {}
func (NopPresenter) PageChanged(Page)                {}

// Broadcaster sends a JSON-encodable value to every connected client.
type Broadcaster interface {
	BroadcastJSON(v any)
}

// ImportJobID identifies ingester progress in updates. It differs from the
// job manager's "catalog-import" so a rejected job never reads as a failed
// import.
const ImportJobID = "catalog-import-progress"

// BroadcastPresenter turns session notifications into websocket messages.
type BroadcastPresenter struct {
	B Broadcaster
}

func (p BroadcastPresenter) ImportStarted(runID, source string) {
	p.B.BroadcastJSON(models.ProgressUpdate{
		JobID:   ImportJobID,
		RunID:   runID,
		Message: fmt.Sprintf("Importing novels from %s...", source),
		Status:  "started",
	})
}

func (p BroadcastPresenter) ImportProgress(runID string, line int) {
	p.B.BroadcastJSON(models.ProgressUpdate{
		JobID:   ImportJobID,
		RunID:   runID,
		Message: fmt.Sprintf("Importing: %d lines processed...", line),
		Line:    line,
		Status:  "in_progress",
	})
}

func (p BroadcastPresenter) ImportFinished(runID string, imported, errors int) {
	p.B.BroadcastJSON(models.ProgressUpdate{
		JobID:    ImportJobID,
		RunID:    runID,
		Message:  fmt.Sprintf("Import complete! Total novels: %d", imported),
		Progress: 100,
		Imported: imported,
		Errors:   errors,
		Status:   "completed",
		Done:     true,
	})
}

func (p BroadcastPresenter) ImportFailed(runID, message string) {
	p.B.BroadcastJSON(models.ProgressUpdate{
		JobID:   ImportJobID,
		RunID:   runID,
		Message: fmt.Sprintf("Import failed: %s", message),
		Status:  "failed",
		Done:    runID != "",
	})
}

func (p BroadcastPresenter) PageChanged(page Page) {
	p.B.BroadcastJSON(models.PageUpdate{
		Type:        "page",
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		Total:       page.Total,
		Novels:      page.Novels,
	})
}
