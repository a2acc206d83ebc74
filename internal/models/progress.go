package models

// ProgressUpdate is the message broadcast to websocket clients while a job
// (most often a catalog import) is running.
type ProgressUpdate struct {
	JobID    string  `json:"jobId"`
	RunID    string  `json:"run_id,omitempty"`
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
	Line     int     `json:"line,omitempty"`
	Imported int     `json:"imported,omitempty"`
	Errors   int     `json:"errors,omitempty"`
	Status   string  `json:"status"` // "started", "in_progress", "completed", "failed"
	Done     bool    `json:"done"`
}

// PageUpdate is broadcast after every completed query so clients can
// re-render the visible page.
type PageUpdate struct {
	Type        string   `json:"type"` // always "page"
	CurrentPage int      `json:"current_page"`
	TotalPages  int      `json:"total_pages"`
	Total       int      `json:"total"`
	Novels      []*Novel `json:"novels"`
}
