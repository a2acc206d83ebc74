package models

import "time"

// DownloadRequest asks the external downloader to fetch one novel.
type DownloadRequest struct {
	NovelID string `json:"novel_id"`
	Title   string `json:"title"`
}

// DownloadResult records the outcome of one downloader invocation.
type DownloadResult struct {
	ID         int64     `json:"id,omitempty"`
	NovelID    string    `json:"novel_id"`
	Title      string    `json:"title"`
	OutputPath string    `json:"output_path"`
	Success    bool      `json:"success"`
	Message    string    `json:"message,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}
