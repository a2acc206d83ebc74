package models

import "time"

// Category is a user-defined grouping of novels. It is persisted in the
// database, unlike the catalog itself which is rebuilt on every import.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	NovelIDs  []string  `json:"novel_ids,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
