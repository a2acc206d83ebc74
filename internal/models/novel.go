// This file defines the core data structures (models) for the catalog.
// A Novel is one line of the metadata file after decoding.

package models

// Publication statuses as they appear in the metadata file. The field is
// not validated against this list; any other text is kept verbatim.
const (
	StatusSerializing  = "serializing"
	StatusComplete     = "complete"
	StatusDiscontinued = "discontinued"
)

// Novel represents a single catalog item.
type Novel struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Synopsis          string   `json:"synopsis"`
	Author            string   `json:"author"`
	Tags              []string `json:"tags"`
	IsAdult           bool     `json:"is_adult"`
	PublicationStatus string   `json:"publication_status"`
	CoverURL          string   `json:"cover_url,omitempty"`
	CoverReference    string   `json:"cover_local_path"`
	LikeCount         int      `json:"like_count"`
	ChapterCount      int      `json:"chapter_count"`
}

// DisplayTitle returns the title, or "Untitled" when the source had none.
func (n *Novel) DisplayTitle() string {
	if n.Title == "" {
		return "Untitled"
	}
	return n.Title
}

// TagCount is one row of the most-frequent-tags listing.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}
