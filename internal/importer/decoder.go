// This file turns one line of the metadata file into a Novel.
// Individual fields are decoded leniently: a field of the wrong shape is
// treated as absent. Only a line that is not a JSON object is an error.

package importer

import (
	"encoding/json"
	"math"
	"path/filepath"
	"strings"

	"github.com/vrsandeep/novelshelf/internal/models"
)

// coverExtension is appended to the id when the record has no explicit
// cover_local_path.
const coverExtension = ".jpg"

// Decode parses one non-blank line. coversDir is used to derive the
// cover reference when the record does not carry one.
func Decode(line, coversDir string) (*models.Novel, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &fields); err != nil {
		return nil, &DecodeError{Kind: ErrMalformedRecord, Cause: err}
	}
	if fields == nil { // the literal null
		return nil, &DecodeError{Kind: ErrMalformedRecord}
	}

	novel := &models.Novel{
		ID:                stringField(fields, "id"),
		Title:             stringField(fields, "title"),
		Synopsis:          stringField(fields, "synopsis"),
		Author:            stringField(fields, "author"),
		Tags:              tagsField(fields, "tags"),
		IsAdult:           boolField(fields, "is_adult"),
		PublicationStatus: stringField(fields, "publication_status"),
		CoverURL:          stringField(fields, "cover_url"),
		CoverReference:    stringField(fields, "cover_local_path"),
		LikeCount:         countField(fields, "like_count"),
		ChapterCount:      countField(fields, "chapter_count"),
	}
	if novel.ID == "" {
		return nil, &DecodeError{Kind: ErrMissingID}
	}
	if novel.CoverReference == "" {
		novel.CoverReference = CoverReference(coversDir, novel.ID)
	}
	return novel, nil
}

// CoverReference derives the local cover path for id inside coversDir.
// Separators are always forward slashes so the value is stable across
// platforms.
func CoverReference(coversDir, id string) string {
	joined := filepath.Join(coversDir, id+coverExtension)
	return strings.ReplaceAll(filepath.ToSlash(joined), `\`, "/")
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func boolField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}

// countField reads a non-negative integer. Strings, negatives and other
// shapes give 0; fractions are truncated.
func countField(fields map[string]json.RawMessage, key string) int {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	if f >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// tagsField keeps the string elements of a JSON array in source order.
func tagsField(fields map[string]json.RawMessage, key string) []string {
	raw, ok := fields[key]
	if !ok {
		return []string{}
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	tags := make([]string, 0, len(items))
	for _, item := range items {
		var tag string
		if err := json.Unmarshal(item, &tag); err != nil {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}
