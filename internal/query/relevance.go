package query

import (
	"strings"

	"github.com/vrsandeep/novelshelf/internal/models"
)

// Relevance weights.
const (
	titleWeight    = 10
	exactTitle     = 5
	authorWeight   = 5
	tagWeight      = 2
	synopsisWeight = 1
)

// Score rates how well n matches the search term. The term is compared
// case-insensitively; an empty term scores 0.
func Score(n *models.Novel, term string) int {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return 0
	}

	score := 0
	if title := strings.ToLower(n.Title); strings.Contains(title, term) {
		score += titleWeight
		if title == term {
			score += exactTitle
		}
		score += strings.Count(title, term) - 1
	}

	if author := strings.ToLower(n.Author); strings.Contains(author, term) {
		score += authorWeight
		score += strings.Count(author, term) - 1
	}

	matchingTags := 0
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			matchingTags++
		}
	}
	if matchingTags > 0 {
		score += tagWeight + matchingTags - 1
	}

	if synopsis := strings.ToLower(n.Synopsis); strings.Contains(synopsis, term) {
		score += synopsisWeight
		score += strings.Count(synopsis, term) - 1
	}
	return score
}
