package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/vrsandeep/novelshelf/internal/query"
)

// criteriaFromRequest reads filter and sort options from the query string.
//
//	search, author, tag (repeatable) or tags (comma separated), tag_phrases,
//	status, adult (any|only|exclude), cover (any|only|without),
//	min_chapters, max_chapters, min_likes, max_likes, sort_by, sort_dir
func criteriaFromRequest(r *http.Request) (query.Filter, query.Sort, error) {
	q := r.URL.Query()

	f := query.Filter{
		Search:     q.Get("search"),
		Author:     q.Get("author"),
		TagPhrases: q.Get("tag_phrases"),
		Status:     q.Get("status"),
		Adult:      query.ParseAdultMode(q.Get("adult")),
		Cover:      query.ParseCoverMode(q.Get("cover")),
	}
	f.Tags = append(f.Tags, q["tag"]...)
	if tags := q.Get("tags"); tags != "" {
		f.Tags = append(f.Tags, strings.Split(tags, ",")...)
	}

	var err error
	if f.Chapters, err = rangeParam(q.Get("min_chapters"), q.Get("max_chapters")); err != nil {
		return f, query.Sort{}, fmt.Errorf("invalid chapter range: %w", err)
	}
	if f.Likes, err = rangeParam(q.Get("min_likes"), q.Get("max_likes")); err != nil {
		return f, query.Sort{}, fmt.Errorf("invalid like range: %w", err)
	}

	sort := query.Sort{
		Key: query.ParseSortKey(q.Get("sort_by")),
		Dir: query.ParseDirection(q.Get("sort_dir")),
	}
	return f, sort, nil
}

func rangeParam(minStr, maxStr string) (query.Range, error) {
	var rng query.Range
	if minStr != "" {
		v, err := strconv.Atoi(minStr)
		if err != nil {
			return rng, err
		}
		rng.Min = &v
	}
	if maxStr != "" {
		v, err := strconv.Atoi(maxStr)
		if err != nil {
			return rng, err
		}
		rng.Max = &v
	}
	return rng, nil
}
