// Package cover answers whether a novel has a usable local cover image
// and produces thumbnails for the web UI.
package cover

import (
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"log"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/vrsandeep/novelshelf/internal/models"
)

// The scraper writes these instead of a path when it did not fetch a cover.
const (
	skippedAdult = "SKIPPED_ADULT"
	skippedLimit = "SKIPPED_LIMIT"
)

// alternateExtensions are tried, in order, when the referenced file is
// missing or unreadable.
var alternateExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

const defaultCacheSize = 16384

// Resolver maps cover references to readable image files. Lookups are
// cached; call Purge when the files on disk may have changed.
type Resolver struct {
	cache *lru.Cache[string, string]
}

// NewResolver creates a Resolver caching up to size lookups.
func NewResolver(size int) (*Resolver, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Resolver{cache: cache}, nil
}

// HasValidCover implements query.CoverChecker.
func (r *Resolver) HasValidCover(n *models.Novel) bool {
	_, ok := r.Resolve(n.CoverReference)
	return ok
}

// Resolve returns the path of a decodable image for ref, trying alternate
// extensions when ref itself is not usable.
func (r *Resolver) Resolve(ref string) (string, bool) {
	if ref == "" || ref == skippedAdult || ref == skippedLimit {
		return "", false
	}
	if path, ok := r.cache.Get(ref); ok {
		return path, path != ""
	}

	path := probe(ref)
	r.cache.Add(ref, path)
	return path, path != ""
}

// Purge forgets every cached lookup.
func (r *Resolver) Purge() {
	r.cache.Purge()
}

func probe(ref string) string {
	if isImage(ref) {
		return ref
	}
	base := strings.TrimSuffix(ref, filepath.Ext(ref))
	for _, ext := range alternateExtensions {
		candidate := base + ext
		if candidate == ref {
			continue
		}
		if isImage(candidate) {
			return candidate
		}
	}
	return ""
}

// isImage reports whether path is a regular file whose header decodes as
// a registered image format.
func isImage(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	if _, _, err := image.DecodeConfig(f); err != nil {
		log.Printf("Cover %s is not a readable image: %v", path, err)
		return false
	}
	return true
}
