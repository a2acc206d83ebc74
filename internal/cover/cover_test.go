package cover

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vrsandeep/novelshelf/internal/models"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(0)
	require.NoError(t, err)
	return r
}

func TestResolver_ExistingImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1.png")
	writePNG(t, path, 4, 6)

	r := newResolver(t)
	got, ok := r.Resolve(path)
	assert.True(t, ok)
	assert.Equal(t, path, got)
	assert.True(t, r.HasValidCover(&models.Novel{ID: "1", CoverReference: path}))
}

func TestResolver_AlternateExtension(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "1.png"), 4, 6)

	r := newResolver(t)
	got, ok := r.Resolve(filepath.Join(dir, "1.jpg"))
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "1.png"), got)
}

func TestResolver_RejectsMissingCorruptAndSentinels(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "2.jpg")
	require.NoError(t, os.WriteFile(corrupt, []byte("definitely not a jpeg"), 0644))
	empty := filepath.Join(dir, "3.jpg")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	r := newResolver(t)
	for _, ref := range []string{"", "SKIPPED_ADULT", "SKIPPED_LIMIT", filepath.Join(dir, "missing.jpg"), corrupt, empty, dir} {
		_, ok := r.Resolve(ref)
		assert.False(t, ok, "ref %q", ref)
	}
}

func TestResolver_CachesUntilPurge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1.png")

	r := newResolver(t)
	_, ok := r.Resolve(path)
	require.False(t, ok)

	writePNG(t, path, 2, 2)
	_, ok = r.Resolve(path)
	assert.False(t, ok, "negative lookup should be cached")

	r.Purge()
	_, ok = r.Resolve(path)
	assert.True(t, ok)
}

func TestThumbnail(t *testing.T) {
	dir := t.TempDir()
	tall := filepath.Join(dir, "tall.png")
	writePNG(t, tall, 400, 800)

	data, err := Thumbnail(tall)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())

	wide := filepath.Join(dir, "wide.png")
	writePNG(t, wide, 900, 600)
	data, err = Thumbnail(wide)
	require.NoError(t, err)
	img, err = jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dy())
}

func TestThumbnail_Errors(t *testing.T) {
	_, err := Thumbnail(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0644))
	_, err = Thumbnail(bad)
	assert.Error(t, err)
}
