// Shared setup for tests that need a whole application.

package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/vrsandeep/novelshelf/internal/api"
	"github.com/vrsandeep/novelshelf/internal/config"
	"github.com/vrsandeep/novelshelf/internal/core"
)

// TestConfig returns a configuration rooted in a fresh temporary directory.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{Port: 0}
	cfg.Database.Path = ":memory:"
	cfg.Catalog = config.CatalogConfig{
		SourcePath: filepath.Join(root, "novelpia_metadata.jsonl"),
		CoversPath: filepath.Join(root, "novelpia_covers"),
		PageSize:   8,
		TopTags:    30,
	}
	cfg.Downloader = config.DownloaderConfig{
		Path:       filepath.Join(root, "programs", "NovelpiaDownloader"),
		OutputPath: filepath.Join(root, "downloads"),
	}
	return cfg
}

// SetupTestApp builds a started core.App backed by an in-memory database.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	return SetupTestAppWithConfig(t, TestConfig(t))
}

// SetupTestAppWithConfig is SetupTestApp with a caller-provided config.
func SetupTestAppWithConfig(t *testing.T, cfg *config.Config) *core.App {
	t.Helper()
	app, err := core.Assemble(cfg, SetupTestDB(t))
	if err != nil {
		t.Fatalf("Failed to assemble app: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	app.Start(ctx)
	t.Cleanup(func() {
		cancel()
		app.Close()
	})
	return app
}

// SetupTestServer initializes a full core.App and api.Server for integration testing.
func SetupTestServer(t *testing.T) (*api.Server, *core.App) {
	t.Helper()
	app := SetupTestApp(t)
	return api.NewServer(app), app
}

// ImportCatalog writes lines to the app's metadata file, imports it and
// waits until the session has applied every event.
func ImportCatalog(t *testing.T, app *core.App, lines ...string) {
	t.Helper()
	path := app.Config().Catalog.SourcePath
	WriteCatalog(t, filepath.Dir(path), filepath.Base(path), lines...)

	if err := app.Ingester().Start(path); err != nil {
		t.Fatalf("Failed to start import: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.Ingester().Wait(ctx); err != nil {
		t.Fatalf("Import did not finish: %v", err)
	}
	runID := app.Ingester().Stats().RunID
	deadline := time.Now().Add(5 * time.Second)
	for {
		st := app.Session().Status()
		if st.RunID == runID && !st.Importing {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Session did not apply import %s", runID)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
