// This file implements a file system watcher that re-imports the catalog
// when the metadata file changes and forgets cached covers when the covers
// folder changes.

package library

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vrsandeep/novelshelf/internal/jobs"
)

// WatcherService watches the metadata file and the covers folder.
type WatcherService struct {
	ctx           jobs.JobContext
	watcher       *fsnotify.Watcher
	sourcePath    string
	coversPath    string
	mu            sync.Mutex
	sourceChanged bool
	coversChanged bool
	debounceTimer *time.Timer
	debounceDelay time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewWatcherService creates a new file system watcher service.
func NewWatcherService(ctx jobs.JobContext) *WatcherService {
	cfg := ctx.Config()
	return &WatcherService{
		ctx:           ctx,
		sourcePath:    filepath.Clean(cfg.Catalog.SourcePath),
		coversPath:    filepath.Clean(cfg.Catalog.CoversPath),
		debounceDelay: 2 * time.Second, // Wait 2 seconds after last change before re-importing
		stopChan:      make(chan struct{}),
	}
}

// Start begins watching. Editors and exporters often replace the metadata
// file instead of writing it in place, so its directory is watched rather
// than the file itself.
func (w *WatcherService) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	if err := watcher.Add(filepath.Dir(w.sourcePath)); err != nil {
		watcher.Close()
		return err
	}
	if info, err := os.Stat(w.coversPath); err == nil && info.IsDir() {
		if err := watcher.Add(w.coversPath); err != nil {
			log.Printf("Could not watch covers folder %s: %v", w.coversPath, err)
		}
	}

	log.Printf("File watcher started for catalog: %s", w.sourcePath)

	go w.processEvents()
	return nil
}

// Stop stops the file watcher service.
func (w *WatcherService) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()
		if w.watcher != nil {
			err = w.watcher.Close()
		}
	})
	return err
}

func (w *WatcherService) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *WatcherService) handleEvent(event fsnotify.Event) {
	// Chmod fires on plain reads on some platforms.
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}

	name := filepath.Clean(event.Name)
	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case name == w.sourcePath:
		w.sourceChanged = true
	case filepath.Dir(name) == w.coversPath:
		w.coversChanged = true
	default:
		return
	}

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.flush)
}

// flush runs once changes have settled.
func (w *WatcherService) flush() {
	select {
	case <-w.stopChan:
		return
	default:
	}

	w.mu.Lock()
	source, covers := w.sourceChanged, w.coversChanged
	w.sourceChanged, w.coversChanged = false, false
	w.mu.Unlock()

	if covers {
		if c := w.ctx.Covers(); c != nil {
			c.Purge()
		}
	}
	if source {
		// Wait for the file to be fully written; a removed file is left
		// alone so the current catalog stays visible.
		if _, err := os.Stat(w.sourcePath); err != nil {
			log.Printf("Catalog file %s changed but is not readable: %v", w.sourcePath, err)
			return
		}
		log.Printf("File watcher detected a change to %s, re-importing", w.sourcePath)
		if err := w.ctx.JobManager().RunJob(jobs.CatalogImportJob, w.ctx); err != nil {
			log.Printf("Re-import could not start: %v", err)
		}
	}
}
