package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vrsandeep/novelshelf/internal/api"
	"github.com/vrsandeep/novelshelf/internal/core"
	"github.com/vrsandeep/novelshelf/internal/jobs"
	"github.com/vrsandeep/novelshelf/internal/library"
)

var version = "dev"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize the core application components
	app, err := core.New()
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	app.Version = version

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.Start(ctx)
	defer app.Close()

	// Initial import on startup. A missing file is not fatal: the user can
	// drop it in place and trigger an import later.
	if err := app.JobManager().RunJob(jobs.CatalogImportJob, app); err != nil {
		log.Printf("Warning: initial catalog import could not start: %v", err)
	}

	scheduler := jobs.StartJobs(app)
	defer scheduler.Stop()

	if app.Config().Catalog.Watch {
		watcher := library.NewWatcherService(app)
		if err := watcher.Start(); err != nil {
			log.Printf("Warning: could not watch catalog file: %v", err)
		} else {
			defer watcher.Stop()
		}
	}

	// Setup the API server
	server := api.NewServer(app)
	addr := fmt.Sprintf(":%d", app.Config().Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}
	// --- Graceful Shutdown ---
	go func() {
		log.Printf("Starting web server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
