// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vrsandeep/novelshelf/internal/core"
	"github.com/vrsandeep/novelshelf/internal/store"
)

// Server holds the dependencies for our API.
type Server struct {
	app   *core.App
	store *store.Store
}

// NewServer creates a new Server instance.
func NewServer(app *core.App) *Server {
	return &Server{
		app:   app,
		store: app.Store(),
	}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics

	// The websocket connection is long-lived and must not be cut by the timeout.
	r.Get("/ws/progress", func(w http.ResponseWriter, r *http.Request) {
		s.app.WsHub().ServeWs(w, r)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Route("/api", func(r chi.Router) {
			r.Get("/version", s.handleGetVersion)
			r.Get("/health", s.handleHealth)

			// Catalog browsing
			r.Get("/novels", s.handleQueryNovels)
			r.Get("/novels/page", s.handleGetPage)
			r.Put("/novels/page", s.handleGoToPage)
			r.Post("/novels/page/next", s.handleNextPage)
			r.Post("/novels/page/previous", s.handlePreviousPage)
			r.Get("/novels/{novelID}", s.handleGetNovel)
			r.Get("/novels/{novelID}/cover", s.handleGetCover)
			r.Post("/novels/{novelID}/download", s.handleDownloadNovel)
			r.Get("/tags/top", s.handleTopTags)

			// Import
			r.Post("/import", s.handleStartImport)
			r.Get("/import/status", s.handleImportStatus)

			// Categories
			r.Get("/categories", s.handleListCategories)
			r.Post("/categories", s.handleCreateCategory)
			r.Get("/categories/{categoryID}", s.handleGetCategory)
			r.Put("/categories/{categoryID}", s.handleRenameCategory)
			r.Delete("/categories/{categoryID}", s.handleDeleteCategory)
			r.Get("/categories/{categoryID}/novels", s.handleListCategoryNovels)
			r.Post("/categories/{categoryID}/novels", s.handleAddNovelsToCategory)
			r.Delete("/categories/{categoryID}/novels/{novelID}", s.handleRemoveNovelFromCategory)

			// Downloads
			r.Get("/downloads", s.handleListDownloads)
			r.Post("/downloads/action", s.handleDownloadAction)

			// Jobs
			r.Get("/jobs/status", s.handleGetJobsStatus)
			r.Post("/jobs/run", s.handleRunJob)
		})
	})

	return r
}
