package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vrsandeep/novelshelf/internal/cover"
	"github.com/vrsandeep/novelshelf/internal/models"
	"github.com/vrsandeep/novelshelf/internal/paginator"
	"github.com/vrsandeep/novelshelf/internal/view"
)

// handleQueryNovels applies the filter in the query string and returns the
// first page, or the page named by ?page=.
func (s *Server) handleQueryNovels(w http.ResponseWriter, r *http.Request) {
	f, sort, err := criteriaFromRequest(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := s.app.Session()
	var page view.Page
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			RespondWithError(w, http.StatusBadRequest, "Invalid page number")
			return
		}
		if page, err = session.QueryPage(f, sort, n); err != nil {
			RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		page = session.Query(f, sort)
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(page.Total))
	RespondWithJSON(w, http.StatusOK, page)
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.app.Session().Page())
}

func (s *Server) handleGoToPage(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	page, err := s.app.Session().GoTo(payload.Page)
	if errors.Is(err, paginator.ErrInvalidPage) {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, page)
}

func (s *Server) handleNextPage(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.app.Session().Next())
}

func (s *Server) handlePreviousPage(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.app.Session().Previous())
}

type novelDetails struct {
	*models.Novel
	DisplayTitle string                 `json:"display_title"`
	HasCover     bool                   `json:"has_cover"`
	Categories   []string               `json:"categories"`
	LastDownload *models.DownloadResult `json:"last_download,omitempty"`
}

func (s *Server) handleGetNovel(w http.ResponseWriter, r *http.Request) {
	novel, ok := s.app.Catalog().Get(chi.URLParam(r, "novelID"))
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Novel not found")
		return
	}

	categories, err := s.store.CategoriesForNovel(novel.ID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	last, err := s.store.LastDownload(novel.ID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve download history")
		return
	}

	RespondWithJSON(w, http.StatusOK, novelDetails{
		Novel:        novel,
		DisplayTitle: novel.DisplayTitle(),
		HasCover:     s.app.Covers().HasValidCover(novel),
		Categories:   categories,
		LastDownload: last,
	})
}

// handleGetCover serves a JPEG thumbnail of the cover, or the original file
// with ?size=full.
func (s *Server) handleGetCover(w http.ResponseWriter, r *http.Request) {
	novel, ok := s.app.Catalog().Get(chi.URLParam(r, "novelID"))
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Novel not found")
		return
	}
	path, ok := s.app.Covers().Resolve(novel.CoverReference)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Cover not available")
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	if r.URL.Query().Get("size") == "full" {
		http.ServeFile(w, r, path)
		return
	}

	thumb, err := cover.Thumbnail(path)
	if err != nil {
		log.Printf("Error generating thumbnail for %s: %v", path, err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to generate thumbnail")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Write(thumb)
}

func (s *Server) handleTopTags(w http.ResponseWriter, r *http.Request) {
	tags := s.app.Session().TopTags()
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit >= 0 && limit < len(tags) {
		tags = tags[:limit]
	}
	if tags == nil {
		tags = []models.TagCount{}
	}
	RespondWithJSON(w, http.StatusOK, tags)
}
