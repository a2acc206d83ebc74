package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vrsandeep/novelshelf/internal/downloader"
	"github.com/vrsandeep/novelshelf/internal/models"
)

// handleDownloadNovel queues the external downloader for a catalog novel.
func (s *Server) handleDownloadNovel(w http.ResponseWriter, r *http.Request) {
	novel, ok := s.app.Catalog().Get(chi.URLParam(r, "novelID"))
	if !ok {
		RespondWithError(w, http.StatusNotFound, "Novel not found")
		return
	}

	req := models.DownloadRequest{NovelID: novel.ID, Title: novel.DisplayTitle()}
	err := s.app.Downloader().Enqueue(req)
	switch {
	case errors.Is(err, downloader.ErrQueueFull):
		RespondWithError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusAccepted, map[string]string{
		"message":     "Download of '" + req.Title + "' queued.",
		"output_path": s.app.Downloader().OutputPath(req.Title),
	})
}

func (s *Server) handleListDownloads(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	downloads, err := s.store.ListDownloads(limit)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve downloads")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"paused":    s.app.Downloader().IsPaused(),
		"pending":   s.app.Downloader().Pending(),
		"downloads": downloads,
	})
}

func (s *Server) handleDownloadAction(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Action string `json:"action"` // "pause" or "resume"
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	switch payload.Action {
	case "pause":
		s.app.Downloader().Pause()
	case "resume":
		s.app.Downloader().Resume()
	default:
		RespondWithError(w, http.StatusBadRequest, "Unknown action")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Download queue " + payload.Action + "d."})
}
