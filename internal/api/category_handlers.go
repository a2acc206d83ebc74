package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vrsandeep/novelshelf/internal/models"
	"github.com/vrsandeep/novelshelf/internal/store"
)

func categoryID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
}

// respondStoreError maps category store errors to HTTP status codes.
func respondStoreError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrCategoryNotFound):
		RespondWithError(w, http.StatusNotFound, "Category not found")
	case errors.Is(err, store.ErrCategoryExists):
		RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, store.ErrInvalidName):
		RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	RespondWithJSON(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	cat, err := s.store.CreateCategory(payload.Name)
	if err != nil {
		respondStoreError(w, err, "Failed to create category")
		return
	}
	RespondWithJSON(w, http.StatusCreated, cat)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := categoryID(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	cat, err := s.store.GetCategory(id)
	if err != nil {
		respondStoreError(w, err, "Failed to retrieve category")
		return
	}
	RespondWithJSON(w, http.StatusOK, cat)
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	id, err := categoryID(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.store.RenameCategory(id, payload.Name); err != nil {
		respondStoreError(w, err, "Failed to rename category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := categoryID(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	if err := s.store.DeleteCategory(id); err != nil {
		respondStoreError(w, err, "Failed to delete category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListCategoryNovels returns the category's novels that exist in the
// current catalog. Ids of novels no longer in the metadata file are skipped.
func (s *Server) handleListCategoryNovels(w http.ResponseWriter, r *http.Request) {
	id, err := categoryID(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	if _, err := s.store.GetCategory(id); err != nil {
		respondStoreError(w, err, "Failed to retrieve category")
		return
	}
	ids, err := s.store.CategoryNovelIDs(id)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to retrieve category novels")
		return
	}
	novels := make([]*models.Novel, 0, len(ids))
	for _, novelID := range ids {
		if n, ok := s.app.Catalog().Get(novelID); ok {
			novels = append(novels, n)
		}
	}
	RespondWithJSON(w, http.StatusOK, novels)
}

func (s *Server) handleAddNovelsToCategory(w http.ResponseWriter, r *http.Request) {
	id, err := categoryID(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	var payload struct {
		NovelIDs []string `json:"novel_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.NovelIDs) == 0 {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := s.store.AddNovelsToCategory(id, payload.NovelIDs...); err != nil {
		respondStoreError(w, err, "Failed to add novels to category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveNovelFromCategory(w http.ResponseWriter, r *http.Request) {
	id, err := categoryID(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid category ID")
		return
	}
	if err := s.store.RemoveNovelFromCategory(id, chi.URLParam(r, "novelID")); err != nil {
		respondStoreError(w, err, "Failed to remove novel from category")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
