package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"cinevault/internal/database"
	"cinevault/models"
)

type categoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, input models.CategoryUpsert) (models.Category, error)
	Update(ctx context.Context, id string, input models.CategoryUpsert) (models.Category, error)
	Delete(ctx context.Context, id string) error
}

var _ categoryRepository = (*database.CategoryRepository)(nil)

// CategoriesHandler serves category listing and the admin category CRUD.
type CategoriesHandler struct {
	Repo categoryRepository
}

func NewCategoriesHandler(repo categoryRepository) *CategoriesHandler {
	return &CategoriesHandler{Repo: repo}
}

// List handles GET /api/categories. A durable-store failure degrades to an
// empty list, matching the catalog read policy.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Repo.List(r.Context())
	if err != nil {
		slog.Warn("category list unavailable, serving empty result", "error", err)
		categories = []models.Category{}
	}

	writeJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.CategoryUpsert
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	category, err := h.Repo.Create(r.Context(), input)
	if err != nil {
		http.Error(w, err.Error(), categoryErrStatus(err))
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

// Update handles PUT /api/categories/{id}.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		http.Error(w, "category id is required", http.StatusBadRequest)
		return
	}

	var input models.CategoryUpsert
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	category, err := h.Repo.Update(r.Context(), id, input)
	if err != nil {
		http.Error(w, err.Error(), categoryErrStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// Delete handles DELETE /api/categories/{id}.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		http.Error(w, "category id is required", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		http.Error(w, err.Error(), categoryErrStatus(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func categoryErrStatus(err error) int {
	switch {
	case errors.Is(err, database.ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrSlugTaken):
		return http.StatusConflict
	case errors.Is(err, database.ErrNameRequired), errors.Is(err, database.ErrContentTypeRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
