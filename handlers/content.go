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
	"cinevault/services/catalog"
	"cinevault/services/staging"
)

type catalogService interface {
	ListByType(ctx context.Context, rawType, categoryID string) ([]models.ContentItem, error)
	ListByCategorySlug(ctx context.Context, slug string) ([]models.ContentItem, error)
	Search(ctx context.Context, query, rawType string) ([]models.ContentItem, error)
	Featured(ctx context.Context) []models.ContentItem
}

var _ catalogService = (*catalog.Service)(nil)

type contentRepository interface {
	Get(ctx context.Context, id string) (models.ContentItem, error)
	Create(ctx context.Context, input models.ContentUpsert) (models.ContentItem, error)
	Update(ctx context.Context, id string, input models.ContentUpsert) (models.ContentItem, error)
	Delete(ctx context.Context, id string) error
}

var _ contentRepository = (*database.ContentRepository)(nil)

type stagingStore interface {
	Add(input models.ContentUpsert) models.ContentItem
}

var _ stagingStore = (*staging.Service)(nil)

// ContentHandler serves the catalog read endpoints and the content write path.
type ContentHandler struct {
	Catalog catalogService
	Repo    contentRepository
	Staging stagingStore
}

func NewContentHandler(catalogSvc catalogService, repo contentRepository, stagingSvc stagingStore) *ContentHandler {
	return &ContentHandler{Catalog: catalogSvc, Repo: repo, Staging: stagingSvc}
}

// List handles GET /api/content?type=...&category=...
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	rawType := strings.TrimSpace(r.URL.Query().Get("type"))
	if rawType == "" {
		http.Error(w, "type parameter is required", http.StatusBadRequest)
		return
	}
	categoryID := strings.TrimSpace(r.URL.Query().Get("category"))

	items, err := h.Catalog.ListByType(r.Context(), rawType, categoryID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrInvalidContentType) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// ByCategory handles GET /api/content/category/{slug}
func (h *ContentHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimSpace(mux.Vars(r)["slug"])

	items, err := h.Catalog.ListByCategorySlug(r.Context(), slug)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Search handles GET /api/search?q=...&type=...
func (h *ContentHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	rawType := strings.TrimSpace(r.URL.Query().Get("type"))

	items, err := h.Catalog.Search(r.Context(), query, rawType)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrInvalidContentType) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Featured handles GET /api/content/featured
func (h *ContentHandler) Featured(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Catalog.Featured(r.Context()))
}

// Get handles GET /api/content/{id}. Only durable items are addressable by
// id; staged items surface through the list endpoints until migrated.
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		http.Error(w, "content id is required", http.StatusBadRequest)
		return
	}

	item, err := h.Repo.Get(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, database.ErrContentNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, item.WithDisplayDefaults())
}

// Create handles POST /api/content. The durable store is the preferred home
// for the record; if it is unreachable the item is staged in memory and the
// request still succeeds, so the caller cannot tell which store took it.
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input models.ContentUpsert
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(input.Title) == "" {
		http.Error(w, database.ErrTitleRequired.Error(), http.StatusBadRequest)
		return
	}
	if _, ok := models.ParseContentType(string(input.ContentType)); !ok {
		http.Error(w, database.ErrContentTypeRequired.Error(), http.StatusBadRequest)
		return
	}
	if !input.Quality.Valid() {
		http.Error(w, database.ErrQualityInvalid.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.Repo.Create(r.Context(), input)
	if err != nil {
		if isContentValidationErr(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Warn("durable create failed, staging item in memory",
			"title", input.Title,
			"error", err,
		)
		item = h.Staging.Add(input)
	}

	writeJSON(w, http.StatusCreated, item)
}

// Update handles PUT /api/content/{id}. Updates never fall back to staging.
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		http.Error(w, "content id is required", http.StatusBadRequest)
		return
	}

	var input models.ContentUpsert
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := h.Repo.Update(r.Context(), id, input)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, database.ErrContentNotFound):
			status = http.StatusNotFound
		case isContentValidationErr(err):
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/content/{id}.
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		http.Error(w, "content id is required", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Delete(r.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, database.ErrContentNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func isContentValidationErr(err error) bool {
	return errors.Is(err, database.ErrTitleRequired) ||
		errors.Is(err, database.ErrContentTypeRequired) ||
		errors.Is(err, database.ErrQualityInvalid) ||
		errors.Is(err, database.ErrCategoryNotFound) ||
		errors.Is(err, database.ErrCategoryTypeMismatch)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
