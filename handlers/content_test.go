package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"cinevault/handlers"
	"cinevault/internal/database"
	"cinevault/models"
	"cinevault/services/catalog"
	"cinevault/services/staging"
)

// fakeDurable implements the catalog's durable read surface.
type fakeDurable struct {
	items      []models.ContentItem
	categories map[string]models.Category
	failing    bool
}

func (f *fakeDurable) ListContent(_ context.Context, contentType models.ContentType, categoryID string) ([]models.ContentItem, error) {
	if f.failing {
		return nil, errors.New("connection refused")
	}
	out := make([]models.ContentItem, 0, len(f.items))
	for _, item := range f.items {
		if contentType != "" && item.ContentType != contentType {
			continue
		}
		if categoryID != "" && item.CategoryID != categoryID {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (f *fakeDurable) CategoryBySlug(_ context.Context, slug string) (models.Category, bool, error) {
	if f.failing {
		return models.Category{}, false, errors.New("connection refused")
	}
	category, ok := f.categories[slug]
	return category, ok, nil
}

// fakeContentRepo implements the write surface with a switchable failure mode.
type fakeContentRepo struct {
	byID    map[string]models.ContentItem
	failing bool
}

func newFakeContentRepo() *fakeContentRepo {
	return &fakeContentRepo{byID: make(map[string]models.ContentItem)}
}

func (f *fakeContentRepo) Get(_ context.Context, id string) (models.ContentItem, error) {
	if f.failing {
		return models.ContentItem{}, errors.New("connection refused")
	}
	item, ok := f.byID[id]
	if !ok {
		return models.ContentItem{}, database.ErrContentNotFound
	}
	return item, nil
}

func (f *fakeContentRepo) Create(_ context.Context, input models.ContentUpsert) (models.ContentItem, error) {
	if f.failing {
		return models.ContentItem{}, errors.New("connection refused")
	}
	now := time.Now().UTC()
	item := models.ContentItem{
		ID:          "durable-" + input.Title,
		Title:       input.Title,
		ContentType: input.ContentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.byID[item.ID] = item
	return item, nil
}

func (f *fakeContentRepo) Update(_ context.Context, id string, input models.ContentUpsert) (models.ContentItem, error) {
	if f.failing {
		return models.ContentItem{}, errors.New("connection refused")
	}
	item, ok := f.byID[id]
	if !ok {
		return models.ContentItem{}, database.ErrContentNotFound
	}
	item.Title = input.Title
	item.UpdatedAt = time.Now().UTC()
	f.byID[id] = item
	return item, nil
}

func (f *fakeContentRepo) Delete(_ context.Context, id string) error {
	if f.failing {
		return errors.New("connection refused")
	}
	if _, ok := f.byID[id]; !ok {
		return database.ErrContentNotFound
	}
	delete(f.byID, id)
	return nil
}

func newHandler(durable *fakeDurable, repo *fakeContentRepo, stagingSvc *staging.Service) *handlers.ContentHandler {
	return handlers.NewContentHandler(catalog.NewService(durable, stagingSvc), repo, stagingSvc)
}

func TestListRequiresValidType(t *testing.T) {
	h := newHandler(&fakeDurable{}, newFakeContentRepo(), staging.NewService())

	req := httptest.NewRequest(http.MethodGet, "/api/content", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing type, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/content?type=CARTOON", nil)
	rec = httptest.NewRecorder()
	h.List(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid type, got %d", rec.Code)
	}
}

func TestListReturnsMergedCatalog(t *testing.T) {
	durable := &fakeDurable{items: []models.ContentItem{
		{ID: "d-1", Title: "Dune", ContentType: models.ContentTypeMovie, Rating: 8.5},
	}}
	stagingSvc := staging.NewService()
	stagingSvc.Add(models.ContentUpsert{Title: "Staged Movie", ContentType: models.ContentTypeMovie})

	h := newHandler(durable, newFakeContentRepo(), stagingSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/content?type=MOVIE", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var items []models.ContentItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestByCategoryUnknownSlugIs404(t *testing.T) {
	h := newHandler(&fakeDurable{categories: map[string]models.Category{}}, newFakeContentRepo(), staging.NewService())

	req := httptest.NewRequest(http.MethodGet, "/api/content/category/crime", nil)
	req = mux.SetURLVars(req, map[string]string{"slug": "crime"})
	rec := httptest.NewRecorder()
	h.ByCategory(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown slug, got %d", rec.Code)
	}
}

func TestSearchEmptyQueryReturnsEmptyArray(t *testing.T) {
	h := newHandler(&fakeDurable{}, newFakeContentRepo(), staging.NewService())

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", body)
	}
}

func TestCreateWritesDurable(t *testing.T) {
	repo := newFakeContentRepo()
	stagingSvc := staging.NewService()
	h := newHandler(&fakeDurable{}, repo, stagingSvc)

	payload, _ := json.Marshal(models.ContentUpsert{Title: "Dune", ContentType: models.ContentTypeMovie})
	req := httptest.NewRequest(http.MethodPost, "/api/content", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
	if len(repo.byID) != 1 {
		t.Fatalf("expected item in durable store, got %d", len(repo.byID))
	}
	if stagingSvc.Len() != 0 {
		t.Fatalf("expected nothing staged, got %d", stagingSvc.Len())
	}
}

func TestCreateFallsBackToStaging(t *testing.T) {
	repo := newFakeContentRepo()
	repo.failing = true
	stagingSvc := staging.NewService()
	h := newHandler(&fakeDurable{failing: true}, repo, stagingSvc)

	payload, _ := json.Marshal(models.ContentUpsert{Title: "Dune", ContentType: models.ContentTypeMovie})
	req := httptest.NewRequest(http.MethodPost, "/api/content", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected fallback create to succeed with 201, got %d", rec.Code)
	}
	if stagingSvc.Len() != 1 {
		t.Fatalf("expected 1 staged item, got %d", stagingSvc.Len())
	}

	var item models.ContentItem
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if item.ID == "" || item.Title != "Dune" {
		t.Fatalf("unexpected staged item returned: %+v", item)
	}
}

func TestCreateValidationDoesNotStage(t *testing.T) {
	repo := newFakeContentRepo()
	repo.failing = true
	stagingSvc := staging.NewService()
	h := newHandler(&fakeDurable{}, repo, stagingSvc)

	payload, _ := json.Marshal(models.ContentUpsert{Title: "", ContentType: models.ContentTypeMovie})
	req := httptest.NewRequest(http.MethodPost, "/api/content", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", rec.Code)
	}
	if stagingSvc.Len() != 0 {
		t.Fatalf("client errors must not stage items, got %d staged", stagingSvc.Len())
	}
}

func TestCreateCoercesNumericStrings(t *testing.T) {
	repo := newFakeContentRepo()
	stagingSvc := staging.NewService()
	h := newHandler(&fakeDurable{}, repo, stagingSvc)

	body := []byte(`{"title":"Dune","contentType":"MOVIE","rating":"8.5","year":"2021"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/content", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteUnknownIDIs404(t *testing.T) {
	h := newHandler(&fakeDurable{}, newFakeContentRepo(), staging.NewService())

	req := httptest.NewRequest(http.MethodDelete, "/api/content/nope", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "nope"})
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
