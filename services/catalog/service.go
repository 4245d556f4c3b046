package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"cinevault/models"
)

var (
	ErrInvalidContentType = errors.New("content type must be MOVIE or WEB_SERIES")
	ErrCategoryNotFound   = errors.New("category not found")
)

const (
	searchLimit       = 50
	featuredLimit     = 10
	featuredMinRating = 8.0
	featuredMinYear   = 2023
)

// DurableStore is the read surface of the durable catalog store. CategoryBySlug
// reports found=false when the lookup succeeded but matched nothing; a non-nil
// error means the store itself was unreachable.
type DurableStore interface {
	ListContent(ctx context.Context, contentType models.ContentType, categoryID string) ([]models.ContentItem, error)
	CategoryBySlug(ctx context.Context, slug string) (models.Category, bool, error)
}

// StagingStore is the read surface of the process-local staging buffer.
type StagingStore interface {
	List(contentType models.ContentType, categoryID string) []models.ContentItem
}

// Service serves unified catalog views merged from the durable store and the
// staging buffer. All operations are stateless and idempotent; durable-store
// failures degrade the result instead of failing the request.
type Service struct {
	durable DurableStore
	staging StagingStore
}

// NewService creates a catalog service over the two stores.
func NewService(durable DurableStore, staging StagingStore) *Service {
	return &Service{durable: durable, staging: staging}
}

// ListByType returns every item of the given content type, optionally
// restricted to one category, ordered by rating, then year, then recency.
// An unknown type is the one input that fails the request.
func (s *Service) ListByType(ctx context.Context, rawType, categoryID string) ([]models.ContentItem, error) {
	contentType, ok := models.ParseContentType(rawType)
	if !ok {
		return nil, ErrInvalidContentType
	}

	durable, _ := s.fetchDurable(ctx, contentType, categoryID)
	merged := Merge(durable, s.staging.List(contentType, categoryID))
	sortByRatingYearRecency(merged)

	return withDisplayDefaults(merged), nil
}

// ListByCategorySlug resolves a category slug and returns its items newest
// first. A successful lookup that matches nothing is ErrCategoryNotFound; an
// unreachable store degrades to an empty result like any other read.
func (s *Service) ListByCategorySlug(ctx context.Context, slug string) ([]models.ContentItem, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrCategoryNotFound
	}

	category, found, err := s.durable.CategoryBySlug(ctx, slug)
	if err != nil {
		slog.Warn("category lookup unavailable, serving empty result", "slug", slug, "error", err)
		return []models.ContentItem{}, nil
	}
	if !found {
		return nil, ErrCategoryNotFound
	}

	durable, _ := s.fetchDurable(ctx, "", category.ID)
	merged := Merge(durable, s.staging.List("", category.ID))
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return withDisplayDefaults(merged), nil
}

// Search matches the query case-insensitively against titles, optionally
// restricted to one content type ("all" or empty searches both). An empty
// query returns an empty result without touching either store.
func (s *Service) Search(ctx context.Context, query, rawType string) ([]models.ContentItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.ContentItem{}, nil
	}

	var contentType models.ContentType
	if rawType != "" && !strings.EqualFold(rawType, "all") {
		parsed, ok := models.ParseContentType(rawType)
		if !ok {
			return nil, ErrInvalidContentType
		}
		contentType = parsed
	}

	durable, _ := s.fetchDurable(ctx, contentType, "")
	merged := Merge(durable, s.staging.List(contentType, ""))

	needle := strings.ToLower(query)
	matches := merged[:0]
	for _, item := range merged {
		if strings.Contains(strings.ToLower(item.Title), needle) {
			matches = append(matches, item)
		}
	}

	sortByRatingYearRecency(matches)
	if len(matches) > searchLimit {
		matches = matches[:searchLimit]
	}

	return withDisplayDefaults(matches), nil
}

// Featured returns up to ten highly rated or recent items: rating >= 8.0 or
// release year >= 2023, ordered by rating then recency. It cannot fail.
func (s *Service) Featured(ctx context.Context) []models.ContentItem {
	durable, _ := s.fetchDurable(ctx, "", "")
	merged := Merge(durable, s.staging.List("", ""))

	featured := merged[:0]
	for _, item := range merged {
		if item.Rating >= featuredMinRating || item.Year >= featuredMinYear {
			featured = append(featured, item)
		}
	}

	sort.SliceStable(featured, func(i, j int) bool {
		if featured[i].Rating != featured[j].Rating {
			return featured[i].Rating > featured[j].Rating
		}
		return featured[i].CreatedAt.After(featured[j].CreatedAt)
	})
	if len(featured) > featuredLimit {
		featured = featured[:featuredLimit]
	}

	return withDisplayDefaults(featured)
}

// fetchDurable queries the durable store and reports whether it was
// available. A failed query is logged and treated as "no data from this
// source" so the request proceeds on staged items alone.
func (s *Service) fetchDurable(ctx context.Context, contentType models.ContentType, categoryID string) ([]models.ContentItem, bool) {
	items, err := s.durable.ListContent(ctx, contentType, categoryID)
	if err != nil {
		slog.Warn("durable catalog query failed, continuing with staged items only",
			"content_type", string(contentType),
			"category_id", categoryID,
			"error", err,
		)
		return nil, false
	}
	return items, true
}

func sortByRatingYearRecency(items []models.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Rating != items[j].Rating {
			return items[i].Rating > items[j].Rating
		}
		if items[i].Year != items[j].Year {
			return items[i].Year > items[j].Year
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

func withDisplayDefaults(items []models.ContentItem) []models.ContentItem {
	out := make([]models.ContentItem, 0, len(items))
	for _, item := range items {
		out = append(out, item.WithDisplayDefaults())
	}
	return out
}
