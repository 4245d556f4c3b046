package database

import (
	"context"
	"database/sql"

	"cinevault/models"
)

// Store bundles the repositories behind the durable store's read surface
// consumed by the catalog service.
type Store struct {
	Content    *ContentRepository
	Categories *CategoryRepository
}

// NewStore creates the repository bundle over an open connection.
func NewStore(conn *sql.DB, slugify func(string) string) *Store {
	return &Store{
		Content:    NewContentRepository(conn),
		Categories: NewCategoryRepository(conn, slugify),
	}
}

// ListContent implements the catalog's durable read.
func (s *Store) ListContent(ctx context.Context, contentType models.ContentType, categoryID string) ([]models.ContentItem, error) {
	return s.Content.List(ctx, contentType, categoryID)
}

// CategoryBySlug implements the catalog's slug resolution.
func (s *Store) CategoryBySlug(ctx context.Context, slug string) (models.Category, bool, error) {
	return s.Categories.GetBySlug(ctx, slug)
}
