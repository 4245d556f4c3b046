package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cinevault/models"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrNameRequired     = errors.New("name is required")
	ErrSlugTaken        = errors.New("category slug already exists")
)

const categoryColumns = `id, name, slug, description, content_type, created_at, updated_at`

// CategoryRepository persists categories in the durable store.
type CategoryRepository struct {
	conn *sql.DB
	slug func(string) string
}

// NewCategoryRepository creates a repository over an open connection. slugify
// derives the unique URL-safe slug from a category name.
func NewCategoryRepository(conn *sql.DB, slugify func(string) string) *CategoryRepository {
	return &CategoryRepository{conn: conn, slug: slugify}
}

// List returns all categories ordered by name.
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.conn.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// Get returns a category by id.
func (r *CategoryRepository) Get(ctx context.Context, id string) (models.Category, error) {
	row := r.conn.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, ErrCategoryNotFound
	}
	return category, err
}

// GetBySlug resolves a slug. found=false means the lookup succeeded but no
// category carries that slug; a non-nil error means the store was unreachable.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (models.Category, bool, error) {
	row := r.conn.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = ?`, slug)
	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Category{}, false, nil
	}
	if err != nil {
		return models.Category{}, false, err
	}
	return category, true, nil
}

// Create validates and inserts a new category with a slug derived from its name.
func (r *CategoryRepository) Create(ctx context.Context, input models.CategoryUpsert) (models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Category{}, ErrNameRequired
	}
	if _, ok := models.ParseContentType(string(input.ContentType)); !ok {
		return models.Category{}, ErrContentTypeRequired
	}

	slug := r.slug(name)
	if taken, err := r.slugTaken(ctx, slug, ""); err != nil {
		return models.Category{}, err
	} else if taken {
		return models.Category{}, ErrSlugTaken
	}

	now := time.Now().UTC()
	category := models.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		ContentType: input.ContentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO categories (`+categoryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		category.ID, category.Name, category.Slug, nullString(category.Description),
		string(category.ContentType), category.CreatedAt, category.UpdatedAt,
	)
	if err != nil {
		return models.Category{}, fmt.Errorf("insert category: %w", err)
	}

	return category, nil
}

// Update renames a category, re-deriving its slug, and rewrites its metadata.
func (r *CategoryRepository) Update(ctx context.Context, id string, input models.CategoryUpsert) (models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return models.Category{}, ErrNameRequired
	}
	if _, ok := models.ParseContentType(string(input.ContentType)); !ok {
		return models.Category{}, ErrContentTypeRequired
	}

	existing, err := r.Get(ctx, id)
	if err != nil {
		return models.Category{}, err
	}

	slug := r.slug(name)
	if taken, err := r.slugTaken(ctx, slug, id); err != nil {
		return models.Category{}, err
	} else if taken {
		return models.Category{}, ErrSlugTaken
	}

	category := models.Category{
		ID:          existing.ID,
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		ContentType: input.ContentType,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}

	_, err = r.conn.ExecContext(ctx,
		`UPDATE categories SET name = ?, slug = ?, description = ?, content_type = ?, updated_at = ? WHERE id = ?`,
		category.Name, category.Slug, nullString(category.Description),
		string(category.ContentType), category.UpdatedAt, category.ID,
	)
	if err != nil {
		return models.Category{}, fmt.Errorf("update category: %w", err)
	}

	return category, nil
}

// Delete removes a category; items referencing it keep existing with their
// category reference cleared by the schema's ON DELETE SET NULL.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) slugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE slug = ? AND id != ?)`, slug, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

func scanCategory(row rowScanner) (models.Category, error) {
	var (
		category    models.Category
		description sql.NullString
	)

	err := row.Scan(&category.ID, &category.Name, &category.Slug, &description,
		&category.ContentType, &category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Category{}, err
		}
		return models.Category{}, fmt.Errorf("scan category: %w", err)
	}

	category.Description = description.String
	return category, nil
}
