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
	ErrContentNotFound      = errors.New("content not found")
	ErrTitleRequired        = errors.New("title is required")
	ErrContentTypeRequired  = errors.New("content type must be MOVIE or WEB_SERIES")
	ErrQualityInvalid       = errors.New("quality must be HD, FULL_HD, FOUR_K or EIGHT_K")
	ErrCategoryTypeMismatch = errors.New("category content type does not match item content type")
)

const contentColumns = `id, title, description, poster_url, year, duration, rating, quality, telegram_url, content_type, category_id, created_at, updated_at`

// ContentRepository persists catalog entries in the durable store.
type ContentRepository struct {
	conn *sql.DB
}

// NewContentRepository creates a repository over an open connection.
func NewContentRepository(conn *sql.DB) *ContentRepository {
	return &ContentRepository{conn: conn}
}

// List returns items filtered by the optional content type and category id,
// newest first. Zero values disable a predicate.
func (r *ContentRepository) List(ctx context.Context, contentType models.ContentType, categoryID string) ([]models.ContentItem, error) {
	query := `SELECT ` + contentColumns + ` FROM content`
	var (
		clauses []string
		args    []any
	)
	if contentType != "" {
		clauses = append(clauses, "content_type = ?")
		args = append(args, string(contentType))
	}
	if categoryID != "" {
		clauses = append(clauses, "category_id = ?")
		args = append(args, categoryID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query content: %w", err)
	}
	defer rows.Close()

	items := make([]models.ContentItem, 0)
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate content: %w", err)
	}

	return items, nil
}

// Get returns a single item by id.
func (r *ContentRepository) Get(ctx context.Context, id string) (models.ContentItem, error) {
	row := r.conn.QueryRowContext(ctx, `SELECT `+contentColumns+` FROM content WHERE id = ?`, id)
	item, err := scanContent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ContentItem{}, ErrContentNotFound
	}
	return item, err
}

// Create validates and inserts a new item, assigning identity and timestamps.
func (r *ContentRepository) Create(ctx context.Context, input models.ContentUpsert) (models.ContentItem, error) {
	if err := r.validate(ctx, input); err != nil {
		return models.ContentItem{}, err
	}

	now := time.Now().UTC()
	item := models.ContentItem{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		PosterURL:   input.PosterURL,
		Year:        int(input.Year),
		Duration:    input.Duration,
		Rating:      float64(input.Rating),
		Quality:     input.Quality,
		TelegramURL: input.TelegramURL,
		ContentType: input.ContentType,
		CategoryID:  input.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO content (`+contentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.Title, nullString(item.Description), nullString(item.PosterURL),
		nullInt(item.Year), nullString(item.Duration), nullFloat(item.Rating),
		nullString(string(item.Quality)), nullString(item.TelegramURL),
		string(item.ContentType), nullString(item.CategoryID), item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return models.ContentItem{}, fmt.Errorf("insert content: %w", err)
	}

	return item, nil
}

// Update validates and rewrites an existing item, preserving its creation time.
func (r *ContentRepository) Update(ctx context.Context, id string, input models.ContentUpsert) (models.ContentItem, error) {
	if err := r.validate(ctx, input); err != nil {
		return models.ContentItem{}, err
	}

	existing, err := r.Get(ctx, id)
	if err != nil {
		return models.ContentItem{}, err
	}

	item := models.ContentItem{
		ID:          existing.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		PosterURL:   input.PosterURL,
		Year:        int(input.Year),
		Duration:    input.Duration,
		Rating:      float64(input.Rating),
		Quality:     input.Quality,
		TelegramURL: input.TelegramURL,
		ContentType: input.ContentType,
		CategoryID:  input.CategoryID,
		CreatedAt:   existing.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}

	_, err = r.conn.ExecContext(ctx,
		`UPDATE content SET title = ?, description = ?, poster_url = ?, year = ?, duration = ?, rating = ?, quality = ?, telegram_url = ?, content_type = ?, category_id = ?, updated_at = ? WHERE id = ?`,
		item.Title, nullString(item.Description), nullString(item.PosterURL),
		nullInt(item.Year), nullString(item.Duration), nullFloat(item.Rating),
		nullString(string(item.Quality)), nullString(item.TelegramURL),
		string(item.ContentType), nullString(item.CategoryID), item.UpdatedAt, item.ID,
	)
	if err != nil {
		return models.ContentItem{}, fmt.Errorf("update content: %w", err)
	}

	return item, nil
}

// Delete removes an item by id.
func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM content WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if affected == 0 {
		return ErrContentNotFound
	}
	return nil
}

// validate enforces the invariants owned by the durable store: required
// title/type, known quality tier, and category type compatibility.
func (r *ContentRepository) validate(ctx context.Context, input models.ContentUpsert) error {
	if strings.TrimSpace(input.Title) == "" {
		return ErrTitleRequired
	}
	if _, ok := models.ParseContentType(string(input.ContentType)); !ok {
		return ErrContentTypeRequired
	}
	if !input.Quality.Valid() {
		return ErrQualityInvalid
	}

	if input.CategoryID != "" {
		var categoryType string
		err := r.conn.QueryRowContext(ctx,
			`SELECT content_type FROM categories WHERE id = ?`, input.CategoryID,
		).Scan(&categoryType)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		if err != nil {
			return fmt.Errorf("lookup category: %w", err)
		}
		if categoryType != string(input.ContentType) {
			return ErrCategoryTypeMismatch
		}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (models.ContentItem, error) {
	var (
		item        models.ContentItem
		description sql.NullString
		posterURL   sql.NullString
		year        sql.NullInt64
		duration    sql.NullString
		rating      sql.NullFloat64
		quality     sql.NullString
		telegramURL sql.NullString
		categoryID  sql.NullString
	)

	err := row.Scan(&item.ID, &item.Title, &description, &posterURL, &year, &duration,
		&rating, &quality, &telegramURL, &item.ContentType, &categoryID,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ContentItem{}, err
		}
		return models.ContentItem{}, fmt.Errorf("scan content: %w", err)
	}

	item.Description = description.String
	item.PosterURL = posterURL.String
	item.Year = int(year.Int64)
	item.Duration = duration.String
	item.Rating = rating.Float64
	item.Quality = models.Quality(quality.String)
	item.TelegramURL = telegramURL.String
	item.CategoryID = categoryID.String

	return item, nil
}

func nullString(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

func nullInt(i int) any {
	if i == 0 {
		return nil
	}
	return i
}

func nullFloat(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}
