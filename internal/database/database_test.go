package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinevault/internal/database"
	"cinevault/models"
	"cinevault/utils"
)

func openTestStore(t *testing.T) *database.Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewStore(db.Connection(), utils.Slugify)
}

func TestContentCreateAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Content.Create(ctx, models.ContentUpsert{
		Title:       "Dune",
		Description: "Spice and sand",
		Year:        2021,
		Duration:    "2h 35m",
		Rating:      8.5,
		Quality:     models.QualityFourK,
		TelegramURL: "https://t.me/example/42",
		ContentType: models.ContentTypeMovie,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	got, err := store.Content.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, 2021, got.Year)
	assert.Equal(t, models.QualityFourK, got.Quality)
	assert.InDelta(t, 8.5, got.Rating, 0.001)
}

func TestContentCreateValidation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.Content.Create(ctx, models.ContentUpsert{ContentType: models.ContentTypeMovie})
	require.ErrorIs(t, err, database.ErrTitleRequired)

	_, err = store.Content.Create(ctx, models.ContentUpsert{Title: "Dune"})
	require.ErrorIs(t, err, database.ErrContentTypeRequired)

	_, err = store.Content.Create(ctx, models.ContentUpsert{
		Title: "Dune", ContentType: models.ContentTypeMovie, Quality: "VHS",
	})
	require.ErrorIs(t, err, database.ErrQualityInvalid)

	_, err = store.Content.Create(ctx, models.ContentUpsert{
		Title: "Dune", ContentType: models.ContentTypeMovie, CategoryID: "missing",
	})
	require.ErrorIs(t, err, database.ErrCategoryNotFound)
}

func TestContentListFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	category, err := store.Categories.Create(ctx, models.CategoryUpsert{
		Name: "Sci-Fi", ContentType: models.ContentTypeMovie,
	})
	require.NoError(t, err)

	_, err = store.Content.Create(ctx, models.ContentUpsert{
		Title: "Dune", ContentType: models.ContentTypeMovie, CategoryID: category.ID,
	})
	require.NoError(t, err)
	_, err = store.Content.Create(ctx, models.ContentUpsert{
		Title: "Heat", ContentType: models.ContentTypeMovie,
	})
	require.NoError(t, err)
	_, err = store.Content.Create(ctx, models.ContentUpsert{
		Title: "Severance", ContentType: models.ContentTypeWebSeries,
	})
	require.NoError(t, err)

	all, err := store.Content.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	movies, err := store.Content.List(ctx, models.ContentTypeMovie, "")
	require.NoError(t, err)
	assert.Len(t, movies, 2)

	sciFi, err := store.Content.List(ctx, "", category.ID)
	require.NoError(t, err)
	require.Len(t, sciFi, 1)
	assert.Equal(t, "Dune", sciFi[0].Title)
}

func TestContentCategoryTypeMismatch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	category, err := store.Categories.Create(ctx, models.CategoryUpsert{
		Name: "Drama Series", ContentType: models.ContentTypeWebSeries,
	})
	require.NoError(t, err)

	_, err = store.Content.Create(ctx, models.ContentUpsert{
		Title: "Dune", ContentType: models.ContentTypeMovie, CategoryID: category.ID,
	})
	require.ErrorIs(t, err, database.ErrCategoryTypeMismatch)
}

func TestContentUpdateAndDelete(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Content.Create(ctx, models.ContentUpsert{
		Title: "Dune", ContentType: models.ContentTypeMovie,
	})
	require.NoError(t, err)

	updated, err := store.Content.Update(ctx, created.ID, models.ContentUpsert{
		Title: "Dune: Part One", Rating: 8.6, ContentType: models.ContentTypeMovie,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune: Part One", updated.Title)
	assert.Equal(t, created.CreatedAt.UTC(), updated.CreatedAt.UTC(), "creation time preserved")

	require.NoError(t, store.Content.Delete(ctx, created.ID))

	_, err = store.Content.Get(ctx, created.ID)
	require.ErrorIs(t, err, database.ErrContentNotFound)

	err = store.Content.Delete(ctx, created.ID)
	require.ErrorIs(t, err, database.ErrContentNotFound)
}

func TestCategorySlugDerivationAndUniqueness(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Categories.Create(ctx, models.CategoryUpsert{
		Name: "Açtion & Thrillers", ContentType: models.ContentTypeMovie,
	})
	require.NoError(t, err)
	assert.Equal(t, "action-thrillers", created.Slug)

	_, err = store.Categories.Create(ctx, models.CategoryUpsert{
		Name: "Action  Thrillers", ContentType: models.ContentTypeMovie,
	})
	require.ErrorIs(t, err, database.ErrSlugTaken)
}

func TestCategoryGetBySlugFoundFlag(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	created, err := store.Categories.Create(ctx, models.CategoryUpsert{
		Name: "Crime", ContentType: models.ContentTypeMovie,
	})
	require.NoError(t, err)

	got, found, err := store.Categories.GetBySlug(ctx, "crime")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, created.ID, got.ID)

	_, found, err = store.Categories.GetBySlug(ctx, "western")
	require.NoError(t, err)
	assert.False(t, found, "missing slug is not an error")
}

func TestCategoryDeleteClearsItemReferences(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	category, err := store.Categories.Create(ctx, models.CategoryUpsert{
		Name: "Crime", ContentType: models.ContentTypeMovie,
	})
	require.NoError(t, err)

	item, err := store.Content.Create(ctx, models.ContentUpsert{
		Title: "Heat", ContentType: models.ContentTypeMovie, CategoryID: category.ID,
	})
	require.NoError(t, err)

	require.NoError(t, store.Categories.Delete(ctx, category.ID))

	got, err := store.Content.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, got.CategoryID, "ON DELETE SET NULL clears the reference")
}
