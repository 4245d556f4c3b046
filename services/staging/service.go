package staging

import (
	"strconv"
	"sync"
	"time"

	"cinevault/models"
)

// Service holds content items created when a write to the durable store was
// skipped or failed. The buffer lives for the remaining lifetime of the
// process: it is constructed empty in main and is never persisted, so a
// restart starts over with nothing staged. One instance is shared by every
// handler in the process.
type Service struct {
	mu    sync.RWMutex
	seq   uint64
	items []models.ContentItem
}

// NewService creates an empty staging buffer.
func NewService() *Service {
	return &Service{items: make([]models.ContentItem, 0)}
}

// Add assigns a process-unique identity plus timestamps and prepends the item
// so the buffer stays ordered newest first. The caller is responsible for any
// validation; Add itself cannot fail.
func (s *Service) Add(input models.ContentUpsert) models.ContentItem {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	item := models.ContentItem{
		ID:          "staged-" + strconv.FormatInt(now.UnixNano(), 36) + "-" + strconv.FormatUint(s.seq, 36),
		Title:       input.Title,
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

	s.items = append([]models.ContentItem{item}, s.items...)
	return item
}

// List returns the buffer filtered by the optional predicates, preserving
// insertion order (newest first). Zero values disable a predicate. The result
// is a copy and never nil.
func (s *Service) List(contentType models.ContentType, categoryID string) []models.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ContentItem, 0, len(s.items))
	for _, item := range s.items {
		if contentType != "" && item.ContentType != contentType {
			continue
		}
		if categoryID != "" && item.CategoryID != categoryID {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Len reports how many items are currently staged.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
