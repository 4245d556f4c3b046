package models

import "time"

// Category is a named, typed grouping of content items addressed by a unique
// URL-safe slug. A category's content type constrains which items may
// reference it; the durable store enforces that on write.
type Category struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Slug        string      `json:"slug"`
	Description string      `json:"description,omitempty"`
	ContentType ContentType `json:"contentType"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// CategoryUpsert captures data required to create or update a category. The
// slug is derived from the name server-side and never accepted from clients.
type CategoryUpsert struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	ContentType ContentType `json:"contentType"`
}
