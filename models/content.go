package models

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

// ContentType distinguishes the two kinds of catalog entries.
type ContentType string

const (
	ContentTypeMovie     ContentType = "MOVIE"
	ContentTypeWebSeries ContentType = "WEB_SERIES"
)

// ParseContentType validates a raw type parameter. An empty result with ok=false
// means the value was not one of the two supported types.
func ParseContentType(raw string) (ContentType, bool) {
	switch ContentType(strings.ToUpper(strings.TrimSpace(raw))) {
	case ContentTypeMovie:
		return ContentTypeMovie, true
	case ContentTypeWebSeries:
		return ContentTypeWebSeries, true
	default:
		return "", false
	}
}

// Quality is the encode tier of a catalog entry. Empty means unspecified.
type Quality string

const (
	QualityHD     Quality = "HD"
	QualityFullHD Quality = "FULL_HD"
	QualityFourK  Quality = "FOUR_K"
	QualityEightK Quality = "EIGHT_K"
)

// Valid reports whether the quality is one of the known tiers or unset.
func (q Quality) Valid() bool {
	switch q {
	case "", QualityHD, QualityFullHD, QualityFourK, QualityEightK:
		return true
	default:
		return false
	}
}

// ContentItem is a single catalog entry (movie or web series) with display
// metadata and an external watch link. Title and ContentType are always
// present; everything else is optional.
type ContentItem struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	PosterURL   string      `json:"posterUrl,omitempty"`
	Year        int         `json:"year,omitempty"`
	Duration    string      `json:"duration,omitempty"` // free-form: "2h 30m" or "5 Seasons"
	Rating      float64     `json:"rating,omitempty"`
	Quality     Quality     `json:"quality,omitempty"`
	TelegramURL string      `json:"telegramUrl,omitempty"`
	ContentType ContentType `json:"contentType"`
	CategoryID  string      `json:"categoryId,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// WithDisplayDefaults fills absent optional fields with displayable defaults
// so clients never render an empty slot.
func (c ContentItem) WithDisplayDefaults() ContentItem {
	if strings.TrimSpace(c.Duration) == "" {
		c.Duration = "N/A"
	}
	if strings.TrimSpace(c.PosterURL) == "" {
		c.PosterURL = "/static/poster-placeholder.svg"
	}
	return c
}

// ContentUpsert captures data required to create or update a catalog entry.
// Year and Rating tolerate numeric strings from loosely typed clients.
type ContentUpsert struct {
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	PosterURL   string      `json:"posterUrl,omitempty"`
	Year        FlexInt     `json:"year,omitempty"`
	Duration    string      `json:"duration,omitempty"`
	Rating      FlexFloat   `json:"rating,omitempty"`
	Quality     Quality     `json:"quality,omitempty"`
	TelegramURL string      `json:"telegramUrl,omitempty"`
	ContentType ContentType `json:"contentType"`
	CategoryID  string      `json:"categoryId,omitempty"`
}

// FlexInt is an int that also accepts quoted numeric JSON values.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt(CoerceYear(string(bytes.Trim(data, `"`))))
	return nil
}

// FlexFloat is a float64 that also accepts quoted numeric JSON values.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = FlexFloat(CoerceRating(string(bytes.Trim(data, `"`))))
	return nil
}

// CoerceYear converts a raw year value to an int. It is total: anything that
// does not parse becomes 0 (treated as "not provided").
func CoerceYear(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return 0
	}
	// Tolerate clients sending years as floats ("2021.0").
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(v)
	}
	return 0
}

// CoerceRating converts a raw rating value to a float64. It is total: parse
// failures become 0 and the result is clamped to the conventional 0-10 range.
func CoerceRating(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
