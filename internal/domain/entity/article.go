// Package entity defines the core domain entities and validation logic for the
// ingestion pipeline. It contains the canonical Article record, the crawler
// settings and run log entities, along with their validation rules and
// domain-specific errors.
package entity

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Field length limits enforced during normalization and validation.
const (
	MaxTitleLength   = 500
	MaxSummaryLength = 2000
)

// Category is the fixed classification assigned to every article.
type Category string

const (
	CategoryTech       Category = "tech"
	CategoryDev        Category = "dev"
	CategoryOpenSource Category = "opensource"
	CategoryAcademic   Category = "academic"
	CategoryProduct    Category = "product"
)

// Categories lists every valid category in tie-break priority order.
// When the keyword classifier produces a tie, the category appearing
// first in this list wins.
var Categories = []Category{
	CategoryTech,
	CategoryDev,
	CategoryOpenSource,
	CategoryAcademic,
	CategoryProduct,
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Article is the canonical record stored for every ingested item,
// regardless of originating source. URL is the natural key: two raw items
// that normalize to the same URL converge to a single row via upsert.
type Article struct {
	ID           int64
	Title        string
	URL          string
	Summary      string
	Source       string
	Category     Category
	Tags         []string
	Author       string
	PublishedAt  *time.Time
	Likes        int
	Comments     int
	Views        int
	QualityScore int
	HotScore     float64
	ImageURL     string
	Metadata     map[string]any
	CrawledAt    time.Time
	CreatedAt    time.Time
}

// Validate checks the invariants the store relies on. It is called on the
// fully normalized, scored candidate just before the upsert.
func (a *Article) Validate() error {
	if a.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if utf8.RuneCountInString(a.Title) > MaxTitleLength {
		return &ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title must not exceed %d characters", MaxTitleLength),
		}
	}
	if a.URL == "" {
		return &ValidationError{Field: "url", Message: "url is required"}
	}
	if utf8.RuneCountInString(a.Summary) > MaxSummaryLength {
		return &ValidationError{
			Field:   "summary",
			Message: fmt.Sprintf("summary must not exceed %d characters", MaxSummaryLength),
		}
	}
	if a.Source == "" {
		return &ValidationError{Field: "source", Message: "source is required"}
	}
	if !ValidCategory(a.Category) {
		return &ValidationError{
			Field:   "category",
			Message: fmt.Sprintf("unknown category: %s", a.Category),
		}
	}
	if a.Likes < 0 || a.Comments < 0 || a.Views < 0 {
		return &ValidationError{Field: "engagement", Message: "engagement counters must be non-negative"}
	}
	if a.QualityScore < 0 || a.QualityScore > 100 {
		return &ValidationError{
			Field:   "quality_score",
			Message: fmt.Sprintf("quality score %d outside [0,100]", a.QualityScore),
		}
	}
	if a.HotScore < 0 {
		return &ValidationError{Field: "hot_score", Message: "hot score must be non-negative"}
	}
	return nil
}

// EffectivePublishedAt returns the timestamp used for time-decay scoring:
// the upstream publish time when known, otherwise the crawl time.
func (a *Article) EffectivePublishedAt() time.Time {
	if a.PublishedAt != nil {
		return *a.PublishedAt
	}
	return a.CrawledAt
}
