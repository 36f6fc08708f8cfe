// Package crawl orchestrates the ingestion pipeline: fetching from
// source adapters, normalizing and scoring candidates, and upserting
// them keyed by URL with per-source failure isolation.
package crawl

import (
	"context"
	"time"

	"fastinfo/internal/domain/entity"
)

// RawItem is one upstream record as decoded by an adapter, before any
// transformation. Its concrete type is private to the adapter.
type RawItem any

// Item is an article candidate built by an adapter. Normalization,
// categorization and scoring happen downstream in the pipeline.
type Item struct {
	Title       string
	URL         string
	Summary     string
	Category    entity.Category // optional hint, empty means classify
	Tags        []string
	Author      string
	PublishedAt *time.Time
	Likes       int
	Comments    int
	Views       int
	ImageURL    string
	Metadata    map[string]any
}

// Adapter fetches records from one upstream. Fetch does the network
// work and may be retried as a whole; Transform is pure and converts
// one raw record, returning false to drop it.
type Adapter interface {
	// Name is the stable registry key, e.g. "hackernews".
	Name() string
	// Source is the display name stored on articles, e.g. "Hacker News".
	Source() string
	Fetch(ctx context.Context, limit int) ([]RawItem, error)
	Transform(raw RawItem) (*Item, bool)
}

// Enricher fills sparse summaries from the article page itself.
// Enrichment is best effort: any error leaves the item as the adapter
// produced it.
type Enricher interface {
	// ShouldEnrich reports whether a summary is sparse enough to be
	// worth a page fetch.
	ShouldEnrich(summary string) bool
	// Enrich returns an excerpt extracted from the page at url.
	Enrich(ctx context.Context, url string) (string, error)
}
