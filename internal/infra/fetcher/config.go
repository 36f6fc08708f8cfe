// Package fetcher fills in missing article summaries by fetching the
// article page and extracting readable text. Several upstreams
// (trending boards, ranked lists) carry titles only; enrichment gives
// those items the same summary quality as feed-backed sources get for
// free. Everything here is best effort: a failed extraction leaves
// the summary empty, it never fails the item.
package fetcher

import (
	"time"

	"fastinfo/pkg/config"
)

// Config controls summary enrichment.
type Config struct {
	// Enabled toggles enrichment entirely. When false the pipeline
	// keeps whatever summary the adapter produced.
	// Default: false
	Enabled bool

	// MinSummaryLength is the summary length below which an item is
	// considered sparse enough to enrich. Items at or above it are
	// left alone. Default: 80
	MinSummaryLength int

	// ExcerptLength bounds the extracted summary. Default: 500
	ExcerptLength int

	// Timeout bounds one page fetch. Default: 10s
	Timeout time.Duration

	// MaxBodySize rejects oversized pages, enforced while reading the
	// body rather than trusting Content-Length. Default: 10MB
	MaxBodySize int64

	// MaxRedirects bounds redirect chains; every hop is re-validated.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs blocks URLs resolving to private, loopback or
	// link-local addresses. Article URLs come from upstream payloads,
	// so this stays on outside tests.
	// Default: true
	DenyPrivateIPs bool
}

// DefaultConfig returns the enrichment defaults. Enrichment itself is
// opt-in; the security limits are production values.
func DefaultConfig() Config {
	return Config{
		Enabled:          false,
		MinSummaryLength: 80,
		ExcerptLength:    500,
		Timeout:          10 * time.Second,
		MaxBodySize:      10 * 1024 * 1024,
		MaxRedirects:     5,
		DenyPrivateIPs:   true,
	}
}

// LoadConfigFromEnv reads the enrichment configuration from the
// environment:
//   - CRAWLER_ENRICH_SUMMARIES: enable enrichment
//   - CRAWLER_ENRICH_MIN_SUMMARY: sparse-summary threshold in characters
//   - CRAWLER_ENRICH_TIMEOUT: per-page fetch timeout
//
// Invalid values keep the defaults.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Enabled = config.GetEnvBool("CRAWLER_ENRICH_SUMMARIES", cfg.Enabled)
	if v := config.GetEnvInt("CRAWLER_ENRICH_MIN_SUMMARY", cfg.MinSummaryLength); v > 0 {
		cfg.MinSummaryLength = v
	}
	if v := config.GetEnvDuration("CRAWLER_ENRICH_TIMEOUT", cfg.Timeout); v > 0 {
		cfg.Timeout = v
	}
	return cfg
}
