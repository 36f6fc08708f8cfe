// Package normalizer cleans raw article fields before scoring and
// persistence: whitespace collapsing, length capping, and tracking
// parameter removal from URLs.
package normalizer

import (
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode"

	"fastinfo/internal/domain/entity"
)

// trackingParams are stripped from every article URL so the same page
// shared through different campaigns dedupes to one row.
var trackingParams = []string{
	"utm_source",
	"utm_medium",
	"utm_campaign",
	"utm_content",
	"utm_term",
}

// CleanText trims, collapses runs of whitespace to a single space, and
// truncates to max runes. A non-positive max leaves the length alone.
func CleanText(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !prevSpace {
				b.WriteRune(' ')
			}
			prevSpace = true
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	out := b.String()
	if max > 0 {
		runes := []rune(out)
		if len(runes) > max {
			out = string(runes[:max])
		}
	}
	return out
}

// CleanURL removes tracking query parameters. Unparseable URLs are
// returned unchanged so a malformed but unique URL still dedupes
// against itself.
func CleanURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		slog.Warn("failed to parse article url, keeping as-is",
			slog.String("url", rawURL),
			slog.String("error", err.Error()))
		return rawURL
	}
	q := u.Query()
	changed := false
	for _, p := range trackingParams {
		if q.Has(p) {
			q.Del(p)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Normalize applies field cleaning to an article in place and stamps
// crawled_at when unset.
func Normalize(a *entity.Article) {
	a.Title = CleanText(a.Title, entity.MaxTitleLength)
	a.Summary = CleanText(a.Summary, entity.MaxSummaryLength)
	a.Author = CleanText(a.Author, 200)
	a.URL = CleanURL(strings.TrimSpace(a.URL))
	if a.Likes < 0 {
		a.Likes = 0
	}
	if a.Comments < 0 {
		a.Comments = 0
	}
	if a.Views < 0 {
		a.Views = 0
	}
	if a.CrawledAt.IsZero() {
		a.CrawledAt = time.Now()
	}
}
