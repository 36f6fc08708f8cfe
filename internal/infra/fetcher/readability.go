package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"

	"fastinfo/internal/normalizer"
	"fastinfo/internal/resilience/circuitbreaker"
)

const enricherUserAgent = "Mozilla/5.0 (compatible; FastInfoBot/1.0)"

// SummaryEnricher extracts readable excerpts from article pages using
// the Mozilla Readability algorithm. One shared circuit breaker covers
// all page fetches: enrichment targets are scattered across many
// hosts, and when the network itself degrades the whole feature backs
// off rather than taxing every crawl item with a doomed fetch.
//
// Safe for concurrent use.
type SummaryEnricher struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	cfg     Config
}

// NewSummaryEnricher builds an enricher from cfg. The HTTP client
// re-validates every redirect hop so a safe initial URL cannot bounce
// into private address space.
func NewSummaryEnricher(cfg Config) *SummaryEnricher {
	e := &SummaryEnricher{
		breaker: circuitbreaker.New(circuitbreaker.Config{
			Name:             "summary-enrich",
			MaxRequests:      5,
			Interval:         60 * time.Second,
			Timeout:          60 * time.Second,
			FailureThreshold: 0.6,
			MinRequests:      5,
		}),
		cfg: cfg,
	}

	e.client = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= e.cfg.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", ErrTooManyRedirects, len(via))
			}
			if err := validateURL(req.URL.String(), e.cfg.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target rejected: %w", err)
			}
			return nil
		},
	}
	return e
}

// ShouldEnrich reports whether an item's summary is sparse enough to
// be worth a page fetch.
func (e *SummaryEnricher) ShouldEnrich(summary string) bool {
	return e.cfg.Enabled && len(summary) < e.cfg.MinSummaryLength
}

// Enrich fetches the article page and returns a cleaned excerpt of its
// readable text, bounded by the configured excerpt length.
func (e *SummaryEnricher) Enrich(ctx context.Context, pageURL string) (string, error) {
	if err := validateURL(pageURL, e.cfg.DenyPrivateIPs); err != nil {
		return "", err
	}

	result, err := e.breaker.Execute(func() (interface{}, error) {
		return e.extract(ctx, pageURL)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (e *SummaryEnricher) extract(ctx context.Context, pageURL string) (interface{}, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", enricherUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return "", urlErr.Err
		}
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.cfg.MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("read page body: %w", err)
	}
	if int64(len(body)) > e.cfg.MaxBodySize {
		return "", fmt.Errorf("%w: over %d bytes", ErrBodyTooLarge, e.cfg.MaxBodySize)
	}

	// Readability resolves relative links against the final URL after
	// redirects.
	finalURL, _ := url.Parse(pageURL)
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	article, err := readability.FromReader(bytes.NewReader(body), finalURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoContent, err)
	}

	text := article.TextContent
	if text == "" {
		text = article.Excerpt
	}
	excerpt := normalizer.CleanText(text, e.cfg.ExcerptLength)
	if excerpt == "" {
		return "", ErrNoContent
	}
	return excerpt, nil
}
