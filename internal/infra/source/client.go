// Package source implements the upstream adapters. Each adapter
// decodes one upstream (JSON API, feed, HTML page or trending hub)
// into crawl items. Fetches go through a per-adapter circuit breaker;
// retries around the whole fetch are the pipeline's job.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"fastinfo/internal/observability/metrics"
	"fastinfo/internal/resilience/circuitbreaker"
	"fastinfo/internal/resilience/retry"
	"fastinfo/internal/usecase/crawl"

	"github.com/sony/gobreaker"
)

const (
	userAgent = "FastInfoBot/1.0"

	// maxResponseBytes caps upstream response bodies.
	maxResponseBytes = 10 << 20
)

// NewHTTPClient returns the http.Client shared by all adapters.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: 15 * time.Second}
}

// fetchBody GETs url and returns the response body. Non-2xx responses
// map to retry.HTTPError so the retry layer can classify them.
func fetchBody(ctx context.Context, client *http.Client, source, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(source, 0, time.Since(start))
		return nil, &crawl.TransientError{Source: source, Err: fmt.Errorf("HTTP request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordUpstreamRequest(source, resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("GET %s", url),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &crawl.TransientError{Source: source, Err: fmt.Errorf("read response body: %w", err)}
	}
	return body, nil
}

// fetchJSON GETs url and decodes the JSON response into out.
func fetchJSON(ctx context.Context, client *http.Client, source, url string, headers map[string]string, out any) error {
	body, err := fetchBody(ctx, client, source, url, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode JSON from %s: %w", url, err)
	}
	return nil
}

// withBreaker routes fn through the adapter's circuit breaker and
// logs rejections while the circuit is open.
func withBreaker(cb *circuitbreaker.CircuitBreaker, source string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("circuit breaker open, request rejected",
				slog.String("source", source),
				slog.String("state", cb.State().String()))
		}
		return nil, err
	}
	return result, nil
}

// parseTime parses a timestamp in the given layout, returning nil on
// failure so callers fall back to crawl time.
func parseTime(layout, value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return nil
	}
	return &t
}

// unixTime converts a Unix seconds timestamp, ignoring non-positive
// values.
func unixTime(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	t := time.Unix(sec, 0).UTC()
	return &t
}
