package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fastinfo/internal/resilience/retry"
	"fastinfo/internal/usecase/crawl"
)

func TestFetchBody_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := fetchBody(context.Background(), srv.Client(), "test", srv.URL, nil)
	var httpErr *retry.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", httpErr.StatusCode)
	}
}

func TestFetchBody_TransportErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := fetchBody(context.Background(), http.DefaultClient, "test", url, nil)
	var transient *crawl.TransientError
	if !errors.As(err, &transient) {
		t.Fatalf("expected TransientError, got %v", err)
	}
	if !retry.IsRetryable(err) {
		t.Error("transport failure should be retryable")
	}
}

func TestFetchBody_SetsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	if _, err := fetchBody(context.Background(), srv.Client(), "test", srv.URL, nil); err != nil {
		t.Fatalf("fetchBody failed: %v", err)
	}
	if gotUA != userAgent {
		t.Errorf("expected User-Agent %q, got %q", userAgent, gotUA)
	}
}

func TestParseTime(t *testing.T) {
	if got := parseTime(time.RFC3339, "2026-08-30T10:00:00Z"); got == nil || got.Hour() != 10 {
		t.Errorf("expected parsed time, got %v", got)
	}
	if got := parseTime(time.RFC3339, "not a time"); got != nil {
		t.Errorf("expected nil for unparseable value, got %v", got)
	}
	if got := parseTime(time.RFC3339, ""); got != nil {
		t.Errorf("expected nil for empty value, got %v", got)
	}
}

func TestUnixTime(t *testing.T) {
	if got := unixTime(1700000000); got == nil || got.Unix() != 1700000000 {
		t.Errorf("expected unix timestamp to round-trip, got %v", got)
	}
	if got := unixTime(0); got != nil {
		t.Errorf("expected nil for zero timestamp, got %v", got)
	}
}
