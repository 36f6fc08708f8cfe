package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const articlePage = `<!DOCTYPE html>
<html>
<head><title>Vector Databases in Production</title></head>
<body>
<nav><a href="/">Home</a><a href="/about">About</a></nav>
<article>
<h1>Vector Databases in Production</h1>
<p>Running a vector database in production requires careful attention to
index build times, memory pressure, and recall quality. This article walks
through the tradeoffs we hit while scaling approximate nearest neighbor
search to two billion embeddings.</p>
<p>The first lesson was that index parameters tuned on a sample rarely
survive contact with the full corpus. Recall dropped by eleven points the
first time we rebuilt at full scale.</p>
</article>
<footer>Copyright 2025</footer>
</body>
</html>`

func testEnricher(t *testing.T, mutate func(*Config)) *SummaryEnricher {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.DenyPrivateIPs = false
	if mutate != nil {
		mutate(&cfg)
	}
	return NewSummaryEnricher(cfg)
}

func TestSummaryEnricher_Enrich(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage))
	}))
	defer srv.Close()

	e := testEnricher(t, nil)
	excerpt, err := e.Enrich(context.Background(), srv.URL+"/article")
	if err != nil {
		t.Fatalf("Enrich failed: %v", err)
	}

	if !strings.Contains(excerpt, "vector database in production") {
		t.Errorf("excerpt missing article text: %q", excerpt)
	}
	if strings.Contains(excerpt, "Copyright") {
		t.Errorf("excerpt should not contain boilerplate: %q", excerpt)
	}
	if len(excerpt) > DefaultConfig().ExcerptLength {
		t.Errorf("excerpt length %d exceeds limit %d", len(excerpt), DefaultConfig().ExcerptLength)
	}
}

func TestSummaryEnricher_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	e := testEnricher(t, nil)
	if _, err := e.Enrich(context.Background(), srv.URL); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestSummaryEnricher_BodySizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer srv.Close()

	e := testEnricher(t, func(cfg *Config) {
		cfg.MaxBodySize = 1024
	})
	_, err := e.Enrich(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for oversized body")
	}
	if !strings.Contains(err.Error(), "too large") {
		t.Errorf("error = %v, want size limit failure", err)
	}
}

func TestSummaryEnricher_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body></body></html>"))
	}))
	defer srv.Close()

	e := testEnricher(t, nil)
	if _, err := e.Enrich(context.Background(), srv.URL); err == nil {
		t.Error("expected error for page with no readable content")
	}
}

func TestSummaryEnricher_ShouldEnrich(t *testing.T) {
	e := testEnricher(t, func(cfg *Config) {
		cfg.MinSummaryLength = 80
	})

	if !e.ShouldEnrich("") {
		t.Error("empty summary should be enriched")
	}
	if !e.ShouldEnrich("Short summary.") {
		t.Error("short summary should be enriched")
	}
	if e.ShouldEnrich(strings.Repeat("a", 80)) {
		t.Error("summary at the threshold should be left alone")
	}

	disabled := NewSummaryEnricher(DefaultConfig())
	if disabled.ShouldEnrich("") {
		t.Error("disabled enricher should never fire")
	}
}

func TestSummaryEnricher_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	e := testEnricher(t, func(cfg *Config) {
		cfg.Timeout = 50 * time.Millisecond
	})
	if _, err := e.Enrich(context.Background(), srv.URL); err == nil {
		t.Error("expected timeout error")
	}
}
