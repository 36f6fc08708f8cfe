package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/usecase/crawl"
)

const trendingPage = `<html><body>
<article class="Box-row">
  <h2><a href="/golang/go">golang / go</a></h2>
  <p>The Go programming language</p>
  <span itemprop="programmingLanguage">Go</span>
  <a href="/golang/go/stargazers">128,000</a>
</article>
<article class="Box-row">
  <h2><a href="/tiny/proj"> tiny / proj </a></h2>
  <a href="/tiny/proj/stargazers">1.2k</a>
</article>
</body></html>`

func TestGitHubTrendingAdapter_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, trendingPage)
	}))
	defer srv.Close()

	adapter := NewGitHubTrendingAdapter(srv.Client())
	adapter.baseURL = srv.URL

	raws, err := adapter.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("expected 2 repos, got %d", len(raws))
	}

	item, ok := adapter.Transform(raws[0])
	if !ok {
		t.Fatal("expected transform to succeed")
	}
	if item.URL != "https://github.com/golang/go" {
		t.Errorf("unexpected URL: %q", item.URL)
	}
	if item.Category != entity.CategoryOpenSource {
		t.Errorf("expected opensource category, got %q", item.Category)
	}
	if item.Likes != 128000 {
		t.Errorf("expected 128000 stars, got %d", item.Likes)
	}
	if !strings.Contains(item.Title, "The Go programming language") {
		t.Errorf("expected description in title, got %q", item.Title)
	}

	second, _ := adapter.Transform(raws[1])
	if second.Likes != 1200 {
		t.Errorf("expected abbreviated 1.2k to parse as 1200, got %d", second.Likes)
	}
	if !strings.Contains(second.Title, "No description") {
		t.Errorf("expected placeholder description, got %q", second.Title)
	}
}

func TestGitHubTrendingAdapter_EmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><p>rate limited</p></body></html>`)
	}))
	defer srv.Close()

	adapter := NewGitHubTrendingAdapter(srv.Client())
	adapter.baseURL = srv.URL

	_, err := adapter.Fetch(context.Background(), 10)
	var parseErr *crawl.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for page without cards, got %v", err)
	}
}

func TestParseCompactNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12,345", 12345},
		{" 1.2k ", 1200},
		{"3m", 3000000},
		{"987", 987},
		{"", 0},
		{"n/a", 0},
	}
	for _, tt := range tests {
		if got := parseCompactNumber(tt.in); got != tt.want {
			t.Errorf("parseCompactNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
