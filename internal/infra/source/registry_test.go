package source

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildAdapters_Defaults(t *testing.T) {
	adapters, err := BuildAdapters(NewHTTPClient(), Config{})
	if err != nil {
		t.Fatalf("BuildAdapters failed: %v", err)
	}

	// 10 fixed adapters plus the 2 built-in feeds.
	if len(adapters) != 12 {
		t.Fatalf("expected 12 adapters, got %d", len(adapters))
	}

	names := make(map[string]bool, len(adapters))
	for _, a := range adapters {
		if names[a.Name()] {
			t.Errorf("duplicate adapter name %q", a.Name())
		}
		names[a.Name()] = true
		if _, ok := defaultLimits[a.Name()]; !ok {
			t.Errorf("adapter %q has no registered default limit", a.Name())
		}
	}
	for _, want := range []string{"hackernews", "weibo-hot", "jiqizhixin"} {
		if !names[want] {
			t.Errorf("expected adapter %q to be registered", want)
		}
	}
}

func TestBuildAdapters_FeedsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.yaml")
	yaml := `feeds:
  - key: example-blog
    source: Example Blog
    url: https://blog.example.com/rss
    category: dev
  - key: bad-scheme
    source: Bad
    url: ftp://example.com/feed
  - key: bad-category
    source: Odd
    url: https://odd.example.com/rss
    category: sports
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}

	adapters, err := BuildAdapters(http.DefaultClient, Config{FeedsPath: path})
	if err != nil {
		t.Fatalf("BuildAdapters failed: %v", err)
	}

	names := make(map[string]bool, len(adapters))
	for _, a := range adapters {
		names[a.Name()] = true
	}
	if !names["example-blog"] {
		t.Error("expected configured feed to be registered")
	}
	if names["bad-scheme"] {
		t.Error("expected non-http feed to be skipped")
	}
	if !names["bad-category"] {
		t.Error("expected feed with unknown category to register without the hint")
	}
	if names["jiqizhixin"] {
		t.Error("expected feeds file to replace the built-in list")
	}
}

func TestBuildAdapters_MissingFeedsFile(t *testing.T) {
	_, err := BuildAdapters(http.DefaultClient, Config{FeedsPath: "/does/not/exist.yaml"})
	if err == nil {
		t.Fatal("expected error for missing feeds file")
	}
}

func TestDefaultLimits_Copy(t *testing.T) {
	limits := DefaultLimits()
	limits["hackernews"] = 1
	if defaultLimits["hackernews"] == 1 {
		t.Error("expected DefaultLimits to return a copy")
	}
}
