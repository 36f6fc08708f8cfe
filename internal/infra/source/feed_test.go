package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/usecase/crawl"
)

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <item>
      <title>Post one</title>
      <link>https://blog.example.com/one</link>
      <description>About the first thing</description>
      <pubDate>Sun, 30 Aug 2026 08:00:00 GMT</pubDate>
      <category>research</category>
    </item>
    <item>
      <title>Post two</title>
      <link>https://blog.example.com/two</link>
    </item>
  </channel>
</rss>`

func TestFeedAdapter_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sampleRSS)
	}))
	defer srv.Close()

	adapter := NewFeedAdapter(srv.Client(), "example-blog", "Example Blog", srv.URL, entity.CategoryAcademic)

	raws, err := adapter.Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(raws) != 1 {
		t.Fatalf("expected limit to cap at 1 item, got %d", len(raws))
	}

	item, ok := adapter.Transform(raws[0])
	if !ok {
		t.Fatal("expected transform to succeed")
	}
	if item.Title != "Post one" {
		t.Errorf("unexpected title: %q", item.Title)
	}
	if item.Category != entity.CategoryAcademic {
		t.Errorf("expected category hint to apply, got %q", item.Category)
	}
	if item.PublishedAt == nil {
		t.Error("expected published time from pubDate")
	}
	if len(item.Tags) != 1 || item.Tags[0] != "research" {
		t.Errorf("unexpected tags: %v", item.Tags)
	}
}

func TestFeedAdapter_MissingURL(t *testing.T) {
	adapter := NewFeedAdapter(http.DefaultClient, "broken", "Broken", "", "")

	_, err := adapter.Fetch(context.Background(), 5)
	var cfgErr *crawl.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for missing URL, got %v", err)
	}
}

func TestFeedAdapter_MalformedFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `this is not XML`)
	}))
	defer srv.Close()

	adapter := NewFeedAdapter(srv.Client(), "garbled", "Garbled", srv.URL, "")

	_, err := adapter.Fetch(context.Background(), 5)
	var parseErr *crawl.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError for malformed feed, got %v", err)
	}
}
