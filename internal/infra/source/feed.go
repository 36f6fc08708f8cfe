package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/resilience/circuitbreaker"
	"fastinfo/internal/usecase/crawl"
)

// FeedAdapter is the generic reader for RSS and Atom sources, one
// instance per configured feed. Feed URLs are operator-supplied; the
// registry validates them against internal addresses before an
// adapter is built.
type FeedAdapter struct {
	client   *http.Client
	breaker  *circuitbreaker.CircuitBreaker
	parser   *gofeed.Parser
	name     string
	source   string
	feedURL  string
	category entity.Category
}

// NewFeedAdapter builds a feed adapter. A missing feedURL is reported
// as a ConfigError from Fetch, so a misconfigured feed fails its own
// crawl without blocking startup.
func NewFeedAdapter(client *http.Client, name, source, feedURL string, category entity.Category) *FeedAdapter {
	return &FeedAdapter{
		client:   client,
		breaker:  circuitbreaker.New(circuitbreaker.FeedFetchConfig(name)),
		parser:   gofeed.NewParser(),
		name:     name,
		source:   source,
		feedURL:  feedURL,
		category: category,
	}
}

func (a *FeedAdapter) Name() string   { return a.name }
func (a *FeedAdapter) Source() string { return a.source }

func (a *FeedAdapter) Fetch(ctx context.Context, limit int) ([]crawl.RawItem, error) {
	if a.feedURL == "" {
		return nil, &crawl.ConfigError{Adapter: a.name, Reason: "feed URL not configured"}
	}

	result, err := withBreaker(a.breaker, a.name, func() (interface{}, error) {
		body, err := fetchBody(ctx, a.client, a.name, a.feedURL, nil)
		if err != nil {
			return nil, err
		}
		feed, err := a.parser.Parse(bytes.NewReader(body))
		if err != nil {
			return nil, &crawl.ParseError{Source: a.name, Err: fmt.Errorf("parse feed: %w", err)}
		}
		items := feed.Items
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}
		raws := make([]crawl.RawItem, len(items))
		for i := range items {
			raws[i] = items[i]
		}
		return raws, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]crawl.RawItem), nil
}

func (a *FeedAdapter) Transform(raw crawl.RawItem) (*crawl.Item, bool) {
	item, ok := raw.(*gofeed.Item)
	if !ok || item.Title == "" || item.Link == "" {
		return nil, false
	}

	author := ""
	if len(item.Authors) > 0 {
		author = item.Authors[0].Name
	}
	image := ""
	if item.Image != nil {
		image = item.Image.URL
	}

	published := item.PublishedParsed
	if published == nil {
		published = item.UpdatedParsed
	}

	return &crawl.Item{
		Title:       item.Title,
		URL:         item.Link,
		Summary:     item.Description,
		Category:    a.category,
		Tags:        item.Categories,
		Author:      author,
		PublishedAt: published,
		ImageURL:    image,
	}, true
}

var _ crawl.Adapter = (*FeedAdapter)(nil)
