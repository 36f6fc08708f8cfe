package source

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"fastinfo/internal/resilience/circuitbreaker"
	"fastinfo/internal/usecase/crawl"
)

const (
	hackerNewsAPI = "https://hacker-news.firebaseio.com/v0"

	// storyFetchParallelism bounds concurrent item API calls.
	storyFetchParallelism = 8
)

// HackerNewsAdapter reads the Firebase item API, merging the newest
// and top story lists.
type HackerNewsAdapter struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	baseURL string
}

// hnStory is one item API record.
type hnStory struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	By          string `json:"by"`
	Time        int64  `json:"time"`
	Type        string `json:"type"`
}

func NewHackerNewsAdapter(client *http.Client) *HackerNewsAdapter {
	return &HackerNewsAdapter{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.APIFetchConfig("hackernews")),
		baseURL: hackerNewsAPI,
	}
}

func (a *HackerNewsAdapter) Name() string   { return "hackernews" }
func (a *HackerNewsAdapter) Source() string { return "Hacker News" }

// Fetch merges new and top story IDs, newest first, then loads each
// story. A story that fails to load is skipped rather than failing
// the batch.
func (a *HackerNewsAdapter) Fetch(ctx context.Context, limit int) ([]crawl.RawItem, error) {
	result, err := withBreaker(a.breaker, a.Name(), func() (interface{}, error) {
		return a.doFetch(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	return result.([]crawl.RawItem), nil
}

func (a *HackerNewsAdapter) doFetch(ctx context.Context, limit int) ([]crawl.RawItem, error) {
	var newIDs, topIDs []int64
	if err := fetchJSON(ctx, a.client, a.Name(), a.baseURL+"/newstories.json", nil, &newIDs); err != nil {
		return nil, fmt.Errorf("fetch new stories: %w", err)
	}
	if err := fetchJSON(ctx, a.client, a.Name(), a.baseURL+"/topstories.json", nil, &topIDs); err != nil {
		return nil, fmt.Errorf("fetch top stories: %w", err)
	}

	ids := mergeIDs(newIDs, topIDs, limit)

	// Load stories concurrently, keeping merge order. Stories that
	// fail to load leave a nil slot and are dropped afterwards.
	stories := make([]*hnStory, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(storyFetchParallelism)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			var story hnStory
			url := fmt.Sprintf("%s/item/%d.json", a.baseURL, id)
			if err := fetchJSON(gctx, a.client, a.Name(), url, nil, &story); err != nil {
				return nil
			}
			stories[i] = &story
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items := make([]crawl.RawItem, 0, len(ids))
	for _, story := range stories {
		if story != nil {
			items = append(items, *story)
		}
	}
	return items, nil
}

func (a *HackerNewsAdapter) Transform(raw crawl.RawItem) (*crawl.Item, bool) {
	story, ok := raw.(hnStory)
	if !ok {
		return nil, false
	}
	// Ask HN and dead items carry no external URL
	if story.Title == "" || story.URL == "" {
		return nil, false
	}
	return &crawl.Item{
		Title:       story.Title,
		URL:         story.URL,
		Author:      story.By,
		PublishedAt: unixTime(story.Time),
		Likes:       story.Score,
		Comments:    story.Descendants,
		Metadata:    map[string]any{"hn_id": story.ID},
	}, true
}

// mergeIDs interleaves the two lists new-first with dedupe, capped at
// limit entries.
func mergeIDs(newIDs, topIDs []int64, limit int) []int64 {
	if limit <= 0 {
		limit = len(newIDs) + len(topIDs)
	}
	seen := make(map[int64]bool, limit)
	out := make([]int64, 0, limit)
	for _, list := range [][]int64{newIDs, topIDs} {
		for _, id := range list {
			if len(out) >= limit {
				return out
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

var _ crawl.Adapter = (*HackerNewsAdapter)(nil)
