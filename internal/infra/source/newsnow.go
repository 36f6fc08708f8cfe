package source

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"fastinfo/internal/resilience/circuitbreaker"
	"fastinfo/internal/usecase/crawl"
)

const newsNowAPI = "https://newsnow.busiyi.world/api/s"

// newsNowHeaders mimics a browser. The hub rejects default Go client
// requests.
var newsNowHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "zh-CN,zh;q=0.9,en;q=0.8",
}

// NewsNowAdapter reads one trending board from the NewsNow hub API.
// One instance per board; all instances share a rate limiter so
// concurrent board fetches stay spaced out.
type NewsNowAdapter struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	limiter *rate.Limiter
	key     string
	board   string
	source  string
	baseURL string
}

type newsNowResponse struct {
	Status string        `json:"status"`
	Items  []newsNowItem `json:"items"`
}

type newsNowItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	rank  int
}

// NewNewsNowLimiter returns the limiter shared by all board adapters,
// roughly one request per second to match the hub's tolerance.
func NewNewsNowLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(1), 1)
}

// NewNewsNowAdapter builds an adapter for one board. key is the
// settings key (e.g. "weibo-hot"), board the hub's board id
// (e.g. "weibo"), source the display name.
func NewNewsNowAdapter(client *http.Client, limiter *rate.Limiter, key, board, source string) *NewsNowAdapter {
	return &NewsNowAdapter{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.APIFetchConfig(key)),
		limiter: limiter,
		key:     key,
		board:   board,
		source:  source,
		baseURL: newsNowAPI,
	}
}

func (a *NewsNowAdapter) Name() string   { return a.key }
func (a *NewsNowAdapter) Source() string { return a.source }

func (a *NewsNowAdapter) Fetch(ctx context.Context, limit int) ([]crawl.RawItem, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s?id=%s&latest", a.baseURL, a.board)
	result, err := withBreaker(a.breaker, a.key, func() (interface{}, error) {
		var resp newsNowResponse
		if err := fetchJSON(ctx, a.client, a.key, url, newsNowHeaders, &resp); err != nil {
			return nil, err
		}
		// "cache" means the hub served a stale but valid board.
		if resp.Status != "success" && resp.Status != "cache" {
			return nil, &crawl.ParseError{
				Source: a.key,
				Err:    fmt.Errorf("unexpected API status %q", resp.Status),
			}
		}
		items := resp.Items
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}
		raws := make([]crawl.RawItem, len(items))
		for i := range items {
			items[i].rank = i
			raws[i] = items[i]
		}
		return raws, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]crawl.RawItem), nil
}

// Transform seeds engagement from the board rank: hot search boards
// expose no counters, so the position stands in for popularity.
func (a *NewsNowAdapter) Transform(raw crawl.RawItem) (*crawl.Item, bool) {
	item, ok := raw.(newsNowItem)
	if !ok || item.Title == "" || item.URL == "" {
		return nil, false
	}

	seed := 100
	if item.rank < 10 {
		seed = 500 - item.rank*10
	}

	return &crawl.Item{
		Title:    item.Title,
		URL:      item.URL,
		Likes:    seed,
		Metadata: map[string]any{"board": a.board, "rank": item.rank},
	}, true
}

var _ crawl.Adapter = (*NewsNowAdapter)(nil)
