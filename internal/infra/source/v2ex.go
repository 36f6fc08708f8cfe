package source

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"fastinfo/internal/resilience/circuitbreaker"
	"fastinfo/internal/usecase/crawl"
)

const v2exAPI = "https://www.v2ex.com/api/topics/hot.json"

// V2EXAdapter reads the hot topics API. V2EX rate-limits unauthenticated
// clients aggressively, so requests go through a shared limiter.
type V2EXAdapter struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	limiter *rate.Limiter
	baseURL string
}

type v2exTopic struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Replies int    `json:"replies"`
	Created int64  `json:"created"`
	Member  struct {
		Username    string `json:"username"`
		AvatarLarge string `json:"avatar_large"`
	} `json:"member"`
	Node struct {
		AvatarLarge string `json:"avatar_large"`
	} `json:"node"`
}

func NewV2EXAdapter(client *http.Client) *V2EXAdapter {
	return &V2EXAdapter{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.APIFetchConfig("v2ex")),
		limiter: rate.NewLimiter(rate.Limit(1), 1),
		baseURL: v2exAPI,
	}
}

func (a *V2EXAdapter) Name() string   { return "v2ex" }
func (a *V2EXAdapter) Source() string { return "V2EX" }

func (a *V2EXAdapter) Fetch(ctx context.Context, limit int) ([]crawl.RawItem, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	result, err := withBreaker(a.breaker, a.Name(), func() (interface{}, error) {
		var topics []v2exTopic
		if err := fetchJSON(ctx, a.client, a.Name(), a.baseURL, nil, &topics); err != nil {
			return nil, err
		}
		if limit > 0 && len(topics) > limit {
			topics = topics[:limit]
		}
		raws := make([]crawl.RawItem, len(topics))
		for i := range topics {
			raws[i] = topics[i]
		}
		return raws, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]crawl.RawItem), nil
}

func (a *V2EXAdapter) Transform(raw crawl.RawItem) (*crawl.Item, bool) {
	topic, ok := raw.(v2exTopic)
	if !ok || topic.Title == "" || topic.URL == "" {
		return nil, false
	}

	image := topic.Node.AvatarLarge
	if image == "" {
		image = topic.Member.AvatarLarge
	}
	if strings.HasPrefix(image, "/") {
		image = "https://www.v2ex.com" + image
	}

	return &crawl.Item{
		Title:       topic.Title,
		URL:         topic.URL,
		Summary:     topic.Content,
		Author:      topic.Member.Username,
		PublishedAt: unixTime(topic.Created),
		Comments:    topic.Replies,
		ImageURL:    image,
		Metadata:    map[string]any{"v2ex_id": topic.ID},
	}, true
}

var _ crawl.Adapter = (*V2EXAdapter)(nil)
