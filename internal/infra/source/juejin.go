package source

import (
	"context"
	"fmt"
	"net/http"

	"fastinfo/internal/resilience/circuitbreaker"
	"fastinfo/internal/usecase/crawl"
)

const juejinAPI = "https://api.juejin.cn/content_api/v1/content/article_rank?category_id=1&type=hot"

// JuejinAdapter reads the hot article rank API. Responses carry an
// err_no envelope even on HTTP 200, which maps to ParseError here.
type JuejinAdapter struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	baseURL string
}

type juejinResponse struct {
	ErrNo  int            `json:"err_no"`
	ErrMsg string         `json:"err_msg"`
	Data   []juejinRanked `json:"data"`
}

type juejinRanked struct {
	Content struct {
		ContentID string `json:"content_id"`
		Title     string `json:"title"`
	} `json:"content"`
	ContentCounter struct {
		View    int `json:"view"`
		Like    int `json:"like"`
		Comment int `json:"comment_count"`
	} `json:"content_counter"`
	Author struct {
		Name string `json:"name"`
	} `json:"author"`
}

func NewJuejinAdapter(client *http.Client) *JuejinAdapter {
	return &JuejinAdapter{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.APIFetchConfig("juejin")),
		baseURL: juejinAPI,
	}
}

func (a *JuejinAdapter) Name() string   { return "juejin" }
func (a *JuejinAdapter) Source() string { return "掘金" }

func (a *JuejinAdapter) Fetch(ctx context.Context, limit int) ([]crawl.RawItem, error) {
	result, err := withBreaker(a.breaker, a.Name(), func() (interface{}, error) {
		var resp juejinResponse
		if err := fetchJSON(ctx, a.client, a.Name(), a.baseURL, nil, &resp); err != nil {
			return nil, err
		}
		if resp.ErrNo != 0 {
			return nil, &crawl.ParseError{
				Source: a.Name(),
				Err:    fmt.Errorf("API error %d: %s", resp.ErrNo, resp.ErrMsg),
			}
		}
		ranked := resp.Data
		if limit > 0 && len(ranked) > limit {
			ranked = ranked[:limit]
		}
		raws := make([]crawl.RawItem, len(ranked))
		for i := range ranked {
			raws[i] = ranked[i]
		}
		return raws, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]crawl.RawItem), nil
}

func (a *JuejinAdapter) Transform(raw crawl.RawItem) (*crawl.Item, bool) {
	ranked, ok := raw.(juejinRanked)
	if !ok || ranked.Content.Title == "" || ranked.Content.ContentID == "" {
		return nil, false
	}

	return &crawl.Item{
		Title:    ranked.Content.Title,
		URL:      "https://juejin.cn/post/" + ranked.Content.ContentID,
		Author:   ranked.Author.Name,
		Likes:    ranked.ContentCounter.Like,
		Comments: ranked.ContentCounter.Comment,
		Views:    ranked.ContentCounter.View,
	}, true
}

var _ crawl.Adapter = (*JuejinAdapter)(nil)
