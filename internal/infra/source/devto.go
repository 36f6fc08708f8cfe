package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fastinfo/internal/resilience/circuitbreaker"
	"fastinfo/internal/usecase/crawl"
)

const devToAPI = "https://dev.to/api/articles"

// DevToAdapter reads the Dev.to REST API, freshest articles first.
type DevToAdapter struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	baseURL string
}

type devToArticle struct {
	Title          string   `json:"title"`
	URL            string   `json:"url"`
	Description    string   `json:"description"`
	PublishedAt    string   `json:"published_at"`
	Reactions      int      `json:"public_reactions_count"`
	CommentsCount  int      `json:"comments_count"`
	CoverImage     string   `json:"cover_image"`
	SocialImage    string   `json:"social_image"`
	TagList        []string `json:"tag_list"`
	ReadingTimeMin int      `json:"reading_time_minutes"`
	User           struct {
		Name string `json:"name"`
	} `json:"user"`
}

func NewDevToAdapter(client *http.Client) *DevToAdapter {
	return &DevToAdapter{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.APIFetchConfig("devto")),
		baseURL: devToAPI,
	}
}

func (a *DevToAdapter) Name() string   { return "devto" }
func (a *DevToAdapter) Source() string { return "Dev.to" }

func (a *DevToAdapter) Fetch(ctx context.Context, limit int) ([]crawl.RawItem, error) {
	result, err := withBreaker(a.breaker, a.Name(), func() (interface{}, error) {
		var articles []devToArticle
		url := fmt.Sprintf("%s?per_page=30&state=fresh", a.baseURL)
		if err := fetchJSON(ctx, a.client, a.Name(), url, nil, &articles); err != nil {
			return nil, err
		}
		if limit > 0 && len(articles) > limit {
			articles = articles[:limit]
		}
		raws := make([]crawl.RawItem, len(articles))
		for i := range articles {
			raws[i] = articles[i]
		}
		return raws, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]crawl.RawItem), nil
}

func (a *DevToAdapter) Transform(raw crawl.RawItem) (*crawl.Item, bool) {
	article, ok := raw.(devToArticle)
	if !ok || article.Title == "" || article.URL == "" {
		return nil, false
	}
	image := article.CoverImage
	if image == "" {
		image = article.SocialImage
	}
	return &crawl.Item{
		Title:       article.Title,
		URL:         article.URL,
		Summary:     article.Description,
		Tags:        article.TagList,
		Author:      article.User.Name,
		PublishedAt: parseTime(time.RFC3339, article.PublishedAt),
		Likes:       article.Reactions,
		Comments:    article.CommentsCount,
		ImageURL:    image,
	}, true
}

var _ crawl.Adapter = (*DevToAdapter)(nil)
