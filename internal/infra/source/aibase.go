package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/resilience/circuitbreaker"
	"fastinfo/internal/usecase/crawl"
)

const aibaseURL = "https://www.aibase.com"

// AIBaseAdapter extracts AI news from the embedded Nuxt page state.
// The site renders client-side, but the hydration payload in the
// __NUXT_DATA__ script tag carries the full article list.
type AIBaseAdapter struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	baseURL string
}

type aibaseArticle struct {
	Title   string
	URL     string
	Summary string
	Cover   string
}

func NewAIBaseAdapter(client *http.Client) *AIBaseAdapter {
	return &AIBaseAdapter{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.WebScraperConfig("aibase")),
		baseURL: aibaseURL,
	}
}

func (a *AIBaseAdapter) Name() string   { return "aibase" }
func (a *AIBaseAdapter) Source() string { return "AIBase" }

func (a *AIBaseAdapter) Fetch(ctx context.Context, limit int) ([]crawl.RawItem, error) {
	result, err := withBreaker(a.breaker, a.Name(), func() (interface{}, error) {
		body, err := fetchBody(ctx, a.client, a.Name(), a.baseURL, nil)
		if err != nil {
			return nil, err
		}
		articles, err := a.parsePage(body)
		if err != nil {
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

func (a *AIBaseAdapter) parsePage(body []byte) ([]aibaseArticle, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &crawl.ParseError{Source: a.Name(), Err: fmt.Errorf("parse HTML: %w", err)}
	}

	state := doc.Find("script#__NUXT_DATA__").First().Text()
	if strings.TrimSpace(state) == "" {
		return nil, &crawl.ParseError{Source: a.Name(), Err: fmt.Errorf("__NUXT_DATA__ script tag not found")}
	}

	var payload any
	if err := json.Unmarshal([]byte(state), &payload); err != nil {
		return nil, &crawl.ParseError{Source: a.Name(), Err: fmt.Errorf("decode page state: %w", err)}
	}

	articles := collectAIBaseArticles(payload, nil)
	if len(articles) == 0 {
		return nil, &crawl.ParseError{Source: a.Name(), Err: fmt.Errorf("no articles in page state, layout may have changed")}
	}
	return articles, nil
}

// collectAIBaseArticles walks the hydration payload and picks up every
// object shaped like an article. The payload nesting varies between
// deployments, so matching on field shape is more stable than a path.
func collectAIBaseArticles(node any, acc []aibaseArticle) []aibaseArticle {
	switch v := node.(type) {
	case map[string]any:
		title, _ := v["title"].(string)
		if title != "" {
			if art, ok := aibaseFromMap(v, title); ok {
				return append(acc, art)
			}
		}
		for _, child := range v {
			acc = collectAIBaseArticles(child, acc)
		}
	case []any:
		for _, child := range v {
			acc = collectAIBaseArticles(child, acc)
		}
	}
	return acc
}

func aibaseFromMap(m map[string]any, title string) (aibaseArticle, bool) {
	url := stringField(m, "url", "link", "href")
	if url == "" {
		if id, ok := m["Id"].(float64); ok {
			url = fmt.Sprintf("/news/%.0f", id)
		}
	}
	if url == "" {
		return aibaseArticle{}, false
	}
	if !strings.HasPrefix(url, "http") {
		url = aibaseURL + url
	}

	return aibaseArticle{
		Title:   title,
		URL:     url,
		Summary: stringField(m, "summary", "description", "desc"),
		Cover:   stringField(m, "cover", "thumb", "image"),
	}, true
}

func stringField(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (a *AIBaseAdapter) Transform(raw crawl.RawItem) (*crawl.Item, bool) {
	art, ok := raw.(aibaseArticle)
	if !ok || art.Title == "" || art.URL == "" {
		return nil, false
	}

	return &crawl.Item{
		Title:    art.Title,
		URL:      art.URL,
		Summary:  art.Summary,
		Category: entity.CategoryTech,
		ImageURL: art.Cover,
	}, true
}

var _ crawl.Adapter = (*AIBaseAdapter)(nil)
