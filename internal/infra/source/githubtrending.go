package source

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/resilience/circuitbreaker"
	"fastinfo/internal/usecase/crawl"
)

const githubTrendingURL = "https://github.com/trending"

// GitHubTrendingAdapter scrapes the trending page. GitHub has no
// public API for it, so this parses the repository cards directly.
type GitHubTrendingAdapter struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	baseURL string
}

type githubRepo struct {
	FullName    string
	URL         string
	Description string
	Language    string
	Stars       int
}

func NewGitHubTrendingAdapter(client *http.Client) *GitHubTrendingAdapter {
	return &GitHubTrendingAdapter{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.WebScraperConfig("github-trending")),
		baseURL: githubTrendingURL,
	}
}

func (a *GitHubTrendingAdapter) Name() string   { return "github" }
func (a *GitHubTrendingAdapter) Source() string { return "GitHub Trending" }

func (a *GitHubTrendingAdapter) Fetch(ctx context.Context, limit int) ([]crawl.RawItem, error) {
	result, err := withBreaker(a.breaker, a.Name(), func() (interface{}, error) {
		body, err := fetchBody(ctx, a.client, a.Name(), a.baseURL, nil)
		if err != nil {
			return nil, err
		}
		repos, err := a.parsePage(body)
		if err != nil {
			return nil, err
		}
		if limit > 0 && len(repos) > limit {
			repos = repos[:limit]
		}
		raws := make([]crawl.RawItem, len(repos))
		for i := range repos {
			raws[i] = repos[i]
		}
		return raws, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]crawl.RawItem), nil
}

func (a *GitHubTrendingAdapter) parsePage(body []byte) ([]githubRepo, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &crawl.ParseError{Source: a.Name(), Err: fmt.Errorf("parse HTML: %w", err)}
	}

	var repos []githubRepo
	doc.Find("article.Box-row").Each(func(_ int, card *goquery.Selection) {
		href, ok := card.Find("h2 a").Attr("href")
		if !ok {
			return
		}
		fullName := strings.TrimPrefix(strings.TrimSpace(href), "/")
		if fullName == "" {
			return
		}

		stars := 0
		card.Find(`a[href$="/stargazers"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			stars = parseCompactNumber(s.Text())
			return false
		})

		repos = append(repos, githubRepo{
			FullName:    fullName,
			URL:         "https://github.com/" + fullName,
			Description: strings.TrimSpace(card.Find("p").First().Text()),
			Language:    strings.TrimSpace(card.Find(`span[itemprop="programmingLanguage"]`).Text()),
			Stars:       stars,
		})
	})

	if len(repos) == 0 {
		return nil, &crawl.ParseError{Source: a.Name(), Err: fmt.Errorf("no repository cards found, page layout may have changed")}
	}
	return repos, nil
}

func (a *GitHubTrendingAdapter) Transform(raw crawl.RawItem) (*crawl.Item, bool) {
	repo, ok := raw.(githubRepo)
	if !ok || repo.FullName == "" {
		return nil, false
	}

	desc := repo.Description
	if desc == "" {
		desc = "No description"
	}
	tags := []string{"github", "trending"}
	if repo.Language != "" {
		tags = append(tags, strings.ToLower(repo.Language))
	}

	return &crawl.Item{
		Title:    fmt.Sprintf("%s: %s", repo.FullName, desc),
		URL:      repo.URL,
		Summary:  repo.Description,
		Category: entity.CategoryOpenSource,
		Tags:     tags,
		Likes:    repo.Stars,
		Metadata: map[string]any{"language": repo.Language, "stars": repo.Stars},
	}, true
}

// parseCompactNumber reads counts as GitHub renders them, either
// comma-grouped ("12,345") or abbreviated ("1.2k", "3m").
func parseCompactNumber(s string) int {
	s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), ",", ""))
	if s == "" {
		return 0
	}

	mult := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		mult, s = 1e3, strings.TrimSuffix(s, "k")
	case strings.HasSuffix(s, "m"):
		mult, s = 1e6, strings.TrimSuffix(s, "m")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f * mult)
}

var _ crawl.Adapter = (*GitHubTrendingAdapter)(nil)
