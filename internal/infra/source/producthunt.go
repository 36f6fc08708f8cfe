package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/observability/metrics"
	"fastinfo/internal/resilience/circuitbreaker"
	"fastinfo/internal/resilience/retry"
	"fastinfo/internal/usecase/crawl"
)

const (
	productHuntGraphQL = "https://api.producthunt.com/v2/api/graphql"
	productHuntToken   = "https://api.producthunt.com/v2/oauth/token"
)

const productHuntQuery = `query($first: Int!) {
  posts(order: RANKED, first: $first) {
    edges {
      node {
        name
        tagline
        url
        votesCount
        commentsCount
        createdAt
        thumbnail { url }
        user { name }
      }
    }
  }
}`

// ProductHuntAdapter queries the v2 GraphQL API using an OAuth
// client-credentials grant. Without credentials the adapter reports a
// ConfigError so the rest of the run proceeds.
type ProductHuntAdapter struct {
	client       *http.Client
	breaker      *circuitbreaker.CircuitBreaker
	clientID     string
	clientSecret string
	apiURL       string
	tokenURL     string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type productHuntPost struct {
	Name          string `json:"name"`
	Tagline       string `json:"tagline"`
	URL           string `json:"url"`
	VotesCount    int    `json:"votesCount"`
	CommentsCount int    `json:"commentsCount"`
	CreatedAt     string `json:"createdAt"`
	Thumbnail     struct {
		URL string `json:"url"`
	} `json:"thumbnail"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
}

type productHuntResponse struct {
	Data struct {
		Posts struct {
			Edges []struct {
				Node productHuntPost `json:"node"`
			} `json:"edges"`
		} `json:"posts"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func NewProductHuntAdapter(client *http.Client, clientID, clientSecret string) *ProductHuntAdapter {
	return &ProductHuntAdapter{
		client:       client,
		breaker:      circuitbreaker.New(circuitbreaker.APIFetchConfig("producthunt")),
		clientID:     clientID,
		clientSecret: clientSecret,
		apiURL:       productHuntGraphQL,
		tokenURL:     productHuntToken,
	}
}

func (a *ProductHuntAdapter) Name() string   { return "producthunt" }
func (a *ProductHuntAdapter) Source() string { return "Product Hunt" }

func (a *ProductHuntAdapter) Fetch(ctx context.Context, limit int) ([]crawl.RawItem, error) {
	if a.clientID == "" || a.clientSecret == "" {
		return nil, &crawl.ConfigError{Adapter: a.Name(), Reason: "missing OAuth client credentials"}
	}

	result, err := withBreaker(a.breaker, a.Name(), func() (interface{}, error) {
		token, err := a.token(ctx)
		if err != nil {
			return nil, err
		}
		posts, err := a.queryPosts(ctx, token, limit)
		if err != nil {
			return nil, err
		}
		raws := make([]crawl.RawItem, len(posts))
		for i := range posts {
			raws[i] = posts[i]
		}
		return raws, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]crawl.RawItem), nil
}

// token returns a cached access token, requesting a new one via the
// client-credentials grant when the cache is empty or near expiry.
func (a *ProductHuntAdapter) token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.accessToken != "" && time.Now().Before(a.tokenExpiry) {
		return a.accessToken, nil
	}

	payload, _ := json.Marshal(map[string]string{
		"client_id":     a.clientID,
		"client_secret": a.clientSecret,
		"grant_type":    "client_credentials",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(a.Name(), 0, time.Since(start))
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordUpstreamRequest(a.Name(), resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: "POST " + a.tokenURL}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	a.accessToken = tok.AccessToken
	expiresIn := time.Duration(tok.ExpiresIn) * time.Second
	if expiresIn <= 0 {
		expiresIn = time.Hour
	}
	a.tokenExpiry = time.Now().Add(expiresIn - time.Minute)
	return a.accessToken, nil
}

func (a *ProductHuntAdapter) queryPosts(ctx context.Context, token string, limit int) ([]productHuntPost, error) {
	payload, _ := json.Marshal(map[string]any{
		"query":     productHuntQuery,
		"variables": map[string]any{"first": limit},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(a.Name(), 0, time.Since(start))
		return nil, &crawl.TransientError{Source: a.Name(), Err: fmt.Errorf("GraphQL request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordUpstreamRequest(a.Name(), resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: "POST " + a.apiURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &crawl.TransientError{Source: a.Name(), Err: fmt.Errorf("read response body: %w", err)}
	}
	var gql productHuntResponse
	if err := json.Unmarshal(body, &gql); err != nil {
		return nil, &crawl.ParseError{Source: a.Name(), Err: fmt.Errorf("decode GraphQL response: %w", err)}
	}
	// GraphQL errors arrive in a 200 envelope and are usually
	// rate-limit or upstream hiccups, so they stay retryable.
	if len(gql.Errors) > 0 {
		return nil, &crawl.TransientError{Source: a.Name(), Err: fmt.Errorf("GraphQL error: %s", gql.Errors[0].Message)}
	}

	posts := make([]productHuntPost, 0, len(gql.Data.Posts.Edges))
	for _, edge := range gql.Data.Posts.Edges {
		posts = append(posts, edge.Node)
	}
	return posts, nil
}

func (a *ProductHuntAdapter) Transform(raw crawl.RawItem) (*crawl.Item, bool) {
	post, ok := raw.(productHuntPost)
	if !ok || post.Name == "" || post.URL == "" {
		return nil, false
	}

	return &crawl.Item{
		Title:       post.Name,
		URL:         post.URL,
		Summary:     post.Tagline,
		Category:    entity.CategoryProduct,
		Author:      post.User.Name,
		PublishedAt: parseTime(time.RFC3339, post.CreatedAt),
		Likes:       post.VotesCount,
		Comments:    post.CommentsCount,
		ImageURL:    post.Thumbnail.URL,
	}, true
}

var _ crawl.Adapter = (*ProductHuntAdapter)(nil)
