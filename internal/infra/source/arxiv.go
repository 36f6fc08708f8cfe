package source

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/resilience/circuitbreaker"
	"fastinfo/internal/usecase/crawl"
)

const arxivAPI = "http://export.arxiv.org/api/query"

// ArxivAdapter queries the arXiv export API for recent AI papers.
type ArxivAdapter struct {
	client  *http.Client
	breaker *circuitbreaker.CircuitBreaker
	baseURL string
}

type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID      string `xml:"id"`
	Title   string `xml:"title"`
	Summary string `xml:"summary"`
	Updated string `xml:"updated"`
	Authors []struct {
		Name string `xml:"name"`
	} `xml:"author"`
	Links []struct {
		Href string `xml:"href,attr"`
		Rel  string `xml:"rel,attr"`
	} `xml:"link"`
}

func NewArxivAdapter(client *http.Client) *ArxivAdapter {
	return &ArxivAdapter{
		client:  client,
		breaker: circuitbreaker.New(circuitbreaker.APIFetchConfig("arxiv")),
		baseURL: arxivAPI,
	}
}

func (a *ArxivAdapter) Name() string   { return "arxiv" }
func (a *ArxivAdapter) Source() string { return "arXiv" }

func (a *ArxivAdapter) Fetch(ctx context.Context, limit int) ([]crawl.RawItem, error) {
	url := fmt.Sprintf("%s?search_query=cat:cs.AI+OR+cat:cs.LG+OR+cat:cs.CL&sortBy=lastUpdatedDate&sortOrder=descending&max_results=%d",
		a.baseURL, limit)
	result, err := withBreaker(a.breaker, a.Name(), func() (interface{}, error) {
		body, err := fetchBody(ctx, a.client, a.Name(), url, nil)
		if err != nil {
			return nil, err
		}
		var feed arxivFeed
		if err := xml.Unmarshal(body, &feed); err != nil {
			return nil, &crawl.ParseError{Source: a.Name(), Err: fmt.Errorf("decode Atom: %w", err)}
		}
		raws := make([]crawl.RawItem, len(feed.Entries))
		for i := range feed.Entries {
			raws[i] = feed.Entries[i]
		}
		return raws, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]crawl.RawItem), nil
}

func (a *ArxivAdapter) Transform(raw crawl.RawItem) (*crawl.Item, bool) {
	entry, ok := raw.(arxivEntry)
	if !ok {
		return nil, false
	}

	title := strings.Join(strings.Fields(entry.Title), " ")
	if title == "" {
		return nil, false
	}

	// Prefer the abstract page link; the <id> element carries it too.
	url := entry.ID
	for _, l := range entry.Links {
		if l.Rel == "alternate" && l.Href != "" {
			url = l.Href
			break
		}
	}
	if url == "" {
		return nil, false
	}

	authors := make([]string, 0, len(entry.Authors))
	for _, au := range entry.Authors {
		if au.Name != "" {
			authors = append(authors, au.Name)
		}
	}

	return &crawl.Item{
		Title:       title,
		URL:         url,
		Summary:     strings.TrimSpace(entry.Summary),
		Category:    entity.CategoryAcademic,
		Author:      strings.Join(authors, ", "),
		PublishedAt: parseTime(time.RFC3339, entry.Updated),
		Tags:        []string{"paper", "arxiv"},
	}, true
}

var _ crawl.Adapter = (*ArxivAdapter)(nil)
