package source

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/usecase/crawl"
)

// FeedConfig configures one generic feed instance.
type FeedConfig struct {
	Key      string `yaml:"key"`
	Source   string `yaml:"source"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

// Config carries the operator-supplied parts of the adapter set.
type Config struct {
	// ProductHuntClientID and ProductHuntClientSecret enable the
	// Product Hunt adapter. When empty the adapter still registers
	// and fails its own crawls with a ConfigError.
	ProductHuntClientID     string
	ProductHuntClientSecret string

	// FeedsPath optionally points at a YAML file replacing the
	// built-in feed list.
	FeedsPath string
}

// defaultFeeds is the built-in generic feed list.
var defaultFeeds = []FeedConfig{
	{Key: "jiqizhixin", Source: "机器之心", URL: "https://www.jiqizhixin.com/rss", Category: "tech"},
	{Key: "huggingface-blog", Source: "HuggingFace", URL: "https://huggingface.co/blog/feed.xml", Category: "academic"},
}

// defaultLimits is the registered per-run item limit for each source
// key. Settings may override any of them; sources missing here fall
// back to the orchestrator's global default.
var defaultLimits = map[string]int{
	"hackernews":       30,
	"github":           20,
	"devto":            20,
	"producthunt":      20,
	"arxiv":            10,
	"v2ex":             15,
	"juejin":           15,
	"aibase":           15,
	"weibo-hot":        10,
	"zhihu-hot":        10,
	"jiqizhixin":       5,
	"huggingface-blog": 5,
}

// DefaultLimits returns a copy of the registered per-source limits.
func DefaultLimits() map[string]int {
	limits := make(map[string]int, len(defaultLimits))
	for k, v := range defaultLimits {
		limits[k] = v
	}
	return limits
}

// BuildAdapters assembles the full adapter set. Feeds with invalid
// URLs are skipped with a warning rather than failing startup.
func BuildAdapters(client *http.Client, cfg Config) ([]crawl.Adapter, error) {
	feeds := defaultFeeds
	if cfg.FeedsPath != "" {
		loaded, err := loadFeeds(cfg.FeedsPath)
		if err != nil {
			return nil, fmt.Errorf("load feeds from %s: %w", cfg.FeedsPath, err)
		}
		feeds = loaded
	}

	newsNowLimiter := NewNewsNowLimiter()

	adapters := []crawl.Adapter{
		NewHackerNewsAdapter(client),
		NewDevToAdapter(client),
		NewGitHubTrendingAdapter(client),
		NewProductHuntAdapter(client, cfg.ProductHuntClientID, cfg.ProductHuntClientSecret),
		NewArxivAdapter(client),
		NewV2EXAdapter(client),
		NewJuejinAdapter(client),
		NewAIBaseAdapter(client),
		NewNewsNowAdapter(client, newsNowLimiter, "weibo-hot", "weibo", "微博"),
		NewNewsNowAdapter(client, newsNowLimiter, "zhihu-hot", "zhihu", "知乎"),
	}

	for _, fc := range feeds {
		if fc.Key == "" || fc.Source == "" {
			slog.Warn("skipping feed with missing key or source",
				slog.String("key", fc.Key),
				slog.String("url", fc.URL))
			continue
		}
		if err := entity.ValidateFetchURL(fc.URL); err != nil {
			slog.Warn("skipping feed with invalid URL",
				slog.String("key", fc.Key),
				slog.String("url", fc.URL),
				slog.Any("error", err))
			continue
		}
		category := entity.Category(fc.Category)
		if fc.Category != "" && !entity.ValidCategory(category) {
			slog.Warn("feed has unknown category, ignoring hint",
				slog.String("key", fc.Key),
				slog.String("category", fc.Category))
			category = ""
		}
		adapters = append(adapters, NewFeedAdapter(client, fc.Key, fc.Source, fc.URL, category))
	}

	return adapters, nil
}

func loadFeeds(path string) ([]FeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file struct {
		Feeds []FeedConfig `yaml:"feeds"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	return file.Feeds, nil
}
