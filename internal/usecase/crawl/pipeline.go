package crawl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fastinfo/internal/categorizer"
	"fastinfo/internal/domain/entity"
	"fastinfo/internal/normalizer"
	"fastinfo/internal/observability/logging"
	"fastinfo/internal/observability/metrics"
	"fastinfo/internal/observability/tracing"
	"fastinfo/internal/resilience/retry"
	"fastinfo/internal/scorer"
)

// crawlSource runs the full pipeline for one adapter: retried fetch,
// per-item transform, normalize, categorize, score, validate, upsert.
// Item-level failures are counted and skipped so one bad record never
// sinks the source.
func (s *Service) crawlSource(ctx context.Context, a Adapter, limit int) SourceResult {
	logger := logging.FromContext(ctx).With(slog.String("source", a.Name()))
	ctx, span := tracing.StartSourceSpan(ctx, a.Name())
	start := time.Now()
	res := SourceResult{Source: a.Name()}
	defer func() {
		tracing.EndSourceSpan(span, res.Fetched, res.New, res.Merged, res.Err)
	}()

	var raws []RawItem
	err := retry.WithBackoff(ctx, s.retryCfg, func() error {
		var fetchErr error
		raws, fetchErr = a.Fetch(ctx, limit)
		return fetchErr
	})
	if err != nil {
		var cfgErr *ConfigError
		errType := "fetch_failed"
		if errors.As(err, &cfgErr) {
			errType = "config_error"
		}
		metrics.RecordSourceCrawlError(a.Name(), errType)
		logger.Warn("source fetch failed",
			slog.String("error_type", errType),
			slog.Any("error", err))
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	res.Fetched = len(raws)
	now := time.Now()

	for _, raw := range raws {
		if ctx.Err() != nil {
			res.Err = ctx.Err()
			break
		}

		item, ok := a.Transform(raw)
		if !ok || item == nil {
			res.Dropped++
			metrics.RecordArticleDropped(a.Name(), "transform")
			continue
		}

		if s.enricher != nil && item.URL != "" && s.enricher.ShouldEnrich(item.Summary) {
			if excerpt, err := s.enricher.Enrich(ctx, item.URL); err == nil {
				item.Summary = excerpt
			} else {
				logger.Debug("summary enrichment failed",
					slog.String("url", item.URL),
					slog.Any("error", err))
			}
		}

		art := s.assemble(a.Source(), item, now)
		if err := art.Validate(); err != nil {
			res.Dropped++
			metrics.RecordArticleDropped(a.Name(), "invalid")
			logger.Debug("dropping invalid article",
				slog.String("url", item.URL),
				slog.Any("error", err))
			continue
		}

		up, err := s.articleRepo.Upsert(ctx, art)
		if err != nil {
			res.SaveErrors++
			metrics.RecordSourceCrawlError(a.Name(), "save_failed")
			logger.Warn("failed to save article",
				slog.String("url", art.URL),
				slog.Any("error", err))
			continue
		}
		if up.Inserted {
			res.New++
		} else {
			res.Merged++
		}
	}

	res.Duration = time.Since(start)
	metrics.RecordSourceCrawl(a.Name(), res.Duration, res.Fetched, res.New, res.Merged)

	logger.Info("source crawl completed",
		slog.Int("fetched", res.Fetched),
		slog.Int("new", res.New),
		slog.Int("merged", res.Merged),
		slog.Int("dropped", res.Dropped),
		slog.Int("save_errors", res.SaveErrors),
		slog.Duration("duration", res.Duration))

	return res
}

// assemble turns an adapter item into a scored article candidate.
func (s *Service) assemble(source string, item *Item, now time.Time) *entity.Article {
	art := &entity.Article{
		Title:       item.Title,
		URL:         item.URL,
		Summary:     item.Summary,
		Source:      source,
		Category:    item.Category,
		Tags:        item.Tags,
		Author:      item.Author,
		PublishedAt: item.PublishedAt,
		Likes:       item.Likes,
		Comments:    item.Comments,
		Views:       item.Views,
		ImageURL:    item.ImageURL,
		Metadata:    item.Metadata,
		CrawledAt:   now,
	}

	normalizer.Normalize(art)

	if !entity.ValidCategory(art.Category) {
		art.Category = categorizer.Categorize(art.Title, art.Summary, art.Source)
	}

	scorer.Score(art, now)
	return art
}
