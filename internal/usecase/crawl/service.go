package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/observability/logging"
	"fastinfo/internal/observability/metrics"
	"fastinfo/internal/observability/tracing"
	"fastinfo/internal/repository"
	"fastinfo/internal/resilience/retry"

	"github.com/google/uuid"
)

const (
	// defaultSourceLimit caps items per source when settings carry no
	// explicit limit.
	defaultSourceLimit = 30

	// sourceParallelism bounds how many adapters crawl concurrently.
	sourceParallelism = 4
)

// Service runs crawl rounds across all registered source adapters.
type Service struct {
	adapters      []Adapter
	defaultLimits map[string]int
	articleRepo   repository.ArticleRepository
	runLogRepo    repository.RunLogRepository
	settings      repository.SettingsRepository
	retryCfg      retry.Config
	enricher      Enricher
}

// NewService creates a crawl Service over the given adapters.
// defaultLimits carries the registered per-source item limits; sources
// absent from it fall back to defaultSourceLimit.
func NewService(
	adapters []Adapter,
	defaultLimits map[string]int,
	articleRepo repository.ArticleRepository,
	runLogRepo repository.RunLogRepository,
	settings repository.SettingsRepository,
) *Service {
	return &Service{
		adapters:      adapters,
		defaultLimits: defaultLimits,
		articleRepo:   articleRepo,
		runLogRepo:    runLogRepo,
		settings:      settings,
		retryCfg:      retry.AdapterConfig(),
	}
}

// SetEnricher enables summary enrichment for sparse items. Nil (the
// default) disables it.
func (s *Service) SetEnricher(e Enricher) {
	s.enricher = e
}

// defaultLimit returns the registered default item limit for a source.
func (s *Service) defaultLimit(name string) int {
	if limit, ok := s.defaultLimits[name]; ok && limit > 0 {
		return limit
	}
	return defaultSourceLimit
}

// Run performs one full crawl round. Sources run concurrently with
// all-settled semantics: a failing source is recorded in its result
// and never aborts the others. The run log is finalized exactly once;
// the returned error reflects infrastructure failures only.
func (s *Service) Run(ctx context.Context) (*RunStats, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunIDContext(ctx, runID)
	logger := logging.WithRunID(ctx, slog.Default())
	ctx = logging.WithLogger(ctx, logger)
	ctx, runSpan := tracing.StartRunSpan(ctx, runID)
	defer runSpan.End()
	start := time.Now()

	settings, err := s.settings.Load(ctx)
	if err != nil {
		logger.Warn("failed to load crawler settings, using defaults",
			slog.Any("error", err))
		settings = entity.DefaultSettings()
	}

	// Run log writes are best-effort telemetry: the crawl proceeds even
	// when the log row cannot be created, and finalization is skipped.
	runLog := &entity.RunLog{StartedAt: start, Status: entity.RunStatusRunning}
	logID, err := s.runLogRepo.Start(ctx, runLog)
	if err != nil {
		logger.Warn("failed to start run log, continuing without one",
			slog.Any("error", err))
	} else {
		runLog.ID = logID
	}

	enabled := s.enabledAdapters(settings)
	logger.Info("crawl run started",
		slog.Int("sources", len(enabled)))

	stats := &RunStats{Results: make([]SourceResult, 0, len(enabled))}
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(sourceParallelism)

	for _, a := range enabled {
		adapter := a
		eg.Go(func() error {
			limit := settings.LimitFor(adapter.Name(), s.defaultLimit(adapter.Name()))
			res := s.crawlSource(egCtx, adapter, limit)
			mu.Lock()
			stats.Results = append(stats.Results, res)
			mu.Unlock()
			// Failures live in the result; never cancel siblings.
			return nil
		})
	}
	_ = eg.Wait()

	sort.Slice(stats.Results, func(i, j int) bool {
		return stats.Results[i].Source < stats.Results[j].Source
	})
	stats.Duration = time.Since(start)

	s.finalize(ctx, runLog, stats, logger)

	logger.Info("crawl run completed",
		slog.Int("total", stats.Total()),
		slog.Int("new", stats.NewCount()),
		slog.Int("failed_sources", len(stats.Failed())),
		slog.Duration("duration", stats.Duration))

	return stats, nil
}

// enabledAdapters filters the registry by the sources toggle map.
func (s *Service) enabledAdapters(settings *entity.CrawlerSettings) []Adapter {
	out := make([]Adapter, 0, len(s.adapters))
	for _, a := range s.adapters {
		if settings.SourceEnabled(a.Name()) {
			out = append(out, a)
		}
	}
	return out
}

// finalize writes the run outcome. A run counts as failed only when
// every source failed; partial failure is still a completed run. When
// no log row was created (ID zero) only metrics are recorded.
func (s *Service) finalize(ctx context.Context, runLog *entity.RunLog, stats *RunStats, logger *slog.Logger) {
	finished := time.Now()
	runLog.FinishedAt = &finished
	runLog.DurationMS = stats.Duration.Milliseconds()
	runLog.TotalCount = stats.Total()
	runLog.NewCount = stats.NewCount()
	runLog.SourceStats = make(map[string]entity.SourceStat, len(stats.Results))
	for _, r := range stats.Results {
		runLog.SourceStats[r.Source] = entity.SourceStat{
			Total: r.New + r.Merged,
			New:   r.New,
		}
	}

	// Finalization must survive a canceled run context.
	safeCtx := context.WithoutCancel(ctx)

	failed := stats.Failed()
	if len(failed) == len(stats.Results) && len(stats.Results) > 0 {
		runLog.Status = entity.RunStatusFailed
		runLog.ErrorMessage = fmt.Sprintf("all %d sources failed, first error: %v",
			len(failed), failed[0].Err)
		if runLog.ID != 0 {
			if err := s.runLogRepo.Fail(safeCtx, runLog); err != nil {
				logger.Error("failed to finalize run log", slog.Any("error", err))
			}
		}
		metrics.RecordCrawlRun("failed", stats.Duration)
		return
	}

	runLog.Status = entity.RunStatusCompleted
	if runLog.ID != 0 {
		if err := s.runLogRepo.Complete(safeCtx, runLog); err != nil {
			logger.Error("failed to finalize run log", slog.Any("error", err))
		}
	}
	metrics.RecordCrawlRun("completed", stats.Duration)
}

// CleanupOldArticles deletes articles older than maxAge, measured
// against their effective publish time.
func (s *Service) CleanupOldArticles(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	deleted, err := s.articleRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete articles older than %s: %w", cutoff.Format(time.RFC3339), err)
	}
	metrics.RecordRetentionCleanup(deleted)
	slog.Info("retention cleanup completed",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff))
	return deleted, nil
}
