// Package scheduler drives periodic crawl runs from a cron expression
// stored in crawler settings. The expression is re-polled on a fixed
// interval so schedule changes made through the administrative surface
// take effect without a restart.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/observability/metrics"
	"fastinfo/internal/repository"
	"fastinfo/internal/usecase/crawl"
)

const (
	// DefaultPollInterval is how often stored settings are re-read
	// for schedule changes.
	DefaultPollInterval = 60 * time.Second

	// retentionSchedule runs the housekeeping job daily, off-peak.
	retentionSchedule = "0 3 * * *"

	// DefaultRetention is how long articles are kept, measured
	// against their effective publish time.
	DefaultRetention = 48 * time.Hour
)

// Runner is the crawl surface the scheduler drives.
type Runner interface {
	Run(ctx context.Context) (*crawl.RunStats, error)
	CleanupOldArticles(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Config tunes the scheduler.
type Config struct {
	// PollInterval overrides DefaultPollInterval when positive.
	PollInterval time.Duration
	// Retention overrides DefaultRetention when positive.
	Retention time.Duration
	// CrawlTimeout bounds one crawl run. Zero means no timeout.
	CrawlTimeout time.Duration
	// Location is the timezone cron expressions evaluate in.
	// Nil means UTC.
	Location *time.Location
	// FallbackSchedule is used when no valid schedule is stored.
	// Empty means entity.DefaultSchedule.
	FallbackSchedule string
}

// Scheduler owns the cron instance and the active crawl entry. The
// entry handle and its schedule string are guarded by mu; swaps happen
// only from the poll loop.
type Scheduler struct {
	runner   Runner
	settings repository.SettingsRepository
	cron     *cron.Cron
	cfg      Config

	mu         sync.Mutex
	entryID    cron.EntryID
	schedule   string
	generation int
}

// ValidateSpec reports whether spec is a valid five-field cron
// expression.
func ValidateSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	return nil
}

// New builds a Scheduler. The cron instance is created here but not
// started until Start.
func New(runner Runner, settings repository.SettingsRepository, cfg Config) *Scheduler {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	if cfg.FallbackSchedule == "" || ValidateSpec(cfg.FallbackSchedule) != nil {
		cfg.FallbackSchedule = entity.DefaultSchedule
	}
	return &Scheduler{
		runner:   runner,
		settings: settings,
		cron:     cron.New(cron.WithLocation(loc)),
		cfg:      cfg,
	}
}

// Start registers the crawl and retention entries and begins running
// them. It returns once the cron loop and the settings poll loop are
// up; both stop when ctx is canceled.
func (s *Scheduler) Start(ctx context.Context) error {
	schedule := s.loadSchedule(ctx)

	id, err := s.cron.AddFunc(schedule, func() { s.runCrawl(ctx) })
	if err != nil {
		return fmt.Errorf("register crawl job: %w", err)
	}
	s.mu.Lock()
	s.entryID = id
	s.schedule = schedule
	s.mu.Unlock()

	if _, err := s.cron.AddFunc(retentionSchedule, func() { s.runRetention(ctx) }); err != nil {
		return fmt.Errorf("register retention job: %w", err)
	}

	s.cron.Start()
	go s.pollLoop(ctx)

	slog.Info("scheduler started",
		slog.String("schedule", schedule),
		slog.String("retention_schedule", retentionSchedule),
		slog.Duration("poll_interval", s.cfg.PollInterval))
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("scheduler stopped")
}

// Schedule returns the currently active cron expression.
func (s *Scheduler) Schedule() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule
}

// Generation counts schedule swaps since start, for tests and
// diagnostics.
func (s *Scheduler) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// loadSchedule reads the stored cron expression, falling back to the
// configured fallback when the store is unreadable or the expression
// is invalid.
func (s *Scheduler) loadSchedule(ctx context.Context) string {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		slog.Warn("failed to load settings, using fallback schedule",
			slog.String("fallback", s.cfg.FallbackSchedule),
			slog.Any("error", err))
		return s.cfg.FallbackSchedule
	}
	if err := ValidateSpec(settings.Schedule); err != nil {
		slog.Warn("stored schedule is invalid, using fallback",
			slog.String("schedule", settings.Schedule),
			slog.String("fallback", s.cfg.FallbackSchedule),
			slog.Any("error", err))
		return s.cfg.FallbackSchedule
	}
	return settings.Schedule
}

// pollLoop re-reads settings on a fixed interval and swaps the crawl
// entry when the schedule changed.
func (s *Scheduler) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Reload(ctx)
		}
	}
}

// Reload applies a changed schedule. The new entry is registered
// before the old one is removed so a bad expression never leaves the
// scheduler without a crawl entry.
func (s *Scheduler) Reload(ctx context.Context) {
	schedule := s.loadSchedule(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if schedule == s.schedule {
		return
	}

	id, err := s.cron.AddFunc(schedule, func() { s.runCrawl(ctx) })
	if err != nil {
		slog.Error("failed to apply new schedule, keeping current",
			slog.String("schedule", schedule),
			slog.Any("error", err))
		return
	}
	s.cron.Remove(s.entryID)

	old := s.schedule
	s.entryID = id
	s.schedule = schedule
	s.generation++
	metrics.RecordScheduleReload()

	slog.Info("crawl schedule updated",
		slog.String("old", old),
		slog.String("new", schedule),
		slog.Int("generation", s.generation))
}

func (s *Scheduler) runCrawl(ctx context.Context) {
	runCtx := ctx
	var cancel context.CancelFunc
	if s.cfg.CrawlTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, s.cfg.CrawlTimeout)
		defer cancel()
	}
	if _, err := s.runner.Run(runCtx); err != nil {
		slog.Error("scheduled crawl failed", slog.Any("error", err))
	}
}

func (s *Scheduler) runRetention(ctx context.Context) {
	if _, err := s.runner.CleanupOldArticles(ctx, s.cfg.Retention); err != nil {
		slog.Error("retention cleanup failed", slog.Any("error", err))
	}
}
