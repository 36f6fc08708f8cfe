// Package worker holds the operational configuration, health surface
// and process metrics of the crawler worker. Domain behavior lives in
// the crawl use case and the scheduler; this package only wires them
// to the environment they run in.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/pkg/config"
)

// WorkerConfig holds the runtime configuration of the crawler worker.
//
// The cron schedule itself lives in the crawler_settings table and is
// hot-reloaded by the scheduler; Schedule here is only the fallback
// used when the store carries no valid expression yet.
//
// All fields have defaults and validation rules, and loading is
// fail-open: an invalid environment value falls back to the default
// with a warning instead of refusing to start.
type WorkerConfig struct {
	// Schedule is the fallback cron expression used until a valid
	// schedule is stored in crawler_settings.
	// Default: entity.DefaultSchedule ("0 * * * *")
	Schedule string

	// Timezone is the IANA timezone name cron expressions evaluate in.
	// Default: "UTC"
	Timezone string

	// CrawlTimeout bounds one full crawl round across all sources.
	// Range: 1m-2h. Default: 10 minutes.
	CrawlTimeout time.Duration

	// SettingsPollInterval is how often stored settings are re-read
	// for schedule changes. Range: 5s-1h. Default: 60 seconds.
	SettingsPollInterval time.Duration

	// RetentionWindow is how long articles are kept before the daily
	// housekeeping job removes them. Range: 1h-720h. Default: 48 hours.
	RetentionWindow time.Duration

	// RunImmediately triggers one crawl round at startup, before the
	// first scheduled fire. Default: false.
	RunImmediately bool

	// HealthPort serves the liveness/readiness endpoints.
	// Range: 1024-65535. Default: 9091.
	HealthPort int

	// MetricsPort serves the Prometheus /metrics endpoint.
	// Range: 1024-65535. Default: 9090.
	MetricsPort int
}

// DefaultConfig returns a WorkerConfig with production defaults:
// hourly crawls in UTC, a 10-minute round timeout and a 48-hour
// retention window.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		Schedule:             entity.DefaultSchedule,
		Timezone:             "UTC",
		CrawlTimeout:         10 * time.Minute,
		SettingsPollInterval: 60 * time.Second,
		RetentionWindow:      48 * time.Hour,
		RunImmediately:       false,
		HealthPort:           9091,
		MetricsPort:          9090,
	}
}

// Validate checks every field and returns all violations together, so
// an operator fixing configuration sees the full list at once.
func (c *WorkerConfig) Validate() error {
	var errs []error

	if err := config.ValidateCronSchedule(c.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateDuration(c.CrawlTimeout, 1*time.Minute, 2*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("crawl timeout: %w", err))
	}
	if err := config.ValidateDuration(c.SettingsPollInterval, 5*time.Second, 1*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("settings poll interval: %w", err))
	}
	if err := config.ValidateDuration(c.RetentionWindow, 1*time.Hour, 720*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("retention window: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if err := config.ValidateIntRange(c.MetricsPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("metrics port: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// Location resolves the configured timezone. Validate must have
// passed; an unloadable zone falls back to UTC.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv loads the worker configuration from environment
// variables with per-field validation and fallback to defaults.
//
// Environment variables:
//   - CRAWLER_SCHEDULE: fallback cron expression (default "0 * * * *")
//   - CRAWLER_TIMEZONE: IANA timezone name (default "UTC")
//   - CRAWLER_CRAWL_TIMEOUT: duration string, e.g. "10m"
//   - CRAWLER_SETTINGS_POLL_INTERVAL: duration string, e.g. "60s"
//   - CRAWLER_RETENTION_WINDOW: duration string, e.g. "48h"
//   - CRAWLER_RUN_IMMEDIATELY: boolean, crawl once at startup
//   - CRAWLER_HEALTH_PORT: integer 1024-65535
//   - CRAWLER_METRICS_PORT: integer 1024-65535
//
// Every fallback is logged and counted in the worker metrics. The
// returned error is always nil; the signature keeps the call site
// honest about the load being able to degrade.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fallbackApplied := false

	applyString := func(field, envKey string, dst *string, validator func(string) error) {
		result := config.LoadEnvWithFallback(envKey, *dst, validator)
		*dst = result.Value.(string)
		if result.FallbackApplied {
			fallbackApplied = true
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field, "default")
			for _, warning := range result.Warnings {
				logger.Warn("configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", warning))
			}
		}
	}

	applyDuration := func(field, envKey string, dst *time.Duration, min, max time.Duration) {
		result := config.LoadEnvDuration(envKey, *dst, func(d time.Duration) error {
			return config.ValidateDuration(d, min, max)
		})
		*dst = result.Value.(time.Duration)
		if result.FallbackApplied {
			fallbackApplied = true
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field, "default")
			for _, warning := range result.Warnings {
				logger.Warn("configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", warning))
			}
		}
	}

	applyInt := func(field, envKey string, dst *int, min, max int) {
		result := config.LoadEnvInt(envKey, *dst, func(v int) error {
			return config.ValidateIntRange(v, min, max)
		})
		*dst = result.Value.(int)
		if result.FallbackApplied {
			fallbackApplied = true
			metrics.RecordValidationError(field)
			metrics.RecordFallback(field, "default")
			for _, warning := range result.Warnings {
				logger.Warn("configuration fallback applied",
					slog.String("field", field),
					slog.String("warning", warning))
			}
		}
	}

	applyString("schedule", "CRAWLER_SCHEDULE", &cfg.Schedule, config.ValidateCronSchedule)
	applyString("timezone", "CRAWLER_TIMEZONE", &cfg.Timezone, config.ValidateTimezone)
	applyDuration("crawl_timeout", "CRAWLER_CRAWL_TIMEOUT", &cfg.CrawlTimeout, 1*time.Minute, 2*time.Hour)
	applyDuration("settings_poll_interval", "CRAWLER_SETTINGS_POLL_INTERVAL", &cfg.SettingsPollInterval, 5*time.Second, 1*time.Hour)
	applyDuration("retention_window", "CRAWLER_RETENTION_WINDOW", &cfg.RetentionWindow, 1*time.Hour, 720*time.Hour)
	applyInt("health_port", "CRAWLER_HEALTH_PORT", &cfg.HealthPort, 1024, 65535)
	applyInt("metrics_port", "CRAWLER_METRICS_PORT", &cfg.MetricsPort, 1024, 65535)

	runResult := config.LoadEnvBool("CRAWLER_RUN_IMMEDIATELY", cfg.RunImmediately)
	cfg.RunImmediately = runResult.Value.(bool)
	if runResult.FallbackApplied {
		fallbackApplied = true
		metrics.RecordValidationError("run_immediately")
		metrics.RecordFallback("run_immediately", "default")
		for _, warning := range runResult.Warnings {
			logger.Warn("configuration fallback applied",
				slog.String("field", "run_immediately"),
				slog.String("warning", warning))
		}
	}

	metrics.SetFallbackActive("", fallbackApplied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
