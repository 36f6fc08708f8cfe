package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/repository"
)

// Settings keys in the crawler_settings key/value table.
const (
	SettingSchedule = "crawler_schedule"
	SettingSources  = "crawler_sources"
	SettingLimits   = "crawler_limits"
)

type SettingsRepo struct {
	db DB
}

func NewSettingsRepo(db DB) repository.SettingsRepository {
	return &SettingsRepo{db: db}
}

// Load assembles settings from the key/value table. A missing or
// malformed key logs a warning and keeps the default for that key,
// so a bad row never blocks crawling.
func (repo *SettingsRepo) Load(ctx context.Context) (*entity.CrawlerSettings, error) {
	settings := entity.DefaultSettings()

	var schedule string
	if err := repo.loadKey(ctx, SettingSchedule, &schedule); err == nil && schedule != "" {
		settings.Schedule = schedule
	} else if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return nil, err
	}

	var sources map[string]bool
	switch err := repo.loadKey(ctx, SettingSources, &sources); {
	case err == nil:
		settings.Sources = sources
	case !errors.Is(err, entity.ErrNotFound):
		return nil, err
	}

	var limits map[string]int
	switch err := repo.loadKey(ctx, SettingLimits, &limits); {
	case err == nil:
		settings.Limits = limits
	case !errors.Is(err, entity.ErrNotFound):
		return nil, err
	}

	return settings, nil
}

// loadKey reads one settings value and decodes its JSON payload.
// Malformed JSON is treated as absent.
func (repo *SettingsRepo) loadKey(ctx context.Context, key string, out any) error {
	const query = `SELECT value FROM crawler_settings WHERE key = $1`

	var raw []byte
	err := repo.db.QueryRowContext(ctx, query, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load setting %q: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		slog.Warn("malformed settings value, using default",
			slog.String("key", key),
			slog.Any("error", err))
		return entity.ErrNotFound
	}
	return nil
}

func (repo *SettingsRepo) Save(ctx context.Context, key string, value any) error {
	const query = `
INSERT INTO crawler_settings (key, value, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET
	value = EXCLUDED.value,
	updated_at = NOW()`

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("Save: marshal setting %q: %w", key, err)
	}
	if _, err := repo.db.ExecContext(ctx, query, key, raw); err != nil {
		return fmt.Errorf("Save: %w", err)
	}
	return nil
}
