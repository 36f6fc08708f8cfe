package repository

import (
	"context"

	"fastinfo/internal/domain/entity"
)

// SettingsRepository reads operator-editable crawler settings from the
// key/value settings table.
type SettingsRepository interface {
	// Load assembles the current settings. Missing or malformed keys
	// fall back to entity.DefaultSettings values rather than failing
	// the load.
	Load(ctx context.Context) (*entity.CrawlerSettings, error)
	// Save persists one settings key as JSON.
	Save(ctx context.Context, key string, value any) error
}
