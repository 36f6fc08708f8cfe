package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/settings.sql
var seedSettingsSQL string

func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    id            SERIAL PRIMARY KEY,
    title         TEXT NOT NULL,
    url           TEXT NOT NULL UNIQUE,
    summary       TEXT,
    source        VARCHAR(100) NOT NULL,
    category      VARCHAR(50) NOT NULL DEFAULT 'tech',
    tags          JSONB DEFAULT '[]',
    author        TEXT,
    published_at  TIMESTAMPTZ,
    likes         INTEGER NOT NULL DEFAULT 0,
    comments      INTEGER NOT NULL DEFAULT 0,
    views         INTEGER NOT NULL DEFAULT 0,
    quality_score INTEGER NOT NULL DEFAULT 0,
    hot_score     DOUBLE PRECISION NOT NULL DEFAULT 0,
    image_url     TEXT,
    metadata      JSONB,
    crawled_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS crawler_settings (
    key        VARCHAR(100) PRIMARY KEY,
    value      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS crawler_logs (
    id            SERIAL PRIMARY KEY,
    started_at    TIMESTAMPTZ NOT NULL,
    finished_at   TIMESTAMPTZ,
    duration_ms   BIGINT,
    total_count   INTEGER,
    new_count     INTEGER,
    source_stats  JSONB,
    status        VARCHAR(20) NOT NULL DEFAULT 'running',
    error_message TEXT
)`); err != nil {
		return err
	}

	indexes := []string{
		// feed queries sort by effective publish time
		`CREATE INDEX IF NOT EXISTS idx_articles_published_at ON articles(published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_source ON articles(source)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_category ON articles(category)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_hot_score ON articles(hot_score DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_crawler_logs_started_at ON crawler_logs(started_at DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Seed default settings (existing keys are skipped)
	if _, err := db.Exec(seedSettingsSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown rolls back the database schema.
// Use with caution: this will delete all crawler data.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP TABLE IF EXISTS crawler_logs`,
		`DROP TABLE IF EXISTS crawler_settings`,
		`DROP TABLE IF EXISTS articles`,
	}
	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
