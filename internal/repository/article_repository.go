package repository

import (
	"context"
	"time"

	"fastinfo/internal/domain/entity"
)

// UpsertResult reports what the store did with one candidate article.
type UpsertResult struct {
	ID       int64
	Inserted bool // false means an existing row was merged
}

type ArticleRepository interface {
	// Upsert writes the article keyed by URL. A fresh URL inserts a
	// row; a known URL merges into the existing row (newest title,
	// highest scores, earliest published_at, first non-null image).
	// Concurrent calls for the same URL converge without error.
	Upsert(ctx context.Context, article *entity.Article) (UpsertResult, error)
	Get(ctx context.Context, id int64) (*entity.Article, error)
	ExistsByURL(ctx context.Context, url string) (bool, error)
	// ListRecent returns articles ordered by published_at DESC,
	// capped at limit.
	ListRecent(ctx context.Context, limit int) ([]*entity.Article, error)
	// DeleteOlderThan removes articles whose effective publish time
	// is before cutoff. Returns the number of deleted rows.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
