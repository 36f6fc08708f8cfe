package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fastinfo/internal/domain/entity"
	"fastinfo/internal/observability/metrics"
	"fastinfo/internal/repository"
)

// DB is the query surface the repositories need. Both *sql.DB and the
// circuit breaker wrapper satisfy it.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

type ArticleRepo struct {
	db DB
}

func NewArticleRepo(db DB) repository.ArticleRepository {
	return &ArticleRepo{db: db}
}

const articleColumns = `id, title, url, summary, source, category, tags, author,
published_at, likes, comments, views, quality_score, hot_score, image_url,
metadata, crawled_at, created_at`

// Upsert inserts or merges the article keyed by url in one statement.
// xmax = 0 only holds for freshly inserted rows, which distinguishes
// insert from merge without a racy pre-select.
func (repo *ArticleRepo) Upsert(ctx context.Context, article *entity.Article) (repository.UpsertResult, error) {
	const query = `
INSERT INTO articles (title, url, summary, source, category, tags, author,
	published_at, likes, comments, views, quality_score, hot_score, image_url,
	metadata, crawled_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (url) DO UPDATE SET
	title = EXCLUDED.title,
	hot_score = GREATEST(articles.hot_score, EXCLUDED.hot_score),
	quality_score = GREATEST(articles.quality_score, EXCLUDED.quality_score),
	likes = GREATEST(articles.likes, EXCLUDED.likes),
	comments = GREATEST(articles.comments, EXCLUDED.comments),
	views = GREATEST(articles.views, EXCLUDED.views),
	published_at = LEAST(articles.published_at, EXCLUDED.published_at),
	image_url = COALESCE(articles.image_url, EXCLUDED.image_url),
	crawled_at = EXCLUDED.crawled_at
RETURNING id, (xmax = 0) AS inserted`

	tags, err := json.Marshal(article.Tags)
	if err != nil {
		return repository.UpsertResult{}, fmt.Errorf("Upsert: marshal tags: %w", err)
	}
	var meta []byte
	if article.Metadata != nil {
		meta, err = json.Marshal(article.Metadata)
		if err != nil {
			return repository.UpsertResult{}, fmt.Errorf("Upsert: marshal metadata: %w", err)
		}
	}

	start := time.Now()
	var result repository.UpsertResult
	err = repo.db.QueryRowContext(ctx, query,
		article.Title,
		article.URL,
		nullString(article.Summary),
		article.Source,
		string(article.Category),
		tags,
		nullString(article.Author),
		article.PublishedAt,
		article.Likes,
		article.Comments,
		article.Views,
		article.QualityScore,
		article.HotScore,
		nullString(article.ImageURL),
		meta,
		article.CrawledAt,
	).Scan(&result.ID, &result.Inserted)
	metrics.RecordDBQuery("upsert_article", time.Since(start))
	if err != nil {
		return repository.UpsertResult{}, fmt.Errorf("Upsert: %w", err)
	}
	return result, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE id = $1`, articleColumns)
	row := repo.db.QueryRowContext(ctx, query, id)
	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) ExistsByURL(ctx context.Context, url string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM articles WHERE url = $1)`
	var exists bool
	if err := repo.db.QueryRowContext(ctx, query, url).Scan(&exists); err != nil {
		return false, fmt.Errorf("ExistsByURL: %w", err)
	}
	return exists, nil
}

func (repo *ArticleRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Article, error) {
	query := fmt.Sprintf(`
SELECT %s FROM articles
ORDER BY COALESCE(published_at, crawled_at) DESC
LIMIT $1`, articleColumns)

	rows, err := repo.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, limit)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("ListRecent: %w", err)
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (repo *ArticleRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM articles WHERE COALESCE(published_at, crawled_at) < $1`

	start := time.Now()
	res, err := repo.db.ExecContext(ctx, query, cutoff)
	metrics.RecordDBQuery("delete_old_articles", time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteOlderThan: RowsAffected: %w", err)
	}
	return deleted, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanArticle(s scanner) (*entity.Article, error) {
	var (
		article  entity.Article
		summary  sql.NullString
		category string
		tags     []byte
		author   sql.NullString
		imageURL sql.NullString
		meta     []byte
	)
	if err := s.Scan(
		&article.ID, &article.Title, &article.URL, &summary, &article.Source,
		&category, &tags, &author, &article.PublishedAt,
		&article.Likes, &article.Comments, &article.Views,
		&article.QualityScore, &article.HotScore, &imageURL,
		&meta, &article.CrawledAt, &article.CreatedAt,
	); err != nil {
		return nil, err
	}
	article.Summary = summary.String
	article.Category = entity.Category(category)
	article.Author = author.String
	article.ImageURL = imageURL.String
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &article.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &article.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &article, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
