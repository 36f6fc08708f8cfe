package metrics

import (
	"strconv"
	"time"
)

// RecordCrawlRun records a completed or failed crawl run.
func RecordCrawlRun(status string, duration time.Duration) {
	CrawlRunsTotal.WithLabelValues(status).Inc()
	CrawlRunDuration.Observe(duration.Seconds())
}

// RecordSourceCrawl records metrics for one source's crawl within a run.
func RecordSourceCrawl(source string, duration time.Duration, fetched, inserted, merged int) {
	SourceCrawlDuration.WithLabelValues(source).Observe(duration.Seconds())
	if fetched > 0 {
		ArticlesFetchedTotal.WithLabelValues(source).Add(float64(fetched))
	}
	if inserted > 0 {
		ArticlesInsertedTotal.WithLabelValues(source).Add(float64(inserted))
	}
	if merged > 0 {
		ArticlesMergedTotal.WithLabelValues(source).Add(float64(merged))
	}
}

// RecordSourceCrawlError records an error during a source crawl.
// errorType should be a stable label such as "fetch_failed" or "save_failed".
func RecordSourceCrawlError(source, errorType string) {
	SourceCrawlErrors.WithLabelValues(source, errorType).Inc()
}

// RecordArticleDropped records an item discarded before persistence.
func RecordArticleDropped(source, reason string) {
	ArticlesDroppedTotal.WithLabelValues(source, reason).Inc()
}

// RecordRetentionCleanup records articles removed by the retention job.
func RecordRetentionCleanup(deleted int64) {
	ArticlesDeletedTotal.Add(float64(deleted))
}

// RecordScheduleReload records a crawl schedule swap.
func RecordScheduleReload() {
	SchedulerReloadsTotal.Inc()
}

// UpdateArticlesTotal updates the article count gauge.
// This should be refreshed periodically to reflect the current state.
func UpdateArticlesTotal(count int64) {
	ArticlesTotal.Set(float64(count))
}

// RecordUpstreamRequest records one upstream HTTP call made by an adapter.
func RecordUpstreamRequest(source string, statusCode int, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(source, strconv.Itoa(statusCode)).Inc()
	UpstreamRequestDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "upsert_article", "load_settings").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
