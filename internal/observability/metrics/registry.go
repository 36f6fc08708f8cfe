// Package metrics provides centralized Prometheus metrics for the crawler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Crawl metrics track run and per-source pipeline behavior
var (
	// CrawlRunsTotal counts crawl runs by final status
	CrawlRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawl_runs_total",
			Help: "Total number of crawl runs",
		},
		[]string{"status"}, // status: completed, failed
	)

	// CrawlRunDuration measures full run duration in seconds
	CrawlRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawl_run_duration_seconds",
			Help:    "Time taken for a full crawl run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	// SourceCrawlDuration measures per-source crawl duration
	SourceCrawlDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "source_crawl_duration_seconds",
			Help:    "Time taken to crawl a single source",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
		[]string{"source"},
	)

	// SourceCrawlErrors counts per-source crawl errors by type
	SourceCrawlErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_crawl_errors_total",
			Help: "Total number of source crawl errors",
		},
		[]string{"source", "error_type"},
	)

	// ArticlesFetchedTotal counts articles fetched per source
	ArticlesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_fetched_total",
			Help: "Total number of articles fetched from sources",
		},
		[]string{"source"},
	)

	// ArticlesInsertedTotal counts newly inserted articles per source
	ArticlesInsertedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_inserted_total",
			Help: "Total number of newly inserted articles",
		},
		[]string{"source"},
	)

	// ArticlesMergedTotal counts upserts that merged into existing rows
	ArticlesMergedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_merged_total",
			Help: "Total number of upserts that merged an existing article",
		},
		[]string{"source"},
	)

	// ArticlesDroppedTotal counts items dropped before persistence
	ArticlesDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "articles_dropped_total",
			Help: "Total number of fetched items dropped during transform or validation",
		},
		[]string{"source", "reason"},
	)

	// ArticlesDeletedTotal counts articles removed by retention cleanup
	ArticlesDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "articles_deleted_total",
			Help: "Total number of articles deleted by retention cleanup",
		},
	)

	// ArticlesTotal tracks total number of articles in database
	ArticlesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "articles_total",
			Help: "Total number of articles in the database",
		},
	)

	// SchedulerReloadsTotal counts schedule swaps picked up by the watcher
	SchedulerReloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduler_reloads_total",
			Help: "Total number of crawl schedule reloads",
		},
	)
)

// Upstream metrics track HTTP calls made by source adapters
var (
	// UpstreamRequestsTotal counts upstream HTTP requests by source and status
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream HTTP requests",
		},
		[]string{"source", "status"},
	)

	// UpstreamRequestDuration measures upstream HTTP request duration
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)
