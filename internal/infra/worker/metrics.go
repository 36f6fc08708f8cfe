package worker

import (
	"fastinfo/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics exposes process-level metrics for the crawler worker:
// the shared configuration metrics plus start time and readiness.
// Crawl outcomes themselves are recorded by the business metrics in
// internal/observability/metrics; nothing here duplicates those.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// StartTimestamp is the Unix time the worker process came up.
	StartTimestamp prometheus.Gauge

	// Ready mirrors the readiness probe: 1 once initialization is
	// complete and the scheduler is running, 0 otherwise.
	Ready prometheus.Gauge
}

// NewWorkerMetrics creates the worker metrics. Registration happens
// through promauto against the default registry, so this must be
// called at most once per process.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("crawler"),

		StartTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "crawler_worker_start_timestamp",
			Help: "Unix timestamp at which the crawler worker started",
		}),

		Ready: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "crawler_worker_ready",
			Help: "1 when the worker is initialized and scheduling crawls, 0 otherwise",
		}),
	}
}

// RecordStart marks the process start time.
func (m *WorkerMetrics) RecordStart() {
	m.StartTimestamp.SetToCurrentTime()
}

// SetReady publishes the readiness state alongside the health probe.
func (m *WorkerMetrics) SetReady(ready bool) {
	if ready {
		m.Ready.Set(1)
	} else {
		m.Ready.Set(0)
	}
}
