package worker

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWorkerMetrics(t *testing.T) {
	// Shared instance: promauto registration panics on duplicates.
	m := testMetrics

	if m.ConfigMetrics == nil {
		t.Error("ConfigMetrics is nil")
	}
	if m.StartTimestamp == nil {
		t.Error("StartTimestamp is nil")
	}
	if m.Ready == nil {
		t.Error("Ready is nil")
	}
}

func TestWorkerMetrics_SetReady(t *testing.T) {
	m := testMetrics

	m.SetReady(true)
	if got := testutil.ToFloat64(m.Ready); got != 1 {
		t.Errorf("Ready after SetReady(true) = %f, want 1", got)
	}

	m.SetReady(false)
	if got := testutil.ToFloat64(m.Ready); got != 0 {
		t.Errorf("Ready after SetReady(false) = %f, want 0", got)
	}
}

func TestWorkerMetrics_RecordStart(t *testing.T) {
	m := testMetrics

	m.RecordStart()
	if got := testutil.ToFloat64(m.StartTimestamp); got <= 0 {
		t.Errorf("StartTimestamp = %f, want positive", got)
	}
}
