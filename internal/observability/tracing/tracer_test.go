package tracing

import (
	"context"
	"errors"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg := ConfigFromEnv()
	if cfg.Enabled {
		t.Error("expected tracing disabled by default")
	}
	if cfg.ServiceName != "fastinfo-crawler" {
		t.Errorf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.SampleRatio != 1.0 {
		t.Errorf("unexpected sample ratio: %f", cfg.SampleRatio)
	}
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "custom")
	t.Setenv("OTEL_TRACE_SAMPLE_RATIO", "0.25")

	cfg := ConfigFromEnv()
	if !cfg.Enabled {
		t.Error("expected tracing enabled")
	}
	if cfg.ServiceName != "custom" {
		t.Errorf("unexpected service name: %q", cfg.ServiceName)
	}
	if cfg.SampleRatio != 0.25 {
		t.Errorf("unexpected sample ratio: %f", cfg.SampleRatio)
	}
}

func TestConfigFromEnv_InvalidRatioIgnored(t *testing.T) {
	t.Setenv("OTEL_TRACE_SAMPLE_RATIO", "nine")

	if cfg := ConfigFromEnv(); cfg.SampleRatio != 1.0 {
		t.Errorf("expected default ratio for invalid value, got %f", cfg.SampleRatio)
	}
}

func TestInitProvider_Disabled(t *testing.T) {
	shutdown, err := InitProvider(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("InitProvider failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("no-op shutdown returned error: %v", err)
	}
}

func TestSourceSpan_RecordsOutcome(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := provider.Tracer("test")

	_, span := tr.Start(context.Background(), "crawl.source")
	EndSourceSpan(span, 30, 12, 5, errors.New("partial failure"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected recorded error event on span")
	}
}
