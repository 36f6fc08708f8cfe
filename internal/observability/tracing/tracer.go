// Package tracing provides OpenTelemetry tracing for crawl runs.
// Spans cover each run and each source crawl inside it, exported over
// OTLP/HTTP when an endpoint is configured.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the fastinfo application.
var tracer = otel.Tracer("fastinfo")

// GetTracer returns the global tracer for creating spans.
func GetTracer() trace.Tracer {
	return tracer
}

// StartRunSpan starts the span covering one full crawl run.
func StartRunSpan(ctx context.Context, runID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "crawl.run",
		trace.WithAttributes(attribute.String("crawl.run_id", runID)))
}

// StartSourceSpan starts a span covering one source's crawl within a run.
func StartSourceSpan(ctx context.Context, source string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "crawl.source",
		trace.WithAttributes(attribute.String("crawl.source", source)))
}

// EndSourceSpan finalizes a source span with its item counters. A
// non-nil err marks the span as failed.
func EndSourceSpan(span trace.Span, fetched, inserted, merged int, err error) {
	span.SetAttributes(
		attribute.Int("crawl.items_fetched", fetched),
		attribute.Int("crawl.items_inserted", inserted),
		attribute.Int("crawl.items_merged", merged),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
