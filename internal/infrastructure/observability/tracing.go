package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "jan-server/testimonial-api"
)

// GetTracer returns the tracer for the testimonial service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartLifecycleSpan starts a span for a testimonial lifecycle operation.
func StartLifecycleSpan(ctx context.Context, operation, testimonialID string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "testimonial."+operation,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("testimonial.id", testimonialID)),
	)
}

// StartStorageSpan starts a span for a single asset store call.
func StartStorageSpan(ctx context.Context, backend, operation, key string) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "asset_store."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("asset_store.backend", backend),
			attribute.String("asset_store.key", key),
		),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddCleanupEvent marks a best-effort asset deletion on the span.
func AddCleanupEvent(span trace.Span, reason, key string, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("cleanup.reason", reason),
		attribute.String("cleanup.key", key),
		attribute.Bool("cleanup.ok", err == nil),
	}
	if err != nil {
		attrs = append(attrs, attribute.String("cleanup.error", err.Error()))
	}
	span.AddEvent("asset.cleanup", trace.WithAttributes(attrs...))
}
