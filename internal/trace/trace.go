// Package trace wires optional OpenTelemetry span instrumentation around
// the Preparer (one span per Prepare call, one per classification chunk);
// the producers are not instrumented. Grounded in the teacher's
// declared (if previously unused) otel/otlptracegrpc dependency and in
// the tracing manager shape of
// _examples/mdzesseis-log_capturer_go/pkg/tracing/tracing.go, trimmed
// to a single gRPC exporter and no HTTP middleware -- this tool has no
// HTTP surface to instrument.
package trace

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// ServiceName is the resource attribute reported to the collector.
const ServiceName = "nbuild"

// Provider owns the tracer provider's lifecycle. A zero Provider (no
// Setup call) yields a no-op tracer via otel's global default, so every
// caller can unconditionally use Provider.Tracer() whether or not
// tracing was configured.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// Setup dials endpoint over gRPC and installs a batching span processor
// as the global tracer provider. Returns a no-op Provider, not an error,
// when endpoint is empty -- tracing is opt-in (spec.md non-goals keep
// observability out of the default run path).
func Setup(ctx context.Context, endpoint string) (*Provider, error) {
	if endpoint == "" {
		return &Provider{}, nil
	}

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("trace: failed to dial collector %s: %w", endpoint, err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("trace: failed to build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(2*time.Second)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return &Provider{tp: tp}, nil
}

// Tracer returns the nbuild tracer, installed globally if Setup dialed a
// collector, or a no-op tracer otherwise.
func (p *Provider) Tracer() oteltrace.Tracer {
	return otel.Tracer(ServiceName)
}

// Shutdown flushes and closes the exporter. Safe to call on a no-op
// Provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tp == nil {
		return nil
	}
	return p.tp.Shutdown(ctx)
}

// StartPrepare starts the nbuild.prepare span wrapping one
// Preparer.Prepare call.
func StartPrepare(ctx context.Context, tracer oteltrace.Tracer, unpreparedCount int) (context.Context, oteltrace.Span) {
	ctx, span := tracer.Start(ctx, "nbuild.prepare")
	span.SetAttributes(attribute.Int("nbuild.unprepared_count", unpreparedCount))
	return ctx, span
}

// StartPrepareChunk starts the nbuild.prepare.chunk span wrapping one
// classification worker.
func StartPrepareChunk(ctx context.Context, tracer oteltrace.Tracer, chunkIndex, chunkSize int) (context.Context, oteltrace.Span) {
	ctx, span := tracer.Start(ctx, "nbuild.prepare.chunk")
	span.SetAttributes(
		attribute.Int("nbuild.chunk_index", chunkIndex),
		attribute.Int("nbuild.chunk_size", chunkSize),
	)
	return ctx, span
}

// End finalizes span, recording err if non-nil.
func End(span oteltrace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
