package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"salescli/internal/infrastructure"
)

const (
	TracerName = "salescli.pipeline"
)

// OperationTracer provides OpenTelemetry instrumentation for a run
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer. A nil tracer uses the global
// provider; nil metrics records nothing.
func NewOperationTracer(tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *OperationTracer {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &OperationTracer{tracer: tracer, metrics: metrics}
}

// TraceRun creates a span for the whole run
func (ot *OperationTracer) TraceRun(ctx context.Context, runID, input string) (context.Context, trace.Span) {
	return ot.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.input", input),
		),
	)
}

// TraceStep creates a span for one step
func (ot *OperationTracer) TraceStep(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	return ot.tracer.Start(ctx, stepID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion ends a step span with its outcome and records the
// step duration metric
func (ot *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	span.SetAttributes(attribute.Float64("step.duration_seconds", duration.Seconds()))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	infrastructure.RecordStageMetrics(ctx, ot.metrics, stepID, duration, err == nil)
}

// RecordRunCompletion ends the run span and counts the run
func (ot *OperationTracer) RecordRunCompletion(ctx context.Context, span trace.Span, status OperationStatus) {
	span.SetAttributes(attribute.String("run.status", string(status)))
	if status == OperationStatusCompleted {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, fmt.Sprintf("run %s", status))
	}
	infrastructure.RecordRun(ctx, ot.metrics, status == OperationStatusCompleted)
}

// Add increments one of the pipeline counters by n
func (ot *OperationTracer) Add(ctx context.Context, counter func(*infrastructure.PipelineMetrics) metric.Int64Counter, n int, attrs ...attribute.KeyValue) {
	if ot.metrics == nil || n <= 0 {
		return
	}
	counter(ot.metrics).Add(ctx, int64(n), metric.WithAttributes(attrs...))
}
