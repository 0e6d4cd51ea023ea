package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"storefeatures/internal/infrastructure"
)

const (
	TracerName = "storefeatures.operation"
)

// OperationTracer provides OpenTelemetry instrumentation for operations
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer recording into the given providers
func NewOperationTracer(providers *infrastructure.OTelProviders, metrics *infrastructure.PipelineMetrics) *OperationTracer {
	tracer := trace.Tracer(noop.NewTracerProvider().Tracer(TracerName))
	if providers != nil && providers.TracerProvider != nil {
		tracer = providers.TracerProvider.Tracer(TracerName)
	}
	return &OperationTracer{tracer: tracer, metrics: metrics}
}

// NoopTracer returns a tracer that records nothing
func NoopTracer() *OperationTracer {
	return NewOperationTracer(nil, nil)
}

// TraceOperation creates a span for a whole operation run
func (pt *OperationTracer) TraceOperation(ctx context.Context, operationID string, stepCount int) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, "operation.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.Int("operation.step_count", stepCount),
		),
	)
}

// TraceStepExecution creates a span for individual Step execution
func (pt *OperationTracer) TraceStepExecution(ctx context.Context, operationID, stepID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, fmt.Sprintf("operation.step.%s", stepID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion closes out a step span with its outcome and records
// step metrics
func (pt *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, itemsProcessed int64, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	span.SetAttributes(
		attribute.String("step.status", status),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
		attribute.Int64("step.items_processed", itemsProcessed),
	)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "step completed")
	}

	if pt.metrics == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("step_id", stepID),
		attribute.String("status", status),
	)
	pt.metrics.StepsTotal.Add(ctx, 1, attrs)
	pt.metrics.StepDuration.Record(ctx, duration.Seconds(), attrs)
	if err != nil {
		pt.metrics.StepErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("step_id", stepID),
			attribute.String("error.type", string(GetErrorType(err))),
		))
	}
}

// RecordOperationCompletion closes out an operation span
func (pt *OperationTracer) RecordOperationCompletion(span trace.Span, state *OperationState) {
	span.SetAttributes(
		attribute.String("operation.status", string(state.Status)),
		attribute.Float64("operation.duration_seconds", state.Duration().Seconds()),
	)
	if state.Error != nil {
		span.RecordError(state.Error)
		span.SetStatus(codes.Error, state.Error.Error())
		return
	}
	span.SetStatus(codes.Ok, "operation completed")
}
