package operations

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"rvolchart/internal/infrastructure"
	"rvolchart/pkg/contracts/domain"
)

// TracerName is the instrumentation scope of pipeline spans
const TracerName = "rvolchart.operations"

// StageTracer wraps pipeline steps in spans and records their metrics.
// A nil tracer or metrics is replaced by a no-op.
type StageTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewStageTracer creates a StageTracer
func NewStageTracer(tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *StageTracer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	return &StageTracer{tracer: tracer, metrics: metrics}
}

// TraceRun starts the span covering a whole run
func (st *StageTracer) TraceRun(ctx context.Context, runID string, steps int) (context.Context, trace.Span) {
	return st.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.steps", steps),
		),
	)
}

// TraceStage starts the span of one step
func (st *StageTracer) TraceStage(ctx context.Context, step Step) (context.Context, trace.Span) {
	return st.tracer.Start(ctx, "pipeline.stage."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("stage.id", step.ID()),
			attribute.String("stage.name", step.Name()),
		),
	)
}

// EndStage records the outcome and duration of a step and ends its span
func (st *StageTracer) EndStage(ctx context.Context, span trace.Span, step Step, duration time.Duration, err error) {
	span.SetAttributes(attribute.Float64("stage.duration_seconds", duration.Seconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()

	st.metrics.RecordStage(ctx, step.ID(), duration, err)
}

// RecordRows records the number of loaded observations
func (st *StageTracer) RecordRows(ctx context.Context, rows int) {
	if st.metrics == nil {
		return
	}
	st.metrics.RowsLoaded.Add(ctx, int64(rows))
}

// RecordScores records score counts by kind
func (st *StageTracer) RecordScores(ctx context.Context, stats domain.ScoreStats) {
	if st.metrics == nil {
		return
	}
	for kind, n := range map[string]int{"valid": stats.Valid, "null": stats.Null, "non_finite": stats.NonFinite} {
		st.metrics.Scores.Add(ctx, int64(n), metric.WithAttributes(attribute.String("kind", kind)))
	}
}

// RecordRun counts a finished run by status
func (st *StageTracer) RecordRun(ctx context.Context, err error) {
	if st.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	st.metrics.Runs.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
