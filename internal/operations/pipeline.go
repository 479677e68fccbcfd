package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rvolchart/internal/chart"
	"rvolchart/internal/config"
	"rvolchart/internal/dataprocessing"
	"rvolchart/internal/exporter"
	"rvolchart/internal/infrastructure"
	"rvolchart/internal/rolling"
)

// Pipeline runs its steps in order and stops at the first failure
type Pipeline struct {
	steps  []Step
	tracer *StageTracer
	logger *slog.Logger
}

// NewPipeline creates a pipeline over steps. tracer may be nil.
func NewPipeline(steps []Step, tracer *StageTracer, logger *slog.Logger) *Pipeline {
	if tracer == nil {
		tracer = NewStageTracer(nil, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{steps: steps, tracer: tracer, logger: logger}
}

// NewPipelineFromConfig wires the loader, transformer, renderer and the
// optional export and preview steps described by cfg. telemetry may be nil.
func NewPipelineFromConfig(cfg *config.Config, logger *slog.Logger, telemetry *infrastructure.Telemetry) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	window, err := rolling.FromConfig(cfg.Window)
	if err != nil {
		return nil, err
	}
	transformer, err := rolling.NewTransformer(window, logger)
	if err != nil {
		return nil, err
	}

	loader := dataprocessing.NewLoader(dataprocessing.LoadOptions{
		Sheet:       cfg.Input.Sheet,
		DateColumn:  cfg.Input.DateColumn,
		RatioColumn: cfg.Input.RatioColumn,
		PriceColumn: cfg.Input.PriceColumn,
	}, logger)

	steps := []Step{
		&LoadStep{Loader: loader, Path: cfg.Input.Path},
		&TransformStep{Transformer: transformer},
		&RenderStep{
			Options:    chart.OptionsFromConfig(cfg.Chart, cfg.ResolvedLayout(), window.Label()),
			OutputPath: cfg.Chart.OutputPath,
		},
	}
	if cfg.Export.CSVPath != "" {
		steps = append(steps, &ExportStep{
			Writer:  exporter.NewCSVWriter("", logger),
			Path:    cfg.Export.CSVPath,
			Options: exporter.ScoreOptions{BOMPrefix: cfg.Export.BOMPrefix},
		})
	}
	if cfg.Chart.Preview {
		steps = append(steps, &PreviewStep{Previewer: chart.NewPreviewer(logger)})
	}

	var tracer *StageTracer
	if telemetry != nil {
		tracer = NewStageTracer(telemetry.Tracer, telemetry.Metrics)
	}
	return NewPipeline(steps, tracer, logger), nil
}

// Steps returns the step IDs in execution order
func (p *Pipeline) Steps() []string {
	ids := make([]string, len(p.steps))
	for i, s := range p.steps {
		ids[i] = s.ID()
	}
	return ids
}

// Run executes every step. On failure the returned result holds the steps
// run so far and the error is an *OperationError.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)

	ctx, span := p.tracer.TraceRun(ctx, runID, len(p.steps))
	defer span.End()

	started := time.Now()
	state := &RunState{}
	result := &RunResult{RunID: runID}

	p.logger.InfoContext(ctx, "Pipeline started", slog.Int("steps", len(p.steps)))

	var runErr error
	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			runErr = NewCancellationError(step.ID(), err)
			break
		}

		p.logger.InfoContext(ctx, "Stage started",
			slog.String("stage", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(p.steps)))

		sr, err := p.executeStep(ctx, step, state)
		result.Steps = append(result.Steps, sr)
		if err != nil {
			runErr = err
			break
		}
	}

	result.Table = state.Table
	result.Scores = state.Scores
	result.Stats = state.Scores.Stats()
	result.ChartPath = state.ChartPath
	result.CSVPath = state.CSVPath
	result.Previewed = state.Previewed
	result.Duration = time.Since(started)

	p.tracer.RecordRun(ctx, runErr)
	if runErr != nil {
		infrastructure.RecordError(ctx, runErr)
		p.logger.ErrorContext(ctx, "Pipeline failed",
			slog.String("stage", StageOf(runErr)),
			slog.String("error", runErr.Error()),
			slog.Duration("duration", result.Duration))
		return result, runErr
	}

	p.logger.InfoContext(ctx, "Pipeline completed",
		slog.String("chart", result.ChartPath),
		slog.String("csv", result.CSVPath),
		slog.Duration("duration", result.Duration))
	return result, nil
}

func (p *Pipeline) executeStep(ctx context.Context, step Step, state *RunState) (StepResult, error) {
	stageCtx, span := p.tracer.TraceStage(ctx, step)

	started := time.Now()
	err := step.Execute(stageCtx, state)
	duration := time.Since(started)

	p.tracer.EndStage(stageCtx, span, step, duration, err)

	sr := StepResult{ID: step.ID(), Name: step.Name(), Status: StepStatusCompleted, Duration: duration}
	if err != nil {
		sr.Error = err.Error()
		if opt, ok := step.(OptionalStep); ok && opt.Optional() {
			sr.Status = StepStatusSkipped
			p.logger.WarnContext(ctx, "Optional stage failed",
				slog.String("stage", step.ID()),
				slog.String("error", err.Error()))
			return sr, nil
		}

		sr.Status = StepStatusFailed
		p.logger.ErrorContext(ctx, "Stage failed",
			slog.String("stage", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return sr, NewStageError(step.ID(), err)
	}

	p.recordOutputs(ctx, step, state)
	p.logger.InfoContext(ctx, "Stage completed",
		slog.String("stage", step.ID()),
		slog.Duration("duration", duration))
	return sr, nil
}

// recordOutputs records the metrics of a completed step
func (p *Pipeline) recordOutputs(ctx context.Context, step Step, state *RunState) {
	switch step.ID() {
	case StageIDLoad:
		p.tracer.RecordRows(ctx, state.Table.Len())
	case StageIDTransform:
		p.tracer.RecordScores(ctx, state.Scores.Stats())
	}
}

// String describes the pipeline for logs
func (p *Pipeline) String() string {
	return fmt.Sprintf("pipeline%v", p.Steps())
}
