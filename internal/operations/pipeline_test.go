package operations

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"rvolchart/internal/config"
	apperrors "rvolchart/internal/errors"
	"rvolchart/internal/infrastructure"
	"rvolchart/internal/shared/testutil"
)

var start = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// testConfig returns a config reading a generated workbook of n daily rows
// and writing into a temp directory
func testConfig(t *testing.T, n int) (*config.Config, string) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Input.Path = testutil.WriteStudyWorkbook(t, dir, testutil.DailyRows(start, testutil.Ramp(n, 0.6, 0.004), nil))
	cfg.Chart.OutputPath = filepath.Join(dir, "out", "dynamic_graph_with_zscore.png")
	cfg.Chart.DPI = 40
	cfg.Chart.Preview = false
	cfg.Export.CSVPath = filepath.Join(dir, "out", "zscore.csv")
	return cfg, dir
}

func TestPipeline_Run(t *testing.T) {
	cfg, _ := testConfig(t, 150)
	logger, handler := testutil.NewTestLogger(t)

	p, err := NewPipelineFromConfig(cfg, logger, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{StageIDLoad, StageIDTransform, StageIDRender, StageIDExport}, p.Steps())

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 150, result.Table.Len())
	assert.Len(t, result.Scores, 150)
	assert.Equal(t, 59, result.Stats.Null)
	assert.Equal(t, 91, result.Stats.Valid)
	assert.Equal(t, cfg.Chart.OutputPath, result.ChartPath)
	assert.Equal(t, cfg.Export.CSVPath, result.CSVPath)
	assert.False(t, result.Previewed)

	require.Len(t, result.Steps, 4)
	for _, s := range result.Steps {
		assert.Equal(t, StepStatusCompleted, s.Status, s.ID)
	}

	assert.FileExists(t, cfg.Chart.OutputPath)
	assert.FileExists(t, cfg.Export.CSVPath)

	testutil.AssertNoErrors(t, handler)
	assert.True(t, handler.ContainsMessage("Pipeline completed"))
}

func TestPipeline_SingleRow(t *testing.T) {
	cfg, _ := testConfig(t, 1)

	p, err := NewPipelineFromConfig(cfg, nil, nil)
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Null)
	assert.FileExists(t, cfg.Chart.OutputPath)
	assert.FileExists(t, cfg.Export.CSVPath)
}

func TestPipeline_MissingPriceColumnWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Input.Path = testutil.WriteWorkbook(t, dir, "rvol.study.xlsx",
		[]string{"Date", "gex/rvol20"},
		[][]any{{start, 1.0}, {start.AddDate(0, 0, 1), 2.0}})
	cfg.Chart.OutputPath = filepath.Join(dir, "chart.png")
	cfg.Chart.Preview = false
	cfg.Export.CSVPath = filepath.Join(dir, "zscore.csv")

	p, err := NewPipelineFromConfig(cfg, nil, nil)
	require.NoError(t, err)

	result, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrMissingColumn)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, StageIDLoad, opErr.Stage)
	assert.Equal(t, ErrorTypeNotFound, opErr.Type)
	assert.Contains(t, err.Error(), "SPX Close price")

	require.Len(t, result.Steps, 1)
	assert.Equal(t, StepStatusFailed, result.Steps[0].Status)

	assert.NoFileExists(t, cfg.Chart.OutputPath)
	assert.NoFileExists(t, cfg.Export.CSVPath)
}

func TestPipeline_DeterministicExport(t *testing.T) {
	cfg, dir := testConfig(t, 90)
	cfg.Window.Mode = config.WindowModeTime

	var outputs [][]byte
	for i := 0; i < 2; i++ {
		cfg.Export.CSVPath = filepath.Join(dir, "run", string(rune('a'+i))+".csv")
		p, err := NewPipelineFromConfig(cfg, nil, nil)
		require.NoError(t, err)
		_, err = p.Run(context.Background())
		require.NoError(t, err)

		data, err := os.ReadFile(cfg.Export.CSVPath)
		require.NoError(t, err)
		outputs = append(outputs, data)
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestNewPipelineFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Export.CSVPath = ""
	cfg.Chart.Preview = true

	p, err := NewPipelineFromConfig(cfg, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{StageIDLoad, StageIDTransform, StageIDRender, StageIDPreview}, p.Steps())

	cfg.Window.Size = 1
	_, err = NewPipelineFromConfig(cfg, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidWindow)
}

// fakeStep records its execution into a shared log
type fakeStep struct {
	id       string
	err      error
	optional bool
	log      *[]string
}

func (s *fakeStep) ID() string     { return s.id }
func (s *fakeStep) Name() string   { return "fake " + s.id }
func (s *fakeStep) Optional() bool { return s.optional }
func (s *fakeStep) Execute(_ context.Context, _ *RunState) error {
	*s.log = append(*s.log, s.id)
	return s.err
}

func TestPipeline_StopsAtFirstFailure(t *testing.T) {
	var ran []string
	boom := errors.New("boom")
	p := NewPipeline([]Step{
		&fakeStep{id: "a", log: &ran},
		&fakeStep{id: "b", err: boom, log: &ran},
		&fakeStep{id: "c", log: &ran},
	}, nil, nil)

	result, err := p.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "b", StageOf(err))
	assert.Equal(t, []string{"a", "b"}, ran)
	require.Len(t, result.Steps, 2)
	assert.Equal(t, "boom", result.Steps[1].Error)
}

func TestPipeline_OptionalStepFailureContinues(t *testing.T) {
	var ran []string
	p := NewPipeline([]Step{
		&fakeStep{id: "a", log: &ran},
		&fakeStep{id: "preview", err: errors.New("no viewer"), optional: true, log: &ran},
		&fakeStep{id: "c", log: &ran},
	}, nil, nil)

	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "preview", "c"}, ran)

	sr, ok := result.Step("preview")
	require.True(t, ok)
	assert.Equal(t, StepStatusSkipped, sr.Status)
	assert.Equal(t, "no viewer", sr.Error)
}

func TestPipeline_Cancelled(t *testing.T) {
	var ran []string
	p := NewPipeline([]Step{&fakeStep{id: "a", log: &ran}}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, ErrorTypeCancellation, opErr.Type)
	assert.Empty(t, ran)
}

func TestPipeline_KeepsRunID(t *testing.T) {
	var ran []string
	p := NewPipeline([]Step{&fakeStep{id: "a", log: &ran}}, nil, nil)

	ctx := infrastructure.WithRunID(context.Background(), "run-123")
	result, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-123", result.RunID)
}

func TestPipeline_Telemetry(t *testing.T) {
	cfg, dir := testConfig(t, 70)
	metricsFile := filepath.Join(dir, "metrics.prom")

	tel, err := infrastructure.InitializeTelemetry(config.TelemetryConfig{
		ServiceName:   "rvolchart-test",
		TraceExporter: "none",
		MetricsFile:   metricsFile,
	}, testutil.NewSilentLogger())
	require.NoError(t, err)

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tel.Tracer = tp.Tracer(TracerName)

	p, err := NewPipelineFromConfig(cfg, nil, tel)
	require.NoError(t, err)
	_, err = p.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, tel.Shutdown(context.Background()))

	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	assert.ElementsMatch(t, []string{
		"pipeline.stage.load",
		"pipeline.stage.transform",
		"pipeline.stage.render",
		"pipeline.stage.export",
		"pipeline.run",
	}, names)

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "rvolchart_rows_loaded")
	assert.Contains(t, text, `kind="null"`)
	assert.Contains(t, text, `stage="render"`)
	assert.Contains(t, text, `status="success"`)
}
