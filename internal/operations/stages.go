package operations

import (
	"context"
	"fmt"

	"rvolchart/internal/chart"
	"rvolchart/internal/exporter"
)

// LoadStep reads the workbook at Path
type LoadStep struct {
	Loader TableLoader
	Path   string
}

func (s *LoadStep) ID() string   { return StageIDLoad }
func (s *LoadStep) Name() string { return StageNameLoad }

// Execute implements Step
func (s *LoadStep) Execute(ctx context.Context, state *RunState) error {
	table, err := s.Loader.Load(ctx, s.Path)
	if err != nil {
		return err
	}
	state.Table = table
	return nil
}

// TransformStep adds the z-score column
type TransformStep struct {
	Transformer ScoreTransformer
}

func (s *TransformStep) ID() string   { return StageIDTransform }
func (s *TransformStep) Name() string { return StageNameTransform }

// Execute implements Step
func (s *TransformStep) Execute(ctx context.Context, state *RunState) error {
	if state.Table == nil {
		return fmt.Errorf("no table loaded")
	}
	scores, err := s.Transformer.Transform(ctx, state.Table)
	if err != nil {
		return err
	}
	state.Scores = scores
	return nil
}

// RenderStep draws the figure and saves it to OutputPath
type RenderStep struct {
	Options    chart.Options
	OutputPath string
}

func (s *RenderStep) ID() string   { return StageIDRender }
func (s *RenderStep) Name() string { return StageNameRender }

// Execute implements Step
func (s *RenderStep) Execute(ctx context.Context, state *RunState) error {
	fig, err := chart.NewFigure(state.Table, state.Scores, s.Options)
	if err != nil {
		return err
	}
	if err := fig.Save(s.OutputPath); err != nil {
		return err
	}
	state.Figure = fig
	state.ChartPath = s.OutputPath
	return nil
}

// ExportStep writes the table and scores as CSV
type ExportStep struct {
	Writer  *exporter.CSVWriter
	Path    string
	Options exporter.ScoreOptions
}

func (s *ExportStep) ID() string   { return StageIDExport }
func (s *ExportStep) Name() string { return StageNameExport }

// Execute implements Step
func (s *ExportStep) Execute(ctx context.Context, state *RunState) error {
	path, err := s.Writer.WriteScores(ctx, s.Path, state.Table, state.Scores, s.Options)
	if err != nil {
		return err
	}
	state.CSVPath = path
	return nil
}

// PreviewStep opens the saved chart. It never fails the run.
type PreviewStep struct {
	Previewer ImagePreviewer
}

func (s *PreviewStep) ID() string     { return StageIDPreview }
func (s *PreviewStep) Name() string   { return StageNamePreview }
func (s *PreviewStep) Optional() bool { return true }

// Execute implements Step
func (s *PreviewStep) Execute(ctx context.Context, state *RunState) error {
	opened, err := s.Previewer.Open(ctx, state.ChartPath)
	state.Previewed = opened
	return err
}
