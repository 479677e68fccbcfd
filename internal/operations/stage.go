package operations

import (
	"context"

	"rvolchart/internal/chart"
	"rvolchart/pkg/contracts/domain"
)

// Step is a single stage of the pipeline
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Execute runs the step, reading and extending state
	Execute(ctx context.Context, state *RunState) error
}

// OptionalStep is a step whose failure is logged and does not stop the run
type OptionalStep interface {
	Step
	Optional() bool
}

// RunState carries stage outputs to later stages
type RunState struct {
	Table     *domain.Table
	Scores    domain.ScoreSeries
	Figure    *chart.Figure
	ChartPath string
	CSVPath   string
	Previewed bool
}

// TableLoader reads the study workbook
type TableLoader interface {
	Load(ctx context.Context, path string) (*domain.Table, error)
}

// ScoreTransformer computes the z-score column
type ScoreTransformer interface {
	Transform(ctx context.Context, table *domain.Table) (domain.ScoreSeries, error)
}

// ImagePreviewer shows a saved chart
type ImagePreviewer interface {
	Open(ctx context.Context, path string) (bool, error)
}
