package operations

import (
	"time"

	"rvolchart/pkg/contracts/domain"
)

// Stage identifiers
const (
	StageIDLoad      = "load"
	StageIDTransform = "transform"
	StageIDRender    = "render"
	StageIDExport    = "export"
	StageIDPreview   = "preview"
)

// Stage names
const (
	StageNameLoad      = "Workbook Loading"
	StageNameTransform = "Z-Score Calculation"
	StageNameRender    = "Chart Rendering"
	StageNameExport    = "CSV Export"
	StageNamePreview   = "Chart Preview"
)

// StepStatus represents the outcome of a step
type StepStatus string

const (
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepResult records one executed step
type StepResult struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Status   StepStatus    `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// RunResult is everything a run produced
type RunResult struct {
	RunID     string             `json:"run_id"`
	Table     *domain.Table      `json:"-"`
	Scores    domain.ScoreSeries `json:"-"`
	Stats     domain.ScoreStats  `json:"stats"`
	ChartPath string             `json:"chart_path,omitempty"`
	CSVPath   string             `json:"csv_path,omitempty"`
	Previewed bool               `json:"previewed"`
	Steps     []StepResult       `json:"steps"`
	Duration  time.Duration      `json:"duration"`
}

// Step returns the result recorded for id
func (r *RunResult) Step(id string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.ID == id {
			return s, true
		}
	}
	return StepResult{}, false
}
