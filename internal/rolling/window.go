package rolling

import (
	"fmt"
	"math"
	"time"

	"rvolchart/internal/config"
	apperrors "rvolchart/internal/errors"
	"rvolchart/pkg/contracts/domain"
)

// Window scores every row of a table sorted ascending by date
type Window interface {
	// Scores returns one score per row, aligned with table.Rows
	Scores(table *domain.Table) domain.ScoreSeries
	// Validate reports parameters that cannot produce a score
	Validate() error
	// Label describes the span for chart legends, e.g. "60-day"
	Label() string
	String() string
}

// CountWindow is a trailing window of Size rows
type CountWindow struct {
	Size int
	DDOF int
}

// Label implements Window
func (w CountWindow) Label() string {
	return fmt.Sprintf("%d-day", w.Size)
}

func (w CountWindow) String() string {
	return fmt.Sprintf("count(size=%d,ddof=%d)", w.Size, w.DDOF)
}

// Validate implements Window
func (w CountWindow) Validate() error {
	if w.Size < 2 {
		return fmt.Errorf("%w: size must be at least 2, got %d", apperrors.ErrInvalidWindow, w.Size)
	}
	if w.DDOF < 0 || w.DDOF >= w.Size {
		return fmt.Errorf("%w: ddof %d out of range for size %d", apperrors.ErrInvalidWindow, w.DDOF, w.Size)
	}
	return nil
}

// Scores implements Window. Any missing value inside the window makes the
// score null.
func (w CountWindow) Scores(table *domain.Table) domain.ScoreSeries {
	ratios := table.Ratios()
	scores := make(domain.ScoreSeries, len(ratios))

	// present counts the non-NaN values in ratios[i-Size+1 : i+1]
	present := 0
	for i, x := range ratios {
		if !math.IsNaN(x) {
			present++
		}
		if i >= w.Size && !math.IsNaN(ratios[i-w.Size]) {
			present--
		}

		if i+1 < w.Size || present < w.Size {
			scores[i] = domain.NullScore
			continue
		}
		scores[i] = domain.Score{Value: zscore(x, ratios[i+1-w.Size:i+1], w.DDOF), Valid: true}
	}
	return scores
}

// TimeWindow holds the rows dated within (t - Days, t]
type TimeWindow struct {
	Days       int
	MinPeriods int
	DDOF       int
}

// Label implements Window
func (w TimeWindow) Label() string {
	return fmt.Sprintf("%d-day", w.Days)
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("time(days=%d,min_periods=%d,ddof=%d)", w.Days, w.MinPeriods, w.DDOF)
}

// Validate implements Window
func (w TimeWindow) Validate() error {
	if w.Days < 1 {
		return fmt.Errorf("%w: days must be positive, got %d", apperrors.ErrInvalidWindow, w.Days)
	}
	if w.MinPeriods < 1 {
		return fmt.Errorf("%w: min periods must be positive, got %d", apperrors.ErrInvalidWindow, w.MinPeriods)
	}
	if w.DDOF < 0 || w.DDOF > 1 {
		return fmt.Errorf("%w: ddof must be 0 or 1, got %d", apperrors.ErrInvalidWindow, w.DDOF)
	}
	return nil
}

// Scores implements Window. Missing values are skipped when counting
// samples; a missing current value makes the score null.
func (w TimeWindow) Scores(table *domain.Table) domain.ScoreSeries {
	span := time.Duration(w.Days) * 24 * time.Hour
	scores := make(domain.ScoreSeries, table.Len())
	samples := make([]float64, 0, w.Days)

	left := 0
	for i, row := range table.Rows {
		cutoff := row.Date.Add(-span)
		for !table.Rows[left].Date.After(cutoff) {
			left++
		}

		if !row.HasRatio() {
			scores[i] = domain.NullScore
			continue
		}

		samples = samples[:0]
		for _, r := range table.Rows[left : i+1] {
			if r.HasRatio() {
				samples = append(samples, r.Ratio)
			}
		}
		if len(samples) < w.MinPeriods {
			scores[i] = domain.NullScore
			continue
		}
		scores[i] = domain.Score{Value: zscore(row.Ratio, samples, w.DDOF), Valid: true}
	}
	return scores
}

// FromConfig builds the window selected by cfg
func FromConfig(cfg config.WindowConfig) (Window, error) {
	var w Window
	switch cfg.Mode {
	case config.WindowModeCount:
		w = CountWindow{Size: cfg.Size, DDOF: cfg.EffectiveDDOF()}
	case config.WindowModeTime:
		w = TimeWindow{Days: cfg.Days, MinPeriods: cfg.MinPeriods, DDOF: cfg.EffectiveDDOF()}
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", apperrors.ErrInvalidWindow, cfg.Mode)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}
