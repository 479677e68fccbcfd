package rolling

import (
	"context"
	"fmt"
	"log/slog"

	apperrors "rvolchart/internal/errors"
	"rvolchart/pkg/contracts/domain"
)

// Transformer adds the z-score column to a loaded table
type Transformer struct {
	window Window
	logger *slog.Logger
}

// NewTransformer validates window and returns a Transformer for it
func NewTransformer(window Window, logger *slog.Logger) (*Transformer, error) {
	if window == nil {
		return nil, fmt.Errorf("%w: no window", apperrors.ErrInvalidWindow)
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{window: window, logger: logger}, nil
}

// Window returns the configured window
func (t *Transformer) Window() Window {
	return t.window
}

// Transform scores every row of table. The table must be sorted ascending
// by date with unique dates.
func (t *Transformer) Transform(ctx context.Context, table *domain.Table) (domain.ScoreSeries, error) {
	if table.Len() == 0 {
		return nil, apperrors.ErrNoData
	}
	if err := checkAscending(table); err != nil {
		return nil, err
	}

	scores := t.window.Scores(table)
	if len(scores) != table.Len() {
		return nil, fmt.Errorf("%w: %d scores for %d rows", apperrors.ErrLengthMismatch, len(scores), table.Len())
	}

	stats := scores.Stats()
	t.logger.InfoContext(ctx, "Z-scores computed",
		slog.String("window", t.window.String()),
		slog.Int("rows", stats.Total),
		slog.Int("valid", stats.Valid),
		slog.Int("null", stats.Null),
		slog.Int("non_finite", stats.NonFinite))

	if stats.NonFinite > 0 {
		t.logger.WarnContext(ctx, "Zero-variance windows produced NaN scores",
			slog.Int("count", stats.NonFinite))
	}

	return scores, nil
}

func checkAscending(table *domain.Table) error {
	for i := 1; i < len(table.Rows); i++ {
		if !table.Rows[i].Date.After(table.Rows[i-1].Date) {
			return fmt.Errorf("%w: row %d (%s) follows %s", apperrors.ErrUnsorted, i,
				table.Rows[i].Date.Format("2006-01-02"), table.Rows[i-1].Date.Format("2006-01-02"))
		}
	}
	return nil
}
