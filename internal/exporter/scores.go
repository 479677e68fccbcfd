package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	apperrors "rvolchart/internal/errors"
	"rvolchart/pkg/contracts/domain"
)

// ScoreOptions configures the z-score export
type ScoreOptions struct {
	BOMPrefix bool
}

// ScoreHeaders returns the export header, reusing the source column names
func ScoreHeaders(source domain.Source) []string {
	headers := []string{source.DateColumn, source.RatioColumn, source.PriceColumn, domain.ColumnZScore}
	defaults := []string{domain.ColumnDate, domain.ColumnRatio, domain.ColumnPrice}
	for i, d := range defaults {
		if headers[i] == "" {
			headers[i] = d
		}
	}
	return headers
}

// ScoreRecords formats one record per row. A null score is an empty field.
func ScoreRecords(table *domain.Table, scores domain.ScoreSeries) ([][]string, error) {
	if len(scores) != table.Len() {
		return nil, fmt.Errorf("%w: %d scores for %d rows", apperrors.ErrLengthMismatch, len(scores), table.Len())
	}

	records := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		score := ""
		if scores[i].Valid {
			score = FormatFloat(scores[i].Value)
		}
		records[i] = []string{
			row.Date.Format("2006-01-02"),
			formatValue(row.Ratio),
			formatValue(row.Price),
			score,
		}
	}
	return records, nil
}

// FormatFloat renders f with the shortest representation that round-trips.
// NaN is "NaN" and infinities are "+Inf" and "-Inf".
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// formatValue leaves missing source values empty
func formatValue(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return FormatFloat(f)
}

// WriteScores exports table and scores to filePath and returns the path
// written
func (w *CSVWriter) WriteScores(ctx context.Context, filePath string, table *domain.Table, scores domain.ScoreSeries, opts ScoreOptions) (string, error) {
	records, err := ScoreRecords(table, scores)
	if err != nil {
		return "", err
	}

	fullPath, err := w.WriteCSV(ctx, filePath, WriteOptions{
		Headers:   ScoreHeaders(table.Source),
		Records:   records,
		BOMPrefix: opts.BOMPrefix,
	})
	if err != nil {
		return "", apperrors.IOError("export", filePath, err)
	}

	w.logger.InfoContext(ctx, "Z-score CSV exported",
		slog.String("path", fullPath),
		slog.Int("rows", len(records)),
		slog.Bool("bom", opts.BOMPrefix))
	return fullPath, nil
}
