package exporter

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rvolchart/internal/errors"
	"rvolchart/internal/shared/testutil"
	"rvolchart/pkg/contracts/domain"
)

func sampleTable() (*domain.Table, domain.ScoreSeries) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	table := &domain.Table{
		Source: domain.Source{DateColumn: "Date", RatioColumn: "gex/rvol20", PriceColumn: "SPX Close price"},
		Rows: []domain.Observation{
			{Date: start, Ratio: 0.1, Price: 3230.78},
			{Date: start.AddDate(0, 0, 1), Ratio: math.NaN(), Price: 3257.85},
			{Date: start.AddDate(0, 0, 2), Ratio: 1e-7, Price: 3234.85},
			{Date: start.AddDate(0, 0, 5), Ratio: 2, Price: math.NaN()},
			{Date: start.AddDate(0, 0, 6), Ratio: 3, Price: 3246.28},
		},
	}
	scores := domain.ScoreSeries{
		domain.NullScore,
		domain.NullScore,
		{Value: math.NaN(), Valid: true},
		{Value: math.Inf(-1), Valid: true},
		{Value: 1.0 / 3, Valid: true},
	}
	return table, scores
}

func TestScoreRecords(t *testing.T) {
	table, scores := sampleTable()

	records, err := ScoreRecords(table, scores)
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"2020-01-01", "0.1", "3230.78", ""},
		{"2020-01-02", "", "3257.85", ""},
		{"2020-01-03", "1e-07", "3234.85", "NaN"},
		{"2020-01-06", "2", "", "-Inf"},
		{"2020-01-07", "3", "3246.28", "0.3333333333333333"},
	}, records)
}

func TestScoreRecords_LengthMismatch(t *testing.T) {
	table, scores := sampleTable()
	_, err := ScoreRecords(table, scores[:2])
	assert.ErrorIs(t, err, apperrors.ErrLengthMismatch)
}

func TestScoreHeaders(t *testing.T) {
	assert.Equal(t, []string{"Date", "gex/rvol20", "SPX Close price", "zscore_rvol20_gex"}, ScoreHeaders(domain.Source{}))
	assert.Equal(t, []string{"Day", "ratio", "close", "zscore_rvol20_gex"},
		ScoreHeaders(domain.Source{DateColumn: "Day", RatioColumn: "ratio", PriceColumn: "close"}))
}

func TestFormatFloat_RoundTrips(t *testing.T) {
	for _, f := range []float64{0.1, 1.0 / 3, -2.5e-300, 123456789.123456789, math.MaxFloat64} {
		s := FormatFloat(f)
		var back float64
		_, err := fmt.Sscan(s, &back)
		require.NoError(t, err)
		assert.Equal(t, f, back, s)
	}
	assert.Equal(t, "+Inf", FormatFloat(math.Inf(1)))
	assert.Equal(t, "NaN", FormatFloat(math.NaN()))
}

func TestWriteScores_Deterministic(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	dir := t.TempDir()
	writer := NewCSVWriter(dir, logger)
	table, scores := sampleTable()
	ctx := context.Background()

	first, err := writer.WriteScores(ctx, "first.csv", table, scores, ScoreOptions{})
	require.NoError(t, err)
	second, err := writer.WriteScores(ctx, "second.csv", table, scores, ScoreOptions{})
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, "Date,gex/rvol20,SPX Close price,zscore_rvol20_gex\n", string(a[:len("Date,gex/rvol20,SPX Close price,zscore_rvol20_gex\n")]))

	assert.True(t, handler.ContainsMessage("Z-score CSV exported"))
}

func TestWriteScores_BOMAndErrors(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)
	table, scores := sampleTable()

	path, err := writer.WriteScores(context.Background(), "bom.csv", table, scores, ScoreOptions{BOMPrefix: true})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, utf8BOM, data[:3])

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), nil, 0644))
	_, err = writer.WriteScores(context.Background(), filepath.Join("file", "z.csv"), table, scores, ScoreOptions{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeIO, apperrors.TypeOf(err))
}
