package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"rvolchart/internal/config"
	apperrors "rvolchart/internal/errors"
	"rvolchart/pkg/contracts/domain"
)

// Series labels and colors
const (
	RatioLabel = "RVOL20/GEX"
	PriceLabel = "SPX Close Price"
	DateLabel  = "Date"
)

var (
	ratioColor = chart.ColorBlue
	scoreColor = chart.ColorGreen
	priceColor = chart.ColorRed
	gridColor  = drawing.Color{R: 176, G: 176, B: 176, A: 255}
)

// yTickCount is the number of ticks aimed for on each value axis
const yTickCount = 6

// Options controls how a Figure is drawn
type Options struct {
	Title        string
	Layout       string
	ScoreLabel   string
	WidthInches  float64
	HeightInches float64
	DPI          float64
	TickMonths   int
	// CropMargin is the margin kept around the drawn content, in points
	CropMargin int
}

// DefaultOptions returns a 12x6 inch, 300 DPI overlay figure
func DefaultOptions() Options {
	return Options{
		Title:        config.DefaultTitle,
		Layout:       config.LayoutOverlay,
		ScoreLabel:   "Z-Score (60-day)",
		WidthInches:  12,
		HeightInches: 6,
		DPI:          300,
		TickMonths:   3,
		CropMargin:   8,
	}
}

// OptionsFromConfig builds Options from the chart section. layout must be
// resolved (overlay or offset); windowLabel names the z-score span.
func OptionsFromConfig(cfg config.ChartConfig, layout, windowLabel string) Options {
	return Options{
		Title:        cfg.Title,
		Layout:       layout,
		ScoreLabel:   fmt.Sprintf("Z-Score (%s)", windowLabel),
		WidthInches:  cfg.WidthInches,
		HeightInches: cfg.HeightInches,
		DPI:          cfg.DPI,
		TickMonths:   cfg.TickMonths,
		CropMargin:   cfg.CropMargin,
	}
}

// Width is the canvas width in pixels
func (o Options) Width() int {
	return int(math.Round(o.WidthInches * o.DPI))
}

// Height is the canvas height in pixels
func (o Options) Height() int {
	return int(math.Round(o.HeightInches * o.DPI))
}

// px converts a length in points to pixels at the figure DPI
func (o Options) px(points float64) float64 {
	return points * o.DPI / 72
}

// Figure is one rendered study chart. It is built once by NewFigure and
// never shares drawing state with other figures.
type Figure struct {
	chart chart.Chart
	opts  Options

	// ScoreSegments is the number of line pieces the z-score was split into
	ScoreSegments int
}

// NewFigure lays out the ratio, z-score and price series of table.
// scores must be aligned with table.Rows.
func NewFigure(table *domain.Table, scores domain.ScoreSeries, opts Options) (*Figure, error) {
	if table.Len() == 0 {
		return nil, apperrors.ErrNoData
	}
	if len(scores) != table.Len() {
		return nil, fmt.Errorf("%w: %d scores for %d rows", apperrors.ErrLengthMismatch, len(scores), table.Len())
	}
	if opts.Width() < 1 || opts.Height() < 1 {
		return nil, fmt.Errorf("invalid figure size %dx%d", opts.Width(), opts.Height())
	}

	dates := table.Dates()
	ratios := table.Ratios()
	prices := table.Prices()
	zs := make([]float64, len(scores))
	for i, s := range scores {
		zs[i] = s.Value
		if !s.Valid {
			zs[i] = math.NaN()
		}
	}

	ratioLo, ratioHi, ok := finiteBounds(ratios)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrEmptySeries, RatioLabel)
	}
	priceLo, priceHi, ok := finiteBounds(prices)
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrEmptySeries, PriceLabel)
	}
	zLo, zHi, hasScores := finiteBounds(zs)

	lineWidth := opts.px(1.5)
	ratioStyle := chart.Style{StrokeColor: ratioColor, StrokeWidth: lineWidth}
	priceStyle := chart.Style{StrokeColor: priceColor, StrokeWidth: lineWidth}
	scoreStyle := chart.Style{
		StrokeColor:     scoreColor,
		StrokeWidth:     lineWidth,
		StrokeDashArray: []float64{opts.px(4), opts.px(2)},
	}

	f := &Figure{opts: opts}

	leftLo, leftHi := ratioLo, ratioHi
	if hasScores && opts.Layout != config.LayoutOffset {
		leftLo, leftHi = math.Min(leftLo, zLo), math.Max(leftHi, zHi)
	}
	leftTicks := niceTicks(leftLo, leftHi, yTickCount)
	rightTicks := niceTicks(priceLo, priceHi, yTickCount)
	leftRange, rightRange := valueRange(leftTicks), valueRange(rightTicks)

	var series []chart.Series
	series = append(series, lineSeries(RatioLabel, splitFinite(dates, ratios), ratioStyle, chart.YAxisSecondary)...)

	var elements []chart.Renderable
	scoreSegs := splitFinite(dates, zs)
	switch opts.Layout {
	case config.LayoutOffset:
		axis := newOffsetAxis(opts, zLo, zHi, hasScores, rightRange.ContinuousRange)
		for i := range scoreSegs {
			scoreSegs[i].y = axis.mapValues(scoreSegs[i].y)
		}
		series = append(series, lineSeries(opts.ScoreLabel, scoreSegs, scoreStyle, chart.YAxisPrimary)...)
		elements = append(elements, axis.render(rightTicks))
	default:
		series = append(series, lineSeries(opts.ScoreLabel, scoreSegs, scoreStyle, chart.YAxisSecondary)...)
	}
	f.ScoreSegments = len(scoreSegs)

	series = append(series, lineSeries(PriceLabel, splitFinite(dates, prices), priceStyle, chart.YAxisPrimary)...)

	first, last := dates[0], dates[len(dates)-1]
	xMin, xMax := chart.TimeToFloat64(first), chart.TimeToFloat64(last)
	if xMin == xMax {
		xMin, xMax = chart.TimeToFloat64(first.AddDate(0, 0, -1)), chart.TimeToFloat64(last.AddDate(0, 0, 1))
	}

	gridStyle := chart.Style{
		StrokeColor:     gridColor,
		StrokeWidth:     opts.px(0.5),
		StrokeDashArray: []float64{opts.px(3), opts.px(3)},
	}
	rightPad := opts.px(16)
	if opts.Layout == config.LayoutOffset {
		rightPad += opts.px(offsetAxisReserve)
	}

	f.chart = chart.Chart{
		Title:  opts.Title,
		Width:  opts.Width(),
		Height: opts.Height(),
		DPI:    opts.DPI,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    int(opts.px(40)),
				Left:   int(opts.px(16)),
				Right:  int(rightPad),
				Bottom: int(opts.px(16)),
			},
		},
		XAxis: chart.XAxis{
			Name:           DateLabel,
			Range:          newTickedRange(xMin, xMax, monthTicks(first, last, opts.TickMonths)),
			TickStyle:      chart.Style{TextRotationDegrees: 45},
			GridMajorStyle: gridStyle,
		},
		YAxisSecondary: chart.YAxis{
			Name:           RatioLabel,
			NameStyle:      chart.Style{FontColor: ratioColor},
			Style:          chart.Style{FontColor: ratioColor},
			Range:          leftRange,
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:      PriceLabel,
			NameStyle: chart.Style{FontColor: priceColor},
			Style:     chart.Style{FontColor: priceColor},
			Range:     rightRange,
		},
		Series: series,
	}

	// the legend lists each logical series once, even when it was split
	// into segments or has nothing to draw
	legendSource := f.chart
	legendSource.Series = []chart.Series{
		chart.TimeSeries{Name: RatioLabel, Style: ratioStyle},
		chart.TimeSeries{Name: opts.ScoreLabel, Style: scoreStyle},
		chart.TimeSeries{Name: PriceLabel, Style: priceStyle},
	}
	f.chart.Elements = append(elements, chart.Legend(&legendSource))

	return f, nil
}

// Options returns the options the figure was built with
func (f *Figure) Options() Options {
	return f.opts
}

// Render writes the figure as a cropped PNG
func (f *Figure) Render(w io.Writer) error {
	var buf bytes.Buffer
	if err := f.chart.Render(chart.PNG, &buf); err != nil {
		return apperrors.RenderError("failed to render chart", err)
	}
	margin := int(math.Round(f.opts.px(float64(f.opts.CropMargin))))
	if err := cropPNG(&buf, w, margin); err != nil {
		return apperrors.RenderError("failed to crop chart", err)
	}
	return nil
}

// Save renders the figure and writes it to path, replacing any existing
// file. Nothing is written when rendering fails.
func (f *Figure) Save(path string) error {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return apperrors.IOError("create directory for", path, err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return apperrors.IOError("write", path, err)
	}
	return nil
}
