package chart

import (
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

// offsetAxisReserve is the extra right padding, in points, kept for the
// third axis
const offsetAxisReserve = 56

// defaultScoreSpan is the z range shown when no score can be drawn
const defaultScoreSpan = 3

// offsetAxis draws the z-score scale to the right of the price axis.
// go-chart has two value axes, so z values are mapped linearly into the
// price range and labelled with their own ticks.
type offsetAxis struct {
	opts   Options
	ticks  []chart.Tick
	zMin   float64
	zMax   float64
	target *chart.ContinuousRange
}

func newOffsetAxis(opts Options, zLo, zHi float64, hasScores bool, target *chart.ContinuousRange) *offsetAxis {
	if !hasScores {
		zLo, zHi = -defaultScoreSpan, defaultScoreSpan
	}
	ticks := niceTicks(zLo, zHi, yTickCount)
	return &offsetAxis{
		opts:   opts,
		ticks:  ticks,
		zMin:   ticks[0].Value,
		zMax:   ticks[len(ticks)-1].Value,
		target: target,
	}
}

// mapValue converts a z value into the price range
func (a *offsetAxis) mapValue(z float64) float64 {
	return a.target.Min + (z-a.zMin)/(a.zMax-a.zMin)*(a.target.Max-a.target.Min)
}

func (a *offsetAxis) mapValues(zs []float64) []float64 {
	out := make([]float64, len(zs))
	for i, z := range zs {
		out[i] = a.mapValue(z)
	}
	return out
}

// render returns the element drawing the axis. priceTicks are the labels of
// the primary axis, measured to place this one clear of them.
func (a *offsetAxis) render(priceTicks []chart.Tick) chart.Renderable {
	return func(r chart.Renderer, canvasBox chart.Box, defaults chart.Style) {
		style := chart.Style{
			Font:        defaults.Font,
			FontSize:    chart.DefaultFontSize,
			FontColor:   scoreColor,
			StrokeColor: scoreColor,
			StrokeWidth: a.opts.px(0.75),
		}
		style.WriteToRenderer(r)

		priceWidth := 0
		for _, t := range priceTicks {
			priceWidth = max(priceWidth, r.MeasureText(t.Label).Width())
		}
		priceName := r.MeasureText(PriceLabel)
		x0 := canvasBox.Right + priceWidth + priceName.Height() + int(a.opts.px(20))

		toY := func(z float64) int {
			ratio := (a.mapValue(z) - a.target.Min) / (a.target.Max - a.target.Min)
			return canvasBox.Bottom - int(math.Round(ratio*float64(canvasBox.Height())))
		}

		tickLen := int(a.opts.px(3))
		r.MoveTo(x0, canvasBox.Top)
		r.LineTo(x0, canvasBox.Bottom)
		for _, t := range a.ticks {
			y := toY(t.Value)
			r.MoveTo(x0, y)
			r.LineTo(x0+tickLen, y)
		}
		r.Stroke()

		labelWidth := 0
		for _, t := range a.ticks {
			tb := r.MeasureText(t.Label)
			labelWidth = max(labelWidth, tb.Width())
			r.Text(t.Label, x0+2*tickLen, toY(t.Value)+tb.Height()/2)
		}

		nb := r.MeasureText(a.opts.ScoreLabel)
		r.SetTextRotation(math.Pi / 2)
		r.Text(a.opts.ScoreLabel, x0+2*tickLen+labelWidth+int(a.opts.px(6)), canvasBox.Top+(canvasBox.Height()-nb.Width())/2)
		r.ClearTextRotation()
	}
}
