package chart

import (
	"math"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

// DateLayout is the x-axis tick label format
const DateLayout = "2006-01-02"

// monthTicks returns a tick on the first day of every interval-th month
// (January, April, July and October for 3) within [from, to]. Spans too
// short for two such ticks are labelled at their end points.
func monthTicks(from, to time.Time, interval int) []chart.Tick {
	if interval < 1 {
		interval = 1
	}
	first := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	for (int(first.Month())-1)%interval != 0 || first.Before(from) {
		first = first.AddDate(0, 1, 0)
	}

	var ticks []chart.Tick
	for t := first; !t.After(to); t = t.AddDate(0, interval, 0) {
		ticks = append(ticks, dateTick(t))
	}
	if len(ticks) < 2 {
		ticks = []chart.Tick{dateTick(from), dateTick(to)}
		if from.Equal(to) {
			ticks = ticks[:1]
		}
	}
	return ticks
}

func dateTick(t time.Time) chart.Tick {
	return chart.Tick{Value: chart.TimeToFloat64(t), Label: t.Format(DateLayout)}
}

// niceTicks returns about n evenly stepped ticks covering [lo, hi]. Steps
// are 1, 2, 2.5 or 5 times a power of ten.
func niceTicks(lo, hi float64, n int) []chart.Tick {
	if n < 2 {
		n = 2
	}
	if hi <= lo {
		pad := math.Max(math.Abs(lo)*0.05, 1)
		lo, hi = lo-pad, hi+pad
	}

	mag := math.Pow(10, math.Floor(math.Log10((hi-lo)/float64(n-1))))
	bestStep, bestScore := mag, math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil((hi - lo) / step)
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore, bestStep = score, step
		}
	}

	start := math.Floor(lo/bestStep) * bestStep
	end := math.Ceil(hi/bestStep) * bestStep
	decimals := stepDecimals(bestStep)

	var ticks []chart.Tick
	for k := 0; ; k++ {
		v := start + float64(k)*bestStep
		if v > end+bestStep/2 {
			break
		}
		if math.Abs(v) < bestStep*1e-9 {
			v = 0
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', decimals, 64)})
	}
	return ticks
}

// stepDecimals is the number of decimals needed to tell ticks apart
func stepDecimals(step float64) int {
	d := 0
	for d < 10 && math.Abs(step*math.Pow(10, float64(d))-math.Round(step*math.Pow(10, float64(d)))) > 1e-9 {
		d++
	}
	return d
}

// tickRange is the range spanned by ticks
func tickRange(ticks []chart.Tick) *chart.ContinuousRange {
	return &chart.ContinuousRange{Min: ticks[0].Value, Max: ticks[len(ticks)-1].Value}
}

// tickedRange is a continuous range that supplies its own ticks. Ticks set
// on a go-chart axis replace the axis range with the tick span (and the
// secondary axis reads the primary axis ticks for it), so labels go through
// the range instead and the range stays as given.
type tickedRange struct {
	*chart.ContinuousRange
	ticks []chart.Tick
}

func newTickedRange(lo, hi float64, ticks []chart.Tick) *tickedRange {
	return &tickedRange{ContinuousRange: &chart.ContinuousRange{Min: lo, Max: hi}, ticks: ticks}
}

// valueRange spans ticks and labels the axis with them
func valueRange(ticks []chart.Tick) *tickedRange {
	return &tickedRange{ContinuousRange: tickRange(ticks), ticks: ticks}
}

// GetTicks implements chart.TicksProvider
func (r *tickedRange) GetTicks(_ chart.Renderer, _ chart.Style, _ chart.ValueFormatter) []chart.Tick {
	return r.ticks
}
