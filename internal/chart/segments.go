package chart

import (
	"math"
	"time"

	"github.com/wcharczuk/go-chart/v2"
)

// segment is a run of consecutive finite points
type segment struct {
	x []time.Time
	y []float64
}

// splitFinite breaks values into runs of finite points; NaN and ±Inf end a run
func splitFinite(dates []time.Time, values []float64) []segment {
	var (
		out []segment
		cur segment
	)
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			if len(cur.x) > 0 {
				out = append(out, cur)
				cur = segment{}
			}
			continue
		}
		cur.x = append(cur.x, dates[i])
		cur.y = append(cur.y, v)
	}
	if len(cur.x) > 0 {
		out = append(out, cur)
	}
	return out
}

// lineSeries turns segments into time series. Only the first one carries
// the name; single points are drawn as dots.
func lineSeries(name string, segs []segment, style chart.Style, axis chart.YAxisType) []chart.Series {
	series := make([]chart.Series, 0, len(segs))
	for i, s := range segs {
		st := style
		if len(s.x) == 1 {
			st.DotColor = style.StrokeColor
			st.DotWidth = style.StrokeWidth
		}
		ts := chart.TimeSeries{
			XValues: s.x,
			YValues: s.y,
			Style:   st,
			YAxis:   axis,
		}
		if i == 0 {
			ts.Name = name
		}
		series = append(series, ts)
	}
	return series
}

// finiteBounds returns the min and max finite value; ok is false when
// there are none
func finiteBounds(values []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	return lo, hi, ok
}
