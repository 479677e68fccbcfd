package rolling

import "math"

// zscore standardizes x against values using ddof delta degrees of freedom.
// Zero variance and too few degrees of freedom both give NaN.
func zscore(x float64, values []float64, ddof int) float64 {
	n := len(values)
	if n-ddof <= 0 {
		return math.NaN()
	}

	lo, hi := values[0], values[0]
	sum := 0.0
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	// identical values must not leave a rounding residue in the deviation
	if lo == hi {
		return math.NaN()
	}

	mean := sum / float64(n)
	sumSquaredDeviations := 0.0
	for _, v := range values {
		d := v - mean
		sumSquaredDeviations += d * d
	}

	stdDev := math.Sqrt(sumSquaredDeviations / float64(n-ddof))
	return (x - mean) / stdDev
}
