// Package volatility computes scale-free dispersion measures over a posting index series.
package volatility

import "math"

// DefaultWindow is the rolling window length in observations.
const DefaultWindow = 30

// Result is the output of Compute. Rolling[i] is NaN when missing.
type Result struct {
	CoefficientOfVariation float64
	Rolling                []float64
}

// Compute returns the whole-series coefficient of variation and the rolling
// coefficient of variation over trailing windows of the given length.
func Compute(series []float64, window int) Result {
	return Result{
		CoefficientOfVariation: CoefficientOfVariation(series),
		Rolling:                Rolling(series, window),
	}
}

// Mean averages the non-NaN values, or NaN when there are none.
func Mean(xs []float64) float64 {
	sum, n := 0.0, 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sum += x
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// StdDev is the sample standard deviation (divide by N-1) of the non-NaN values.
// Fewer than two values give NaN.
func StdDev(xs []float64) float64 {
	mean := Mean(xs)
	ss, n := 0.0, 0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		d := x - mean
		ss += d * d
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	return math.Sqrt(ss / float64(n-1))
}

// CoefficientOfVariation is StdDev/Mean. A zero mean yields ±Inf or NaN, never 0.
func CoefficientOfVariation(xs []float64) float64 {
	return StdDev(xs) / Mean(xs)
}

// Rolling computes the coefficient of variation over each trailing window of
// length window ending at i. Positions without window valid observations are NaN.
func Rolling(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	for i := range series {
		out[i] = math.NaN()
		if window < 1 || i+1 < window {
			continue
		}
		w := series[i+1-window : i+1]
		if countValid(w) < window {
			continue
		}
		out[i] = CoefficientOfVariation(w)
	}
	return out
}

func countValid(xs []float64) int {
	n := 0
	for _, x := range xs {
		if !math.IsNaN(x) {
			n++
		}
	}
	return n
}
