package analysis

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// quantileR7 computes the p-quantile (0 <= p <= 1) with the R-7 linear
// interpolation method: h = (n-1)p, interpolate between the order statistics
// at floor(h) and floor(h)+1. This matches the default quantile of most
// statistics environments and is documented as this module's convention.
func quantileR7(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return values[0]
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// skewness computes the adjusted Fisher-Pearson coefficient of skewness
// (sample skewness with sqrt(n(n-1))/(n-2) bias correction). NaN for fewer
// than 3 values or zero variance.
func skewness(values []float64) float64 {
	n := float64(len(values))
	if n < 3 {
		return math.NaN()
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return math.NaN()
	}
	stdDev, err := stats.StandardDeviationSample(values)
	if err != nil || stdDev == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, x := range values {
		d := (x - mean) / stdDev
		sum += d * d * d
	}

	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return correction * sum / n
}

// kurtosis computes bias-corrected sample excess kurtosis (the G2
// estimator). Zero for a normal distribution; NaN for fewer than 4 values
// or zero variance.
func kurtosis(values []float64) float64 {
	n := float64(len(values))
	if n < 4 {
		return math.NaN()
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return math.NaN()
	}
	stdDev, err := stats.StandardDeviationSample(values)
	if err != nil || stdDev == 0 {
		return math.NaN()
	}

	sum := 0.0
	for _, x := range values {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}

	// G2 = ((n+1)m4 - 3(n-1)) * (n-1) / ((n-2)(n-3)) with m4 = sum/n
	m4 := sum / n
	return ((n+1)*m4 - 3*(n-1)) * (n - 1) / ((n - 2) * (n - 3))
}
