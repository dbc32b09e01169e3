// Package contrast computes region contrast metrics.
//
// Both metrics use the population standard deviation. Degenerate inputs are
// not rejected: a zero background mean or zero combined noise produces NaN or
// ±Inf, which callers can test with Finite.
package contrast

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CNR returns the contrast-to-noise ratio
// |mean(s)-mean(b)| / sqrt(std(s)^2 + std(b)^2).
func CNR(signal, background []float64) float64 {
	ms, ss := stat.PopMeanStdDev(signal, nil)
	mb, sb := stat.PopMeanStdDev(background, nil)
	return math.Abs(ms-mb) / math.Sqrt(ss*ss+sb*sb)
}

// CTR returns the contrast-to-background ratio in decibels,
// 20*log10(mean(s)/mean(b)).
func CTR(signal, background []float64) float64 {
	return 20 * math.Log10(stat.Mean(signal, nil)/stat.Mean(background, nil))
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
