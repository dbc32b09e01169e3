package binning

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var (
	ErrBadWidth       = errors.New("bin width must be positive and finite")
	ErrLengthMismatch = errors.New("x and y lengths differ")
	ErrNonFiniteX     = errors.New("non-finite x value")
)

// Summary holds per-bin statistics. All slices share the same length and only
// non-empty bins are present.
type Summary struct {
	Centers []float64
	Means   []float64
	StdDevs []float64
	Counts  []int
}

// Len returns the number of emitted bins.
func (s Summary) Len() int { return len(s.Centers) }

// Bin groups (x, y) pairs into bins of the given width along x.
//
// Bins start at the largest multiple of width not above min(x) and run up to
// the multiple of width not above max(x), inclusive. A bin covers
// [start, start+width). Empty bins are skipped; standard deviations are
// population values.
func Bin(xs, ys []float64, width float64) (Summary, error) {
	if !(width > 0) || math.IsInf(width, 0) {
		return Summary{}, fmt.Errorf("%w: %v", ErrBadWidth, width)
	}
	if len(xs) != len(ys) {
		return Summary{}, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(xs), len(ys))
	}
	if len(xs) == 0 {
		return Summary{}, nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return Summary{}, fmt.Errorf("%w at %d", ErrNonFiniteX, i)
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	first := int(math.Floor(lo / width))
	last := int(math.Floor(hi / width))

	var out Summary
	members := make([]float64, 0, len(ys))
	for k := first; k <= last; k++ {
		start := float64(k) * width
		end := start + width
		members = members[:0]
		for i, x := range xs {
			if x >= start && x < end {
				members = append(members, ys[i])
			}
		}
		if len(members) == 0 {
			continue
		}
		mean, std := stat.PopMeanStdDev(members, nil)
		out.Centers = append(out.Centers, start+width/2)
		out.Means = append(out.Means, mean)
		out.StdDevs = append(out.StdDevs, std)
		out.Counts = append(out.Counts, len(members))
	}
	return out, nil
}
