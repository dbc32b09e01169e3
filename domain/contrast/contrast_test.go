package contrast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func scale(xs []float64, k float64) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = v * k
	}
	return out
}

func TestCTR_FlatRegions(t *testing.T) {
	sig := []float64{10, 10, 10, 10}
	bg := []float64{5, 5, 5, 5}
	assert.InDelta(t, 6.0206, CTR(sig, bg), 1e-4)
}

func TestCNR_ZeroNoiseIsInfinite(t *testing.T) {
	sig := []float64{10, 10, 10, 10}
	bg := []float64{5, 5, 5, 5}
	v := CNR(sig, bg)
	assert.True(t, math.IsInf(v, 1), "expected +Inf, got %v", v)
	assert.False(t, Finite(v))
}

func TestCNR_IdenticalFlatRegionsIsNaN(t *testing.T) {
	flat := []float64{7, 7, 7}
	v := CNR(flat, flat)
	assert.True(t, math.IsNaN(v), "expected NaN for 0/0, got %v", v)
}

func TestCTR_ZeroBackgroundIsInfinite(t *testing.T) {
	v := CTR([]float64{1, 2, 3}, []float64{0, 0})
	assert.True(t, math.IsInf(v, 1), "expected +Inf, got %v", v)
}

func TestCTR_ScaleInvariant(t *testing.T) {
	sig := []float64{12, 15, 9, 30, 22}
	bg := []float64{40, 44, 39, 52}
	base := CTR(sig, bg)
	for _, k := range []float64{0.001, 0.5, 3, 1e5} {
		assert.InDelta(t, base, CTR(scale(sig, k), scale(bg, k)), 1e-9, "k=%v", k)
	}
}

func TestCNR_Symmetric(t *testing.T) {
	a := []float64{1, 4, 2, 8, 5}
	b := []float64{10, 12, 9, 11}
	assert.InDelta(t, CNR(a, b), CNR(b, a), 1e-12)
}

func TestCNR_KnownValue(t *testing.T) {
	// means 2 and 5, population std 1 and 2
	a := []float64{1, 3}
	b := []float64{3, 7}
	assert.InDelta(t, 3/math.Sqrt(5), CNR(a, b), 1e-12)
}

func TestCTR_BelowBackgroundIsNegative(t *testing.T) {
	v := CTR([]float64{1}, []float64{10})
	assert.InDelta(t, -20, v, 1e-12)
}
