package binning

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

func TestBin_SingleBinMatchesWholeSample(t *testing.T) {
	xs := []float64{31, 33.5, 39.9, 30}
	ys := []float64{-12, -9, -15, -10}
	s, err := Bin(xs, ys, 10)
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())
	mean, std := stat.PopMeanStdDev(ys, nil)
	assert.InDelta(t, mean, s.Means[0], 1e-12)
	assert.InDelta(t, std, s.StdDevs[0], 1e-12)
	assert.Equal(t, math.Floor(30/10.0)*10+5, s.Centers[0])
	assert.Equal(t, 4, s.Counts[0])
}

func TestBin_SkipsEmptyBinsAndCountsEverything(t *testing.T) {
	xs := []float64{1, 2, 25, 27, 61, 69.99, 70}
	ys := []float64{1, 3, 10, 20, 5, 5, 100}
	s, err := Bin(xs, ys, 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 25, 65, 75}, s.Centers)
	assert.Equal(t, []float64{2, 15, 5, 100}, s.Means)
	total := 0
	for _, c := range s.Counts {
		assert.Positive(t, c)
		total += c
	}
	assert.Equal(t, len(xs), total)
	assert.Len(t, s.Means, s.Len())
	assert.Len(t, s.StdDevs, s.Len())
}

func TestBin_UpperEdgeBelongsToNextBin(t *testing.T) {
	s, err := Bin([]float64{10, 20}, []float64{1, 2}, 10)
	require.NoError(t, err)
	assert.Equal(t, []float64{15, 25}, s.Centers)
}

func TestBin_NegativeValuesFloorDown(t *testing.T) {
	s, err := Bin([]float64{-3, -12}, []float64{1, 2}, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{-12.5, -2.5}, s.Centers)
}

func TestBin_Errors(t *testing.T) {
	_, err := Bin([]float64{1}, []float64{1}, 0)
	assert.True(t, errors.Is(err, ErrBadWidth))
	_, err = Bin([]float64{1}, []float64{1}, math.NaN())
	assert.True(t, errors.Is(err, ErrBadWidth))
	_, err = Bin([]float64{1, 2}, []float64{1}, 1)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	_, err = Bin([]float64{math.Inf(1)}, []float64{1}, 1)
	assert.True(t, errors.Is(err, ErrNonFiniteX))
}

func TestBin_EmptyInput(t *testing.T) {
	s, err := Bin(nil, nil, 10)
	require.NoError(t, err)
	assert.Zero(t, s.Len())
}
