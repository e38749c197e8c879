package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentileLinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	tests := []struct {
		p    float64
		want float64
	}{
		{0, 1},
		{25, 2},
		{50, 3},
		{10, 1.4},
		{90, 4.6},
		{100, 5},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Percentile(sorted, tt.p), 1e-12, "p=%v", tt.p)
	}
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestMeanIsOrderIndependent(t *testing.T) {
	a := []float64{1e16, 1, -1e16, 3, 0.25}
	b := []float64{3, -1e16, 0.25, 1, 1e16}
	assert.Equal(t, Mean(a), Mean(b))
	assert.Equal(t, 0.0, Mean(nil))
}

func TestStdDevUsesSampleDenominator(t *testing.T) {
	assert.InDelta(t, math.Sqrt(2.5), StdDev([]float64{1, 2, 3, 4, 5}), 1e-12)
	assert.Equal(t, 0.0, StdDev([]float64{7}))
}

func TestFiniteAndMinMax(t *testing.T) {
	vals := Finite([]float64{3, math.NaN(), -1, math.Inf(1), 8})
	assert.Equal(t, []float64{3, -1, 8}, vals)
	lo, hi := MinMax(vals)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 8.0, hi)
}

func TestEstimateModeConstantSample(t *testing.T) {
	data := make([]float64, 1000)
	for i := range data {
		data[i] = 2_500_000
	}
	est := EstimateMode(data, DefaultGridPoints)
	assert.Equal(t, 2_500_000.0, est.Mode)
	assert.Equal(t, 1.0, est.Density)
	assert.Equal(t, 100.0, est.ProbNearMode5Pct)
	assert.Equal(t, 100.0, est.ProbNearMode10Pct)
	assert.Equal(t, 0.0, est.ProbAboveMode)
	assert.Equal(t, 0.0, est.ProbBelowMode)
	assert.Equal(t, MethodDegenerate, est.Method)
}

func TestEstimateModeEmptyAndNonFinite(t *testing.T) {
	assert.Equal(t, ModeEstimate{Method: MethodEmpty}, EstimateMode(nil, DefaultGridPoints))
	assert.Equal(t, ModeEstimate{Method: MethodEmpty}, EstimateMode([]float64{math.NaN(), math.Inf(-1)}, DefaultGridPoints))

	est := EstimateMode([]float64{5, math.NaN(), 5}, DefaultGridPoints)
	assert.Equal(t, MethodDegenerate, est.Method)
	assert.Equal(t, 5.0, est.Mode)
}

func TestEstimateModeFindsPeak(t *testing.T) {
	// a tight cluster around 100 plus a sparse tail
	data := []float64{}
	for i := 0; i < 200; i++ {
		data = append(data, 100+float64(i%5)-2)
	}
	for i := 0; i < 20; i++ {
		data = append(data, 300+float64(i)*10)
	}
	est := EstimateMode(data, DefaultGridPoints)
	require.Equal(t, MethodKDE, est.Method)
	assert.InDelta(t, 100, est.Mode, 5)
	assert.Greater(t, est.Density, 0.0)
	assert.Greater(t, est.ProbNearMode10Pct, est.ProbNearMode5Pct-1e-9)
	assert.InDelta(t, 100, est.ProbAboveMode+est.ProbBelowMode+massAt(data, est.Mode), 1e-9)
}

func massAt(data []float64, x float64) float64 {
	n := 0
	for _, v := range data {
		if v == x {
			n++
		}
	}
	return float64(n) / float64(len(data)) * 100
}

func TestNearMassZeroModeUsesRange(t *testing.T) {
	data := []float64{-1, -0.5, 0, 0, 0, 0.5, 1}
	// ±5% of the range of 2 is ±0.1: only the three zeros
	assert.InDelta(t, 3.0/7*100, nearMass(data, 0, 2, 0.05), 1e-9)
	// ±50% of |4| spans [2, 6]
	assert.Equal(t, 0.0, nearMass(data, 4, 2, 0.5))
}

func TestHistogramModeFallback(t *testing.T) {
	data := []float64{0, 1, 1, 1, 2, 10}
	est := histogramMode(data, 0, 10, HistogramBins)
	assert.Equal(t, MethodHistogram, est.Method)
	assert.True(t, est.Fallback())
	assert.InDelta(t, 1.1, est.Mode, 1e-9)
	assert.InDelta(t, 0.5, est.Density, 1e-12)
	assert.Equal(t, 0.0, est.ProbNearMode5Pct)
	assert.Equal(t, 0.0, est.ProbNearMode10Pct)
	assert.InDelta(t, 2.0/6*100, est.ProbAboveMode, 1e-9)
	assert.InDelta(t, 4.0/6*100, est.ProbBelowMode, 1e-9)
}

func TestGaussianKDE(t *testing.T) {
	_, err := NewGaussianKDE([]float64{1})
	assert.ErrorIs(t, err, ErrDensityFailed)

	k, err := NewGaussianKDE([]float64{-1, 1})
	require.NoError(t, err)
	assert.InDelta(t, math.Pow(2, -0.2)*math.Sqrt(2), k.Bandwidth(), 1e-12)
	assert.InDelta(t, k.Density(0.3), k.Density(-0.3), 1e-15)
}
