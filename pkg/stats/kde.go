package stats

import (
	"fmt"
	"math"
)

// GaussianKDE is a one-dimensional Gaussian kernel density estimate
// with Scott's rule bandwidth.
type GaussianKDE struct {
	samples   []float64
	bandwidth float64
	norm      float64
}

// NewGaussianKDE fits a density to the sample. It fails when the bandwidth
// is zero or not finite, which happens for fewer than two distinct values.
func NewGaussianKDE(samples []float64) (*GaussianKDE, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, got %d", ErrDensityFailed, n)
	}
	bw := ScottFactor(n) * StdDev(samples)
	if bw <= 0 || math.IsNaN(bw) || math.IsInf(bw, 0) {
		return nil, fmt.Errorf("%w: bandwidth %v", ErrDensityFailed, bw)
	}
	return &GaussianKDE{
		samples:   samples,
		bandwidth: bw,
		norm:      1 / (float64(n) * bw * math.Sqrt(2*math.Pi)),
	}, nil
}

// ScottFactor returns n^(-1/5)
func ScottFactor(n int) float64 {
	return math.Pow(float64(n), -0.2)
}

// Bandwidth returns the kernel standard deviation
func (k *GaussianKDE) Bandwidth() float64 { return k.bandwidth }

// Density evaluates the estimate at x
func (k *GaussianKDE) Density(x float64) float64 {
	var sum float64
	for _, s := range k.samples {
		z := (x - s) / k.bandwidth
		sum += math.Exp(-0.5 * z * z)
	}
	return sum * k.norm
}
