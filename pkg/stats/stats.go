// Package stats provides the sample statistics used to summarize simulated outcomes.
package stats

import (
	"math"
	"sort"
)

// Sorted returns an ascending copy of values
func Sorted(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}

// Mean returns the arithmetic mean, or 0 for an empty sample.
// Values are summed in ascending order so the result does not depend on sample order.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sumSorted(Sorted(values)) / float64(len(values))
}

// MeanSorted is Mean for an already sorted sample
func MeanSorted(sorted []float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return sumSorted(sorted) / float64(len(sorted))
}

func sumSorted(sorted []float64) float64 {
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	return sum
}

// StdDev returns the sample standard deviation (n-1 denominator)
func StdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// Percentile returns the p-th percentile (0..100) of a sorted sample using
// linear interpolation between order statistics.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	q := p / 100
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Median returns the 50th percentile of an unsorted sample
func Median(values []float64) float64 {
	return Percentile(Sorted(values), 50)
}

// Finite returns the finite values of the sample, preserving order
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// MinMax returns the smallest and largest values of a non-empty sample
func MinMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
