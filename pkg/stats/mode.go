package stats

import (
	"errors"
	"math"
)

// ModeMethod records how a ModeEstimate was produced
type ModeMethod string

const (
	MethodKDE        ModeMethod = "kde"
	MethodHistogram  ModeMethod = "histogram"
	MethodDegenerate ModeMethod = "degenerate"
	MethodEmpty      ModeMethod = "empty"
)

const (
	// DefaultGridPoints is the number of evaluation points for the density grid.
	DefaultGridPoints = 1000
	// HistogramBins is the bin count of the histogram fallback.
	HistogramBins = 50
)

// ErrDensityFailed reports a numerically unusable kernel density fit
var ErrDensityFailed = errors.New("density estimation failed")

// ModeEstimate is the most probable value of a sample plus the probability mass around it.
// Probabilities are percentages of the finite sample.
type ModeEstimate struct {
	Mode              float64    `json:"mode"`
	Density           float64    `json:"density"`
	ProbNearMode5Pct  float64    `json:"prob_near_mode_5pct"`
	ProbNearMode10Pct float64    `json:"prob_near_mode_10pct"`
	ProbAboveMode     float64    `json:"prob_above_mode"`
	ProbBelowMode     float64    `json:"prob_below_mode"`
	Method            ModeMethod `json:"method"`
}

// Fallback reports whether the estimate came from the histogram fallback
func (m ModeEstimate) Fallback() bool { return m.Method == MethodHistogram }

// EstimateMode locates the mode of the sample with a Gaussian kernel density
// evaluated on gridPoints points spanning the sample range widened by 10% per side.
// Non-finite values are ignored. A zero-variance sample yields that value with
// density 1 and all mass near the mode. When the KDE fails numerically the mode
// comes from a 50-bin histogram instead. EstimateMode never returns an error.
func EstimateMode(values []float64, gridPoints int) ModeEstimate {
	data := Finite(values)
	if len(data) == 0 {
		return ModeEstimate{Method: MethodEmpty}
	}
	lo, hi := MinMax(data)
	if lo == hi {
		return ModeEstimate{
			Mode:              data[0],
			Density:           1.0,
			ProbNearMode5Pct:  100.0,
			ProbNearMode10Pct: 100.0,
			Method:            MethodDegenerate,
		}
	}
	if gridPoints < 2 {
		gridPoints = DefaultGridPoints
	}

	est, err := kdeMode(data, lo, hi, gridPoints)
	if err != nil {
		return histogramMode(data, lo, hi, HistogramBins)
	}
	return est
}

func kdeMode(data []float64, lo, hi float64, gridPoints int) (ModeEstimate, error) {
	kde, err := NewGaussianKDE(data)
	if err != nil {
		return ModeEstimate{}, err
	}
	span := hi - lo
	start := lo - 0.1*span
	stop := hi + 0.1*span
	step := (stop - start) / float64(gridPoints-1)

	bestX, bestD := start, math.Inf(-1)
	for i := 0; i < gridPoints; i++ {
		x := start + float64(i)*step
		d := kde.Density(x)
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return ModeEstimate{}, ErrDensityFailed
		}
		if d > bestD {
			bestX, bestD = x, d
		}
	}
	if bestD <= 0 {
		return ModeEstimate{}, ErrDensityFailed
	}

	est := ModeEstimate{Mode: bestX, Density: bestD, Method: MethodKDE}
	est.ProbNearMode5Pct = nearMass(data, bestX, span, 0.05)
	est.ProbNearMode10Pct = nearMass(data, bestX, span, 0.10)
	est.ProbAboveMode, est.ProbBelowMode = sideMass(data, bestX)
	return est, nil
}

// nearMass is the percentage of samples within frac of the mode's magnitude,
// or within frac of the sample range when the mode is exactly zero.
func nearMass(data []float64, mode, span, frac float64) float64 {
	width := math.Abs(mode) * frac
	if mode == 0 {
		width = span * frac
	}
	count := 0
	for _, v := range data {
		if v >= mode-width && v <= mode+width {
			count++
		}
	}
	return float64(count) / float64(len(data)) * 100
}

func sideMass(data []float64, mode float64) (above, below float64) {
	var a, b int
	for _, v := range data {
		switch {
		case v > mode:
			a++
		case v < mode:
			b++
		}
	}
	n := float64(len(data))
	return float64(a) / n * 100, float64(b) / n * 100
}

// histogramMode takes the midpoint of the fullest bin; the last bin is closed on the right.
func histogramMode(data []float64, lo, hi float64, bins int) ModeEstimate {
	counts := make([]int, bins)
	width := (hi - lo) / float64(bins)
	for _, v := range data {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		counts[idx]++
	}
	best := 0
	for i, c := range counts {
		if c > counts[best] {
			best = i
		}
	}
	mode := lo + (float64(best)+0.5)*width
	est := ModeEstimate{
		Mode:    mode,
		Density: float64(counts[best]) / float64(len(data)),
		Method:  MethodHistogram,
	}
	est.ProbAboveMode, est.ProbBelowMode = sideMass(data, mode)
	return est
}
