package variability

import (
	"errors"
	"fmt"
	"math"
)

// ErrLengthMismatch is returned when flux and sigma differ in length.
var ErrLengthMismatch = errors.New("variability: flux and sigma lengths differ")

// Stats holds the variability statistics of one light curve.
type Stats struct {
	Length   int
	Mean     float64
	Max      float64
	MaxPos   int
	Min      float64
	MinPos   int
	Range    float64 // max - min
	Variance float64 // population variance
	StdDev   float64
	Skewness float64
	Kurtosis float64 // excess

	// Amplitude is Range relative to Mean.
	Amplitude float64

	// Weighted statistics use w = 1/σ². Points with σ <= 0 or NaN are
	// skipped; without any weighted point these fields are NaN.
	Weighted          int
	WeightedMean      float64
	WeightedMeanError float64
	// Chi2 tests the constant-flux hypothesis against WeightedMean.
	Chi2        float64
	ReducedChi2 float64

	// ExcessVariance is the normalized excess variance
	// (s² − <σ²>)/Mean² with the sample variance s².
	ExcessVariance float64
	// FractionalVariability is sqrt(ExcessVariance), zero when the excess
	// is negative.
	FractionalVariability float64
}

// Calculate computes all statistics in a single pass. sigma may be nil.
func Calculate(flux, sigma []float64) (Stats, error) {
	if sigma != nil && len(sigma) != len(flux) {
		return Stats{}, fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(flux), len(sigma))
	}
	var a Accumulator
	a.update(flux, sigma)
	return a.Result(), nil
}

// Moments returns the mean, population variance, skewness and excess
// kurtosis of flux.
func Moments(flux []float64) (mean, variance, skewness, kurtosis float64) {
	var a Accumulator
	a.update(flux, nil)
	s := a.Result()
	if s.Length == 0 {
		return 0, 0, 0, 0
	}
	return s.Mean, s.Variance, s.Skewness, s.Kurtosis
}

// Accumulator collects light-curve statistics across blocks of
// measurements. The zero value is ready to use.
type Accumulator struct {
	n              int
	mean           float64
	m2, m3, m4     float64
	maxVal, minVal float64
	maxPos, minPos int

	weighted int
	wsum     float64
	wmean    float64
	wss      float64
	sigmaSq  float64
	sigmaN   int
}

// Update adds a block of measurements. sigma may be nil.
func (a *Accumulator) Update(flux, sigma []float64) error {
	if sigma != nil && len(sigma) != len(flux) {
		return fmt.Errorf("%w: %d and %d", ErrLengthMismatch, len(flux), len(sigma))
	}
	a.update(flux, sigma)
	return nil
}

func (a *Accumulator) update(flux, sigma []float64) {
	for i, x := range flux {
		pos := a.n
		a.n++
		ni := float64(a.n)

		delta := x - a.mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(a.n-1)

		// M4 must be updated before M3, and M3 before M2.
		a.m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*a.m2 - 4*deltaN*a.m3
		a.m3 += term1*deltaN*(float64(a.n-1)-1) - 3*deltaN*a.m2
		a.m2 += term1
		a.mean += deltaN

		if pos == 0 || x > a.maxVal {
			a.maxVal, a.maxPos = x, pos
		}
		if pos == 0 || x < a.minVal {
			a.minVal, a.minPos = x, pos
		}

		if sigma == nil {
			continue
		}
		e := sigma[i]
		if !(e > 0) {
			continue
		}
		a.sigmaSq += e * e
		a.sigmaN++

		w := 1 / (e * e)
		a.weighted++
		a.wsum += w
		d := x - a.wmean
		a.wmean += w / a.wsum * d
		a.wss += w * d * (x - a.wmean)
	}
}

// Result computes the statistics of everything added so far.
func (a *Accumulator) Result() Stats {
	nan := math.NaN()
	s := Stats{
		Length:            a.n,
		WeightedMean:      nan,
		WeightedMeanError: nan,
		Chi2:              nan,
		ReducedChi2:       nan,
		ExcessVariance:    nan,
	}
	if a.n == 0 {
		s.FractionalVariability = nan
		return s
	}

	nf := float64(a.n)
	s.Mean = a.mean
	s.Max, s.MaxPos = a.maxVal, a.maxPos
	s.Min, s.MinPos = a.minVal, a.minPos
	s.Range = a.maxVal - a.minVal
	if a.mean != 0 {
		s.Amplitude = s.Range / a.mean
	}
	s.Variance = a.m2 / nf
	s.StdDev = math.Sqrt(s.Variance)
	if s.Variance > 0 {
		s.Skewness = (a.m3 / nf) / (s.Variance * s.StdDev)
		s.Kurtosis = (a.m4/nf)/(s.Variance*s.Variance) - 3
	}

	if a.weighted > 0 {
		s.Weighted = a.weighted
		s.WeightedMean = a.wmean
		s.WeightedMeanError = 1 / math.Sqrt(a.wsum)
		s.Chi2 = a.wss
		if a.weighted > 1 {
			s.ReducedChi2 = a.wss / float64(a.weighted-1)
		}
	}

	if a.sigmaN > 0 && a.n > 1 && a.mean != 0 {
		sampleVar := a.m2 / (nf - 1)
		s.ExcessVariance = (sampleVar - a.sigmaSq/float64(a.sigmaN)) / (a.mean * a.mean)
	}
	s.FractionalVariability = math.Sqrt(math.Max(s.ExcessVariance, 0))
	return s
}

// Reset clears the accumulator for reuse.
func (a *Accumulator) Reset() {
	*a = Accumulator{}
}
