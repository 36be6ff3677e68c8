package systematics

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-uvspec/dsp/grid"
	"github.com/cwbudde/algo-uvspec/fit"
	"github.com/cwbudde/algo-uvspec/spectrum"
)

// DefaultJDShift is subtracted from Julian Dates before the polynomial fit.
const DefaultJDShift = 2.45e6

// Errors returned by Correct.
var (
	ErrSeriesMismatch  = errors.New("systematics: series and splits differ in length")
	ErrInvalidBaseline = errors.New("systematics: baseline must be finite and non-zero")
	ErrGridMismatch    = errors.New("systematics: split and parent grids differ")
)

type correctConfig struct {
	jdShift   float64
	recompute bool
	shiftNet  float64
}

// CorrectOption configures Correct.
type CorrectOption func(*correctConfig)

// WithJDShift sets the offset subtracted from the split times before
// fitting. Default DefaultJDShift.
func WithJDShift(v float64) CorrectOption {
	return func(cfg *correctConfig) {
		cfg.jdShift = v
	}
}

// WithRecomputeErrors recomputes Poisson errors of the corrected splits and
// parent from their new flux, with the given net-count floor.
func WithRecomputeErrors(shiftNet float64) CorrectOption {
	return func(cfg *correctConfig) {
		cfg.recompute = true
		cfg.shiftNet = shiftNet
	}
}

// Result holds the corrected spectra and the fitted drift.
type Result struct {
	Parent *spectrum.Spectrum
	Splits []*spectrum.Spectrum
	// Factors[i] is the drift model at the time of split i.
	Factors []float64
	// Coefficients of the drift polynomial in increasing powers of
	// (JD − JDShift).
	Coefficients []float64
	JDShift      float64
	// RMS of the normalized series about the fit.
	RMS float64
}

// Correct fits a polynomial of the given degree to series.Flux/baseline
// against split time, divides the flux of split i by the fitted factor and
// sets the parent flux to the mean of the corrected splits. The parent error
// becomes sqrt(Σσ²)/N over the splits.
func Correct(parent *spectrum.Spectrum, splits []*spectrum.Spectrum, series *Series, baseline float64, degree int, opts ...CorrectOption) (*Result, error) {
	if len(splits) == 0 {
		return nil, fmt.Errorf("%w: systematics need time-tag split data", spectrum.ErrMissingPrerequisite)
	}
	if series == nil || series.Len() != len(splits) {
		return nil, ErrSeriesMismatch
	}
	if baseline == 0 || math.IsNaN(baseline) || math.IsInf(baseline, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseline, baseline)
	}
	cfg := correctConfig{jdShift: DefaultJDShift, shiftNet: spectrum.DefaultShiftNet}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	x := make([]float64, len(splits))
	y := make([]float64, len(splits))
	for i := range splits {
		x[i] = series.Time[i] - cfg.jdShift
		y[i] = series.Flux[i] / baseline
	}
	coeff, err := fit.Polyfit(x, y, degree)
	if err != nil {
		return nil, fmt.Errorf("systematics: %w", err)
	}
	factors := fit.PolyvalSlice(coeff, x)

	res := &Result{
		Splits:       make([]*spectrum.Spectrum, len(splits)),
		Factors:      factors,
		Coefficients: coeff,
		JDShift:      cfg.jdShift,
		RMS:          fit.RMS(coeff, x, y),
	}
	for i, sp := range splits {
		c, err := divide(sp, factors[i])
		if err != nil {
			return nil, err
		}
		if cfg.recompute {
			if c, err = c.ProperError(cfg.shiftNet); err != nil {
				return nil, fmt.Errorf("systematics: split %s: %w", sp.Dataset, err)
			}
		}
		res.Splits[i] = c
	}

	if res.Parent, err = mean(parent, res.Splits); err != nil {
		return nil, err
	}
	if cfg.recompute {
		if res.Parent, err = res.Parent.ProperError(cfg.shiftNet); err != nil {
			return nil, fmt.Errorf("systematics: parent: %w", err)
		}
	}
	return res, nil
}

func divide(s *spectrum.Spectrum, factor float64) (*spectrum.Spectrum, error) {
	if factor == 0 || math.IsNaN(factor) {
		return nil, fmt.Errorf("systematics: split %s: correction factor %v", s.Dataset, factor)
	}
	c := s.Clone()
	for _, side := range grid.Sides {
		flux := c.Segments[side].Flux
		for k := range flux {
			flux[k] /= factor
		}
	}
	c.Version++
	return c, nil
}

func mean(parent *spectrum.Spectrum, splits []*spectrum.Spectrum) (*spectrum.Spectrum, error) {
	c := parent.Clone()
	n := float64(len(splits))
	for _, side := range grid.Sides {
		seg := &c.Segments[side]
		if seg.Empty() {
			continue
		}
		flux := make([]float64, seg.Len())
		sigma := make([]float64, seg.Len())
		for _, sp := range splits {
			ss := sp.Side(side)
			if ss.Len() != seg.Len() {
				return nil, fmt.Errorf("%w: %s side of %s has %d pixels, parent %d", ErrGridMismatch, side, sp.Dataset, ss.Len(), seg.Len())
			}
			for k := range flux {
				flux[k] += ss.Flux[k]
				sigma[k] += ss.Error[k] * ss.Error[k]
			}
		}
		for k := range flux {
			flux[k] /= n
			sigma[k] = math.Sqrt(sigma[k]) / n
		}
		seg.Flux, seg.Error = flux, sigma
	}
	c.Version++
	return c, nil
}
