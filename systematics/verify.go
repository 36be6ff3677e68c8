package systematics

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-uvspec/line"
	"github.com/cwbudde/algo-uvspec/render"
	"github.com/cwbudde/algo-uvspec/spectrum"
)

// ErrEmptyList is returned when the line list holds no lines.
var ErrEmptyList = errors.New("systematics: empty line list")

type verifyConfig struct {
	rv       map[string][]float64
	vrange   *[2]float64
	fluxOpts []spectrum.FluxOption
}

// Option configures Verify.
type Option func(*verifyConfig)

// WithRVCorrections shifts the velocity window of line i of a species by
// rv[species][i] km/s. Missing entries mean no shift. Only used together
// with WithVelocityRange.
func WithRVCorrections(rv map[string][]float64) Option {
	return func(cfg *verifyConfig) {
		cfg.rv = rv
	}
}

// WithVelocityRange integrates every line over [lo, hi] km/s around its rest
// wavelength instead of its own wavelength range.
func WithVelocityRange(lo, hi float64) Option {
	return func(cfg *verifyConfig) {
		cfg.vrange = &[2]float64{lo, hi}
	}
}

// WithFluxOptions forwards options to spectrum.IntegratedFlux.
func WithFluxOptions(opts ...spectrum.FluxOption) Option {
	return func(cfg *verifyConfig) {
		cfg.fluxOpts = append(cfg.fluxOpts, opts...)
	}
}

func (cfg verifyConfig) rvFor(l line.Line, i int) float64 {
	shifts := cfg.rv[l.Species]
	if i < len(shifts) {
		return shifts[i]
	}
	return 0
}

// Series is the summed reference-line flux of each split.
type Series struct {
	// Time is the split midpoint and HalfSpan half its duration, in days.
	Time        []float64
	HalfSpan    []float64
	Flux        []float64
	Uncertainty []float64

	Lines []line.Line
	// LineFlux[j][i] is the flux of Lines[j] in split i.
	LineFlux [][]float64
}

// Len returns the number of splits.
func (s *Series) Len() int { return len(s.Time) }

// Baseline returns the mean summed flux, the usual normalization for
// Correct.
func (s *Series) Baseline() float64 {
	return stat.Mean(s.Flux, nil)
}

// Plot returns the series against minutes from refJD, optionally divided by
// the baseline.
func (s *Series) Plot(refJD float64, normalize bool) render.Series {
	norm := 1.0
	if normalize {
		norm = s.Baseline()
	}
	out := render.Series{
		Label: "systematics",
		X:     make([]float64, s.Len()),
		Y:     make([]float64, s.Len()),
		Err:   make([]float64, s.Len()),
	}
	for i := range s.Time {
		out.X[i] = (s.Time[i] - refJD) * 24 * 60
		out.Y[i] = s.Flux[i] / norm
		out.Err[i] = s.Uncertainty[i] / norm
	}
	return out
}

// Verify integrates every line of list in every split and sums the fluxes
// per split. Uncertainties add in quadrature.
func Verify(splits []*spectrum.Spectrum, list line.List, opts ...Option) (*Series, error) {
	if len(splits) == 0 {
		return nil, fmt.Errorf("%w: systematics need time-tag split data", spectrum.ErrMissingPrerequisite)
	}
	if list.Len() == 0 {
		return nil, ErrEmptyList
	}
	cfg := verifyConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	n := len(splits)
	s := &Series{
		Time:        make([]float64, n),
		HalfSpan:    make([]float64, n),
		Flux:        make([]float64, n),
		Uncertainty: make([]float64, n),
	}
	for i, sp := range splits {
		s.Time[i] = sp.MidJD()
		s.HalfSpan[i] = (sp.EndJD - sp.StartJD) / 2
	}

	variance := make([]float64, n)
	for _, species := range list.Species() {
		for k, l := range list[species] {
			r := spectrum.WavelengthRange(l.Range[0], l.Range[1])
			fluxOpts := cfg.fluxOpts
			if cfg.vrange != nil {
				r = spectrum.VelocityRange(cfg.vrange[0], cfg.vrange[1], l.Central)
				fluxOpts = append([]spectrum.FluxOption{spectrum.WithRVCorrection(cfg.rvFor(l, k))}, fluxOpts...)
			}

			row := make([]float64, n)
			for i, sp := range splits {
				f, unc, err := sp.IntegratedFlux(r, fluxOpts...)
				if err != nil {
					return nil, fmt.Errorf("systematics: %s: %w", l, err)
				}
				row[i] = f
				s.Flux[i] += f
				variance[i] += unc * unc
			}
			s.Lines = append(s.Lines, l)
			s.LineFlux = append(s.LineFlux, row)
		}
	}
	for i, v := range variance {
		s.Uncertainty[i] = math.Sqrt(v)
	}
	return s, nil
}
