// Package combine co-adds spectra onto a common wavelength grid.
package combine

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-uvspec/dsp/doppler"
	"github.com/cwbudde/algo-uvspec/dsp/interp"
)

// ErrEmptyInput is returned when no spectra are given.
var ErrEmptyInput = errors.New("combine: no spectra")

// DefaultFill is the flux assigned to grid points outside a member spectrum.
const DefaultFill = 1e-18

// Result is a co-added spectrum. Velocity is nil unless a reference
// wavelength was supplied.
type Result struct {
	Wavelength []float64
	Velocity   []float64
	Flux       []float64
	Error      []float64
}

type config struct {
	grid      []float64
	reference float64
	fill      float64
}

// Option configures Spectra.
type Option func(*config)

// WithGrid resamples every member onto wl instead of the first member's grid.
func WithGrid(wl []float64) Option {
	return func(cfg *config) {
		if len(wl) > 0 {
			cfg.grid = wl
		}
	}
}

// WithReference also returns Doppler velocities relative to ref.
func WithReference(ref float64) Option {
	return func(cfg *config) {
		if ref > 0 {
			cfg.reference = ref
		}
	}
}

// WithFill overrides the out-of-domain fill value.
func WithFill(v float64) Option {
	return func(cfg *config) {
		cfg.fill = v
	}
}

// Spectra linearly resamples every spectrum onto a common grid and returns
// the unweighted mean flux with error sqrt(Σσ²)/N.
func Spectra(wavelengths, fluxes, errs [][]float64, opts ...Option) (Result, error) {
	n := len(wavelengths)
	if n == 0 {
		return Result{}, ErrEmptyInput
	}
	if len(fluxes) != n || len(errs) != n {
		return Result{}, fmt.Errorf("combine: got %d wavelength, %d flux and %d error arrays", n, len(fluxes), len(errs))
	}

	cfg := config{fill: DefaultFill}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	wl := cfg.grid
	if wl == nil {
		wl = wavelengths[0]
	}

	out := Result{
		Wavelength: append([]float64(nil), wl...),
		Flux:       make([]float64, len(wl)),
		Error:      make([]float64, len(wl)),
	}
	fill := interp.FillValue(cfg.fill)
	f := make([]float64, len(wl))
	e := make([]float64, len(wl))
	for i := 0; i < n; i++ {
		fi, err := interp.New(wavelengths[i], fluxes[i], interp.KindLinear, fill)
		if err != nil {
			return Result{}, fmt.Errorf("combine: spectrum %d flux: %w", i, err)
		}
		ei, err := interp.New(wavelengths[i], errs[i], interp.KindLinear, fill)
		if err != nil {
			return Result{}, fmt.Errorf("combine: spectrum %d error: %w", i, err)
		}
		fi.Eval(f, wl)
		ei.Eval(e, wl)
		for k := range wl {
			out.Flux[k] += f[k]
			out.Error[k] += e[k] * e[k]
		}
	}

	nf := float64(n)
	for k := range wl {
		out.Flux[k] /= nf
		out.Error[k] = math.Sqrt(out.Error[k]) / nf
	}
	if cfg.reference > 0 {
		out.Velocity = doppler.Velocities(out.Wavelength, cfg.reference)
	}
	return out, nil
}
