package spectrum

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-uvspec/dsp/doppler"
	"github.com/cwbudde/algo-uvspec/dsp/grid"
	"github.com/cwbudde/algo-uvspec/dsp/integrate"
)

// Range is a spectral interval given either in wavelength or as a velocity
// window around a reference wavelength.
type Range struct {
	lo, hi   float64
	ref      float64
	velocity bool
}

// WavelengthRange returns the interval [lo, hi] in Å.
func WavelengthRange(lo, hi float64) Range {
	return Range{lo: lo, hi: hi}
}

// VelocityRange returns the interval [vlo, vhi] in km/s around ref (Å).
func VelocityRange(vlo, vhi, ref float64) Range {
	return Range{lo: vlo, hi: vhi, ref: ref, velocity: true}
}

// IsVelocity reports whether r was given in velocity.
func (r Range) IsVelocity() bool { return r.velocity }

// Reference returns the reference wavelength of a velocity range, or 0.
func (r Range) Reference() float64 { return r.ref }

// Bounds returns the bounds as given.
func (r Range) Bounds() [2]float64 { return [2]float64{r.lo, r.hi} }

// Wavelengths resolves r to a wavelength interval. Velocity ranges are first
// shifted by rv km/s.
func (r Range) Wavelengths(rv float64) [2]float64 {
	if !r.velocity {
		return [2]float64{r.lo, r.hi}
	}
	return doppler.Window(r.ref, r.lo+rv, r.hi+rv)
}

func (r Range) String() string {
	if r.velocity {
		return fmt.Sprintf("%.1f..%.1f km/s @ %.3f Å", r.lo, r.hi, r.ref)
	}
	return fmt.Sprintf("%.3f..%.3f Å", r.lo, r.hi)
}

// Method selects how the integrated-flux uncertainty is estimated.
type Method int

const (
	// MethodQuadraticSum propagates errors as sqrt(Σ(Δλ_i·σ_i)²).
	MethodQuadraticSum Method = iota
	// MethodBootstrap integrates Gaussian realizations of the spectrum and
	// returns their standard deviation.
	MethodBootstrap
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodQuadraticSum:
		return "quadratic_sum"
	case MethodBootstrap:
		return "bootstrap"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod parses "quadratic_sum" or "bootstrap".
func ParseMethod(name string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "quadratic_sum", "quadratic-sum", "":
		return MethodQuadraticSum, nil
	case "bootstrap":
		return MethodBootstrap, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMethod, name)
	}
}

type fluxConfig struct {
	method    Method
	rv        float64
	bootstrap integrate.BootstrapConfig
}

// FluxOption configures IntegratedFlux.
type FluxOption func(*fluxConfig)

func defaultFluxConfig() fluxConfig {
	return fluxConfig{method: MethodQuadraticSum, bootstrap: integrate.DefaultBootstrap()}
}

// WithMethod selects the uncertainty method.
func WithMethod(m Method) FluxOption {
	return func(cfg *fluxConfig) {
		cfg.method = m
	}
}

// WithRVCorrection shifts velocity ranges by v km/s.
func WithRVCorrection(v float64) FluxOption {
	return func(cfg *fluxConfig) {
		cfg.rv = v
	}
}

// WithSamples sets the bootstrap sample count.
func WithSamples(n int) FluxOption {
	return func(cfg *fluxConfig) {
		if n > 1 {
			cfg.bootstrap.Samples = n
		}
	}
}

// WithSeed sets the bootstrap seed.
func WithSeed(seed uint64) FluxOption {
	return func(cfg *fluxConfig) {
		if seed != 0 {
			cfg.bootstrap.Seed = seed
		}
	}
}

// IntegratedFlux integrates the flux over r with Simpson's rule and returns
// the flux and its uncertainty.
//
// The samples integrated are the half-open index range between the pixels
// nearest to the bounds.
func (s *Spectrum) IntegratedFlux(r Range, opts ...FluxOption) (flux, uncertainty float64, err error) {
	cfg := defaultFluxConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.method != MethodQuadraticSum && cfg.method != MethodBootstrap {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnsupportedMethod, cfg.method)
	}

	side, lo, hi, err := s.locate(r.Wavelengths(cfg.rv))
	if err != nil {
		return 0, 0, err
	}
	seg := s.Segments[side]
	wl := seg.Wavelength[lo:hi]
	flux = integrate.Simpson(wl, seg.Flux[lo:hi])

	switch cfg.method {
	case MethodBootstrap:
		uncertainty = integrate.Bootstrap(wl, seg.Flux[lo:hi], seg.Error[lo:hi], cfg.bootstrap)
	default:
		dx := integrate.Spacing(seg.Wavelength)
		end := hi
		if end > len(dx) {
			end = len(dx)
		}
		uncertainty = integrate.QuadratureSum(dx[lo:end], seg.Error[lo:hi])
	}
	return flux, uncertainty, nil
}

// locate resolves the side and nearest-pixel index pair of a wavelength
// interval.
func (s *Spectrum) locate(wr [2]float64) (side grid.Side, lo, hi int, err error) {
	side, err = grid.PickSide(s.Wavelengths(), wr)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("spectrum %s: %w", s.Dataset, err)
	}
	lo, hi = grid.IndexRange(s.Segments[side].Wavelength, wr)
	return side, lo, hi, nil
}
