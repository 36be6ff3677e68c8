package integrate

import (
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"
	gonumintegrate "gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultSamples is the bootstrap sample count.
	DefaultSamples = 10000
	// DefaultSeed seeds every random draw that does not set its own seed.
	DefaultSeed uint64 = 20170117
)

// Simpson integrates y(x) with composite Simpson's rule.
//
// Two samples fall back to the trapezoid; fewer return 0. x must be strictly
// increasing and as long as y.
func Simpson(x, y []float64) float64 {
	n := len(y)
	if len(x) < n {
		n = len(x)
	}
	switch {
	case n < 2:
		return 0
	case n == 2:
		return 0.5 * (y[0] + y[1]) * (x[1] - x[0])
	default:
		return gonumintegrate.Simpsons(x[:n], y[:n])
	}
}

// Spacing returns the forward differences x[i+1]-x[i].
func Spacing(x []float64) []float64 {
	if len(x) < 2 {
		return nil
	}
	d := make([]float64, len(x)-1)
	floats.SubTo(d, x[1:], x[:len(x)-1])
	return d
}

// QuadratureSum returns sqrt(Σ (dx_i·σ_i)²) over the common length of dx
// and sigma.
func QuadratureSum(dx, sigma []float64) float64 {
	n := len(dx)
	if len(sigma) < n {
		n = len(sigma)
	}
	if n == 0 {
		return 0
	}
	prod := make([]float64, n)
	vecmath.MulBlock(prod, dx[:n], sigma[:n])
	sq := make([]float64, n)
	vecmath.Power(sq, prod, make([]float64, n))
	return math.Sqrt(floats.Sum(sq))
}

// Combine adds independent uncertainties in quadrature.
func Combine(sigma ...float64) float64 {
	var s float64
	for _, v := range sigma {
		s += v * v
	}
	return math.Sqrt(s)
}

// BootstrapConfig controls Bootstrap.
type BootstrapConfig struct {
	Samples int
	Seed    uint64
}

// DefaultBootstrap returns the configuration used when callers pass a zero
// value.
func DefaultBootstrap() BootstrapConfig {
	return BootstrapConfig{Samples: DefaultSamples, Seed: DefaultSeed}
}

// NewRand returns the generator used for seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb))
}

// Bootstrap estimates the uncertainty of Simpson(x, y) by integrating
// cfg.Samples realizations y_i + σ_i·N(0,1) and returning their sample
// standard deviation. The n-1 normalization differs from the population
// estimator by a factor sqrt(n/(n-1)), about 5e-5 at DefaultSamples.
func Bootstrap(x, y, sigma []float64, cfg BootstrapConfig) float64 {
	if cfg.Samples <= 1 {
		cfg.Samples = DefaultSamples
	}
	if cfg.Seed == 0 {
		cfg.Seed = DefaultSeed
	}
	n := len(y)
	if len(sigma) < n {
		n = len(sigma)
	}
	if n < 2 {
		return 0
	}

	rng := NewRand(cfg.Seed)
	draw := make([]float64, n)
	fluxes := make([]float64, cfg.Samples)
	for k := range fluxes {
		for i := 0; i < n; i++ {
			draw[i] = y[i] + sigma[i]*rng.NormFloat64()
		}
		fluxes[k] = Simpson(x[:n], draw)
	}
	return stat.StdDev(fluxes, nil)
}
