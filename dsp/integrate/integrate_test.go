package integrate

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-uvspec/internal/testutil"
)

func TestSimpsonPolynomials(t *testing.T) {
	x := testutil.Linspace(0, 2, 21)
	tests := []struct {
		name string
		f    func(float64) float64
		want float64
	}{
		{name: "constant", f: func(float64) float64 { return 3 }, want: 6},
		{name: "linear", f: func(v float64) float64 { return 2*v + 1 }, want: 6},
		{name: "quadratic", f: func(v float64) float64 { return v * v }, want: 8.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y := make([]float64, len(x))
			for i, v := range x {
				y[i] = tt.f(v)
			}
			testutil.RequireNearlyEqual(t, "integral", Simpson(x, y), tt.want, 1e-10)
		})
	}
}

func TestSimpsonShortInputs(t *testing.T) {
	if got := Simpson([]float64{1}, []float64{5}); got != 0 {
		t.Fatalf("single sample: got %v, want 0", got)
	}
	testutil.RequireNearlyEqual(t, "two samples", Simpson([]float64{0, 2}, []float64{1, 3}), 4, 1e-15)
}

func TestSpacing(t *testing.T) {
	testutil.RequireSliceNearlyEqual(t, Spacing([]float64{1, 2, 4, 7}), []float64{1, 2, 3}, 0)
	if Spacing([]float64{1}) != nil {
		t.Fatal("expected nil spacing for a single sample")
	}
}

func TestQuadratureSum(t *testing.T) {
	dx := []float64{0.5, 0.5, 0.5, 0.5}
	sigma := []float64{2, 2, 2, 2, 99}
	// sqrt(4·(0.5·2)²) = 2; the extra sigma has no spacing partner.
	testutil.RequireNearlyEqual(t, "quadrature", QuadratureSum(dx, sigma), 2, 1e-12)
	if QuadratureSum(nil, sigma) != 0 {
		t.Fatal("expected 0 for empty spacing")
	}
}

func TestCombine(t *testing.T) {
	testutil.RequireNearlyEqual(t, "combine", Combine(3, 4), 5, 1e-15)
}

func TestBootstrapReproducible(t *testing.T) {
	x := testutil.Linspace(1200, 1201, 51)
	y := testutil.Constant(1e-14, len(x))
	sigma := testutil.Constant(1e-15, len(x))
	cfg := BootstrapConfig{Samples: 2000, Seed: 99}

	a := Bootstrap(x, y, sigma, cfg)
	b := Bootstrap(x, y, sigma, cfg)
	if a != b {
		t.Fatalf("same seed gave %v and %v", a, b)
	}
	if c := Bootstrap(x, y, sigma, BootstrapConfig{Samples: 2000, Seed: 100}); c == a {
		t.Fatal("different seeds gave identical estimates")
	}
}

func TestBootstrapSampleStdDev(t *testing.T) {
	x := []float64{0, 1, 2}
	y := []float64{1, 2, 1}
	sigma := []float64{0.1, 0.2, 0.1}

	rng := NewRand(7)
	var fluxes [2]float64
	draw := make([]float64, len(y))
	for k := range fluxes {
		for i := range y {
			draw[i] = y[i] + sigma[i]*rng.NormFloat64()
		}
		fluxes[k] = Simpson(x, draw)
	}

	// Two samples: the n-1 estimator gives |a-b|/sqrt(2), the population
	// estimator |a-b|/2.
	want := math.Abs(fluxes[0]-fluxes[1]) / math.Sqrt2
	got := Bootstrap(x, y, sigma, BootstrapConfig{Samples: 2, Seed: 7})
	testutil.RequireRelative(t, "stddev", got, want, 1e-12)
}

func TestBootstrapConvergesToQuadratureSum(t *testing.T) {
	x := testutil.Linspace(1300, 1302, 101)
	y := testutil.GaussianLine(x, 3e-14, 2e-14, 1301, 0.3)
	sigma := testutil.Constant(2e-15, len(x))

	quad := QuadratureSum(Spacing(x), sigma)
	boot := Bootstrap(x, y, sigma, DefaultBootstrap())

	// Simpson weights inflate white-noise variance by ~10/9 over Δλ weights.
	if r := boot / quad; math.Abs(r-1) > 0.1 {
		t.Fatalf("bootstrap/quadrature = %v, want within 10%% of 1", r)
	}
}
