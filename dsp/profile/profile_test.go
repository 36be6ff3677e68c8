package profile

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/integrate"

	"github.com/cwbudde/algo-uvspec/internal/testutil"
)

func TestGaussian(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{name: "peak", x: 2, want: 3},
		{name: "one sigma", x: 2.5, want: 3 * math.Exp(-0.5)},
		{name: "two sigma", x: 1, want: 3 * math.Exp(-2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.RequireNearlyEqual(t, tt.name, Gaussian(tt.x, 2, 0.5, 3), tt.want, 1e-14)
		})
	}
}

func TestNormalizedGaussianUnitArea(t *testing.T) {
	x := testutil.Linspace(-10, 10, 2001)
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = NormalizedGaussian(v, 0.3, 0.8)
	}
	testutil.RequireNearlyEqual(t, "area", integrate.Simpsons(x, y), 1, 1e-8)
}

// erfcx is the scaled complementary error function exp(y²)·erfc(y). Past
// y = 20 exp(y²) overflows, so the asymptotic series takes over.
func erfcx(y float64) float64 {
	if y < 20 {
		return math.Exp(y*y) * math.Erfc(y)
	}
	v := 1 / (2 * y * y)
	return (1 - v + 3*v*v - 15*v*v*v) / (y * math.Sqrt(math.Pi))
}

func TestFaddeevaImaginaryAxis(t *testing.T) {
	// w(iy) = erfcx(y), real.
	for _, y := range []float64{0.1, 1, 3, 10, 30} {
		want := erfcx(y)
		got := Faddeeva(complex(0, y))
		testutil.RequireRelative(t, "Re w", real(got), want, 2e-4)
		testutil.RequireNearlyEqual(t, "Im w", imag(got), 0, 1e-6)
	}
}

func TestNormalizedVoigtDopplerLimit(t *testing.T) {
	for _, u := range []float64{0, 0.5, 1, 2, 3} {
		testutil.RequireNearlyEqual(t, "H(0,u)", NormalizedVoigt(0, u), math.Exp(-u*u), 2e-4)
	}
}

func TestNormalizedVoigtLorentzWings(t *testing.T) {
	a, u := 0.01, 20.0
	want := a / (math.Sqrt(math.Pi) * u * u)
	testutil.RequireRelative(t, "H(a,u)", NormalizedVoigt(a, u), want, 1e-2)
}

func TestGaussianSliceReuse(t *testing.T) {
	xs := []float64{-1, 0, 1}
	dst := make([]float64, 8)
	got := GaussianSlice(dst, xs, 0, 1, 1)
	if len(got) != 3 || &got[0] != &dst[0] {
		t.Fatalf("GaussianSlice did not reuse dst")
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{math.Exp(-0.5), 1, math.Exp(-0.5)}, 1e-15)
}
