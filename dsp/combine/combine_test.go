package combine

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-uvspec/dsp/doppler"
	"github.com/cwbudde/algo-uvspec/internal/testutil"
)

func TestSpectraIdenticalInputs(t *testing.T) {
	wl := testutil.Linspace(1400, 1405, 51)
	flux := testutil.GaussianLine(wl, 5e-14, -3e-14, 1402.5, 0.4)
	sigma := testutil.Constant(4e-15, len(wl))

	for _, n := range []int{1, 2, 4, 9} {
		wls := make([][]float64, n)
		fs := make([][]float64, n)
		es := make([][]float64, n)
		for i := 0; i < n; i++ {
			wls[i], fs[i], es[i] = wl, flux, sigma
		}
		got, err := Spectra(wls, fs, es)
		if err != nil {
			t.Fatalf("n=%d: Spectra() error = %v", n, err)
		}
		testutil.RequireSliceNearlyEqual(t, got.Flux, flux, 1e-27)
		want := testutil.Constant(4e-15/math.Sqrt(float64(n)), len(wl))
		testutil.RequireSliceNearlyEqual(t, got.Error, want, 1e-27)
		if got.Velocity != nil {
			t.Fatalf("n=%d: unexpected velocity array", n)
		}
	}
}

func TestSpectraGridAndReference(t *testing.T) {
	wl := []float64{1000, 1001, 1002, 1003}
	flux := []float64{1, 2, 3, 4}
	sigma := []float64{1, 1, 1, 1}
	grid := []float64{999, 1000.5, 1002.5, 1010}

	got, err := Spectra([][]float64{wl}, [][]float64{flux}, [][]float64{sigma},
		WithGrid(grid), WithReference(1001.5), WithFill(0))
	if err != nil {
		t.Fatalf("Spectra() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got.Flux, []float64{0, 1.5, 3.5, 0}, 1e-12)
	if len(got.Velocity) != len(grid) {
		t.Fatalf("velocity length = %d, want %d", len(got.Velocity), len(grid))
	}
	testutil.RequireNearlyEqual(t, "velocity", got.Velocity[1], doppler.Velocity(1000.5, 1001.5), 1e-9)
}

func TestSpectraErrors(t *testing.T) {
	if _, err := Spectra(nil, nil, nil); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := Spectra([][]float64{{1, 2}}, nil, nil); err == nil {
		t.Fatal("expected count mismatch error")
	}
}
