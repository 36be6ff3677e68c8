package fit

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-uvspec/internal/testutil"
)

func TestPolyfitExact(t *testing.T) {
	want := []float64{1.5, -0.25, 0.125}
	x := testutil.Linspace(-3, 3, 13)
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = Polyval(want, v)
	}

	got, err := Polyfit(x, y, 2)
	if err != nil {
		t.Fatalf("Polyfit() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-10)
	testutil.RequireNearlyEqual(t, "rms", RMS(got, x, y), 0, 1e-10)
}

func TestPolyfitLine(t *testing.T) {
	// Least-squares line through points that do not lie on one.
	x := []float64{0, 1, 2, 3}
	y := []float64{1, 3, 2, 4}

	got, err := Polyfit(x, y, 1)
	if err != nil {
		t.Fatalf("Polyfit() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{1.3, 0.8}, 1e-12)
}

func TestPolyfitErrors(t *testing.T) {
	tests := []struct {
		name   string
		x, y   []float64
		degree int
		want   error
	}{
		{name: "negative degree", x: []float64{1}, y: []float64{1}, degree: -1, want: ErrInvalidDegree},
		{name: "length mismatch", x: []float64{1, 2}, y: []float64{1}, degree: 0, want: ErrLengthMismatch},
		{name: "too few points", x: []float64{1, 2}, y: []float64{1, 2}, degree: 2, want: ErrTooFewPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Polyfit(tt.x, tt.y, tt.degree); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPolyvalSlice(t *testing.T) {
	got := PolyvalSlice([]float64{1, 2, 3}, []float64{0, 1, 2})
	testutil.RequireSliceNearlyEqual(t, got, []float64{1, 6, 17}, 0)
}
