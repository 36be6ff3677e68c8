package interp

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-uvspec/internal/testutil"
)

func TestLinearReproducesLine(t *testing.T) {
	x := []float64{0, 1, 3, 4, 7}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v - 1
	}

	ip, err := New(x, y, KindLinear, Extrapolate())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, v := range []float64{-2, 0, 0.5, 2.25, 6.9, 7, 10} {
		testutil.RequireNearlyEqual(t, "linear", ip.At(v), 2*v-1, 1e-12)
	}
}

func TestFillValueOutsideDomain(t *testing.T) {
	ip, err := New([]float64{1, 2, 3}, []float64{5, 6, 7}, KindLinear, FillValue(1e-18))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got := ip.Eval(nil, []float64{0.5, 1, 2.5, 3, 3.5})
	testutil.RequireSliceNearlyEqual(t, got, []float64{1e-18, 5, 6.5, 7, 1e-18}, 1e-12)
}

func TestNearest(t *testing.T) {
	ip, err := New([]float64{0, 1, 2}, []float64{10, 20, 30}, KindNearest, Extrapolate())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got := ip.Eval(make([]float64, 0, 8), []float64{-1, 0.2, 0.8, 1.9, 5})
	testutil.RequireSliceNearlyEqual(t, got, []float64{10, 10, 20, 30, 30}, 0)
}

func TestCubicInterpolatesSmoothCurve(t *testing.T) {
	x := testutil.Linspace(0, math.Pi, 41)
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = math.Sin(v)
	}

	ip, err := New(x, y, KindCubic, FillValue(0))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, v := range testutil.Linspace(0.3, 2.8, 17) {
		testutil.RequireNearlyEqual(t, "sin", ip.At(v), math.Sin(v), 1e-4)
	}
}

func TestCubicExtrapolatesEndSegment(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{0, 1, 4, 9, 16}

	ip, err := New(x, y, KindCubic, Extrapolate())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	testutil.RequireNearlyEqual(t, "right", ip.At(5), 23, 1e-12)
	testutil.RequireNearlyEqual(t, "left", ip.At(-1), -1, 1e-12)
}

func TestNewValidation(t *testing.T) {
	if _, err := New([]float64{1, 2}, []float64{1}, KindLinear, Extrapolate()); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := New([]float64{1}, []float64{1}, KindLinear, Extrapolate()); !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("expected ErrTooFewPoints, got %v", err)
	}
	if _, err := New([]float64{1, 2}, []float64{1, 2}, KindCubic, Extrapolate()); !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("expected ErrTooFewPoints for cubic, got %v", err)
	}
	if _, err := New([]float64{1, 1, 2}, []float64{1, 2, 3}, KindLinear, Extrapolate()); !errors.Is(err, ErrNotIncreasing) {
		t.Fatalf("expected ErrNotIncreasing, got %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": KindLinear, "linear": KindLinear, "Nearest": KindNearest, "cubic": KindCubic} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("ParseKind(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseKind("quintic"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestResample(t *testing.T) {
	got, err := Resample([]float64{0, 10}, []float64{0, 100}, []float64{2.5, 5}, KindLinear, Extrapolate())
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, []float64{25, 50}, 1e-12)
}
