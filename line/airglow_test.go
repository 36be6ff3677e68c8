package line_test

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-uvspec/dsp/interp"
	"github.com/cwbudde/algo-uvspec/internal/testutil"
	"github.com/cwbudde/algo-uvspec/line"
)

func TestNewAirglowTemplate(t *testing.T) {
	wl := testutil.Linspace(1214, 1218, 401)
	flux := testutil.Constant(1e-14, len(wl))

	tmpl, err := line.NewAirglowTemplate(wl, flux, nil, 0)
	if err != nil {
		t.Fatalf("NewAirglowTemplate() error = %v", err)
	}
	testutil.RequireNearlyEqual(t, "reference", tmpl.Reference, 1216, 1e-9)
	testutil.RequireNearlyEqual(t, "center velocity", tmpl.Velocity[200], 0, 1e-6)
	for _, e := range tmpl.Error {
		if e != 0 {
			t.Fatal("nil uncertainties should become zeros")
		}
	}

	flux[0] = 5
	if tmpl.Flux[0] == 5 {
		t.Fatal("template aliases its input")
	}

	if _, err := line.NewAirglowTemplate(wl, flux[:10], nil, 0); !errors.Is(err, line.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := line.NewAirglowTemplate(wl[:1], flux[:1], nil, 0); !errors.Is(err, interp.ErrTooFewPoints) {
		t.Fatalf("expected ErrTooFewPoints, got %v", err)
	}
}

func TestAirglowAdjust(t *testing.T) {
	wl := testutil.Linspace(1214, 1218, 401)
	flux := testutil.GaussianLine(wl, 1e-14, 1e-13, 1215.67, 0.2)
	sigma := testutil.Scaled(flux, 0.05)
	tmpl, err := line.NewAirglowTemplate(wl, flux, sigma, 1215.67)
	if err != nil {
		t.Fatal(err)
	}

	f, e, err := tmpl.Adjust(0, 2, interp.KindLinear, interp.FillValue(0))
	if err != nil {
		t.Fatalf("Adjust() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, f, testutil.Scaled(flux, 2), 1e-25)
	testutil.RequireSliceNearlyEqual(t, e, testutil.Scaled(sigma, 2), 1e-25)
	testutil.RequireSliceNearlyEqual(t, tmpl.Flux, flux, 0)

	adjusted, err := tmpl.Adjusted(30, 1, interp.KindLinear, interp.FillValue(0))
	if err != nil {
		t.Fatal(err)
	}
	if argmax(adjusted.Flux) <= argmax(tmpl.Flux) {
		t.Fatal("positive shift should move the profile redwards")
	}
	testutil.RequireSliceNearlyEqual(t, tmpl.Flux, flux, 0)

	if err := tmpl.AdjustInPlace(0, 3, interp.KindLinear, interp.FillValue(0)); err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, tmpl.Flux, testutil.Scaled(flux, 3), 1e-25)
}

func TestAirglowInterpolateTo(t *testing.T) {
	wl := testutil.Linspace(1214, 1218, 41)
	flux := make([]float64, len(wl))
	for i, x := range wl {
		flux[i] = 1e-14 + 1e-15*(x-1214)
	}
	tmpl, err := line.NewAirglowTemplate(wl, flux, testutil.Constant(1e-16, len(wl)), 0)
	if err != nil {
		t.Fatal(err)
	}

	at := []float64{1213, 1215.05, 1219}
	f, e, err := tmpl.InterpolateTo(at, interp.KindLinear)
	if err != nil {
		t.Fatalf("InterpolateTo() error = %v", err)
	}
	for i, x := range at {
		testutil.RequireNearlyEqual(t, "flux", f[i], 1e-14+1e-15*(x-1214), 1e-24)
		testutil.RequireNearlyEqual(t, "error", e[i], 1e-16, 1e-24)
	}
}
