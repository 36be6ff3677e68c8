package line_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-uvspec/dsp/doppler"
	"github.com/cwbudde/algo-uvspec/internal/testutil"
	"github.com/cwbudde/algo-uvspec/line"
	"github.com/cwbudde/algo-uvspec/spectrum"
	"github.com/cwbudde/algo-uvspec/spectrum/spectrumtest"
)

const (
	lya       = 1215.67
	trueShift = 15.0
)

var trueScales = []float64{2, 3}

func airglowTemplate(t *testing.T) *line.AirglowTemplate {
	t.Helper()
	wl := testutil.Linspace(1213, 1218.5, 551)
	flux := testutil.GaussianLine(wl, 1e-14, 1e-13, lya, 0.2)
	tmpl, err := line.NewAirglowTemplate(wl, flux, testutil.Scaled(flux, 0.05), lya)
	if err != nil {
		t.Fatal(err)
	}
	return tmpl
}

// contaminatedLine observes the template itself, shifted by trueShift and
// scaled by trueScales.
func contaminatedLine(t *testing.T) *line.ContaminatedLine {
	t.Helper()
	center := doppler.Wavelength(trueShift, lya)
	var spectra []*spectrum.Spectrum
	for i, s := range trueScales {
		spectra = append(spectra, spectrumtest.Load(t, spectrumtest.Exposure{
			Dataset:   []string{"a", "b"}[i],
			Continuum: 1e-14,
			Lines:     []spectrumtest.Line{{Center: center, Amplitude: 1e-13, Sigma: 0.2}},
			Scale:     s,
		}))
	}
	cl, err := line.NewContaminatedLine(spectra, airglowTemplate(t), lya, -line.DefaultContaminatedVelocityRange, line.DefaultContaminatedVelocityRange)
	if err != nil {
		t.Fatalf("NewContaminatedLine() error = %v", err)
	}
	return cl
}

func TestFitTemplate(t *testing.T) {
	cl := contaminatedLine(t)
	if _, _, err := cl.IntegratedCleanFlux(-100, 100); !errors.Is(err, line.ErrNotFitted) {
		t.Fatalf("expected ErrNotFitted before fitting, got %v", err)
	}

	tf, err := cl.FitTemplate(-200, 200, 0, []float64{1.5, 2.5})
	if err != nil {
		t.Fatalf("FitTemplate() error = %v", err)
	}
	testutil.RequireNearlyEqual(t, "shift", tf.Shift, trueShift, 1)
	for i, s := range trueScales {
		testutil.RequireRelative(t, "scale", tf.Scales[i], s, 0.03)
	}
	if p := tf.Params(); len(p) != 3 || p[0] != tf.Shift {
		t.Fatalf("Params() = %v", p)
	}

	raw, _, err := cl.IntegratedFlux(-100, 100)
	if err != nil {
		t.Fatal(err)
	}
	clean, unc, err := cl.IntegratedCleanFlux(-100, 100)
	if err != nil {
		t.Fatalf("IntegratedCleanFlux() error = %v", err)
	}
	for i := range clean {
		if math.Abs(clean[i]) > 0.03*raw[i] {
			t.Fatalf("exposure %d: clean flux %g vs raw %g", i, clean[i], raw[i])
		}
		if unc[i] <= 0 {
			t.Fatalf("exposure %d: uncertainty %g", i, unc[i])
		}
	}

	series, err := cl.CleanSeries()
	if err != nil || len(series) != 2 || series[1].Label != "b" {
		t.Fatalf("CleanSeries() = %v, %v", series, err)
	}
}

func TestFitTemplateBounds(t *testing.T) {
	cl := contaminatedLine(t)
	tf, err := cl.FitTemplate(-200, 200, 0, []float64{1.5, 2.5}, line.WithShiftBounds(-5, 5))
	if err != nil {
		t.Fatalf("FitTemplate() error = %v", err)
	}
	if tf.Shift < -5 || tf.Shift > 5 {
		t.Fatalf("shift %g escaped its bounds", tf.Shift)
	}
	testutil.RequireNearlyEqual(t, "bounded shift", tf.Shift, 5, 0.5)
}

func TestFitTemplateErrors(t *testing.T) {
	cl := contaminatedLine(t)
	if _, err := cl.FitTemplate(-200, 200, 0, []float64{1}); !errors.Is(err, line.ErrParameterCount) {
		t.Fatalf("expected ErrParameterCount, got %v", err)
	}
	if _, err := line.NewContaminatedLine(nil, airglowTemplate(t), lya, -300, 300); !errors.Is(err, line.ErrNoSpectra) {
		t.Fatalf("expected ErrNoSpectra, got %v", err)
	}
	if _, err := cl.Sample(context.Background(), nil); !errors.Is(err, line.ErrNotFitted) {
		t.Fatalf("expected ErrNotFitted, got %v", err)
	}
}

func TestSample(t *testing.T) {
	cl := contaminatedLine(t)
	tf, err := cl.FitTemplate(-200, 200, 0, []float64{1.5, 2.5})
	if err != nil {
		t.Fatal(err)
	}

	chain, err := cl.Sample(context.Background(), tf, line.WithWalkers(8), line.WithSteps(20))
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if chain.Walkers != 8 || chain.Steps != 20 || chain.Dim != 3 {
		t.Fatalf("chain shape = %d walkers × %d steps × %d dims", chain.Walkers, chain.Steps, chain.Dim)
	}
	mean := chain.Mean(10)
	testutil.RequireNearlyEqual(t, "posterior shift", mean[0], tf.Shift, 0.5)
	testutil.RequireFinite(t, chain.LogProb)

	lp := cl.LogProb(tf)
	if best := lp(tf.Params()); math.IsInf(best, 0) || math.IsNaN(best) {
		t.Fatalf("log-probability at the best fit = %v", best)
	}

	bounded, err := cl.FitTemplate(-200, 200, 0, []float64{1.5, 2.5}, line.WithScaleBounds(0, 10))
	if err != nil {
		t.Fatal(err)
	}
	if v := cl.LogProb(bounded)([]float64{0, -1, 2}); !math.IsInf(v, -1) {
		t.Fatalf("out-of-bounds log-probability = %v, want -Inf", v)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cl.Sample(ctx, tf, line.WithSteps(5)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
