// Package spectrumtest builds synthetic COS exposures for tests.
package spectrumtest

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-uvspec/dsp/grid"
	"github.com/cwbudde/algo-uvspec/internal/testutil"
	"github.com/cwbudde/algo-uvspec/spectrum"
)

// Sensitivity converts a net count rate to flux density.
const Sensitivity = 1e-15

// Line is a Gaussian emission feature. Negative Amplitude gives absorption.
type Line struct {
	Center    float64
	Amplitude float64
	Sigma     float64
}

// Exposure describes one synthetic exposure.
type Exposure struct {
	Dataset   string
	Continuum float64
	Lines     []Line
	// Scale multiplies the whole spectrum, e.g. to mimic a sensitivity drift.
	Scale   float64
	ExpTime float64
	StartJD float64
}

func (e Exposure) withDefaults() Exposure {
	if e.Dataset == "" {
		e.Dataset = "synthetic"
	}
	if e.Continuum == 0 {
		e.Continuum = 1e-14
	}
	if e.Scale == 0 {
		e.Scale = 1
	}
	if e.ExpTime == 0 {
		e.ExpTime = 1000
	}
	if e.StartJD == 0 {
		e.StartJD = 2457000.5
	}
	return e
}

// RedGrid is the wavelength grid of the red side, 0.01 Å sampling.
func RedGrid() []float64 { return testutil.Linspace(1290, 1430, 14001) }

// BlueGrid is the wavelength grid of the blue side, 0.01 Å sampling.
func BlueGrid() []float64 { return testutil.Linspace(1130, 1280, 15001) }

// Raw renders e on both detector sides.
func Raw(e Exposure) spectrum.Raw {
	e = e.withDefaults()
	raw := spectrum.Raw{
		StartJD: e.StartJD,
		EndJD:   e.StartJD + e.ExpTime/86400,
	}
	grids := [grid.NumSides][]float64{grid.SideRed: RedGrid(), grid.SideBlue: BlueGrid()}
	for _, side := range grid.Sides {
		raw.Segments[side] = render(grids[side], e)
		raw.ExposureTime[side] = e.ExpTime
	}
	return raw
}

func render(wl []float64, e Exposure) spectrum.Segment {
	n := len(wl)
	seg := spectrum.Segment{
		Wavelength:  wl,
		Flux:        make([]float64, n),
		Error:       make([]float64, n),
		GrossCounts: make([]float64, n),
		Background:  make([]float64, n),
		Net:         make([]float64, n),
	}
	for i, x := range wl {
		f := e.Continuum
		for _, l := range e.Lines {
			d := (x - l.Center) / l.Sigma
			f += l.Amplitude * math.Exp(-0.5*d*d)
		}
		f *= e.Scale

		net := f / Sensitivity
		gross := net * e.ExpTime
		seg.Flux[i] = f
		seg.Net[i] = net
		seg.GrossCounts[i] = gross
		seg.Error[i] = math.Sqrt(gross+1) * Sensitivity / e.ExpTime
	}
	return seg
}

// Source serves every exposure under its dataset name.
func Source(exps ...Exposure) spectrum.MemorySource {
	src := make(spectrum.MemorySource, len(exps))
	for _, e := range exps {
		e = e.withDefaults()
		src[e.Dataset] = Raw(e)
	}
	return src
}

// Load builds the spectrum of e with every pixel kept.
func Load(t testing.TB, e Exposure, opts ...spectrum.Option) *spectrum.Spectrum {
	t.Helper()
	e = e.withDefaults()
	base := []spectrum.Option{
		spectrum.WithSource(Source(e)),
		spectrum.WithPixelLimits(spectrum.AllPixels()),
	}
	s, err := spectrum.Load(e.Dataset, append(base, opts...)...)
	if err != nil {
		t.Fatalf("spectrumtest: load %s: %v", e.Dataset, err)
	}
	return s
}
