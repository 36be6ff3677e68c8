package line

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-uvspec/dsp/conv"
	"github.com/cwbudde/algo-uvspec/dsp/doppler"
	"github.com/cwbudde/algo-uvspec/dsp/grid"
	"github.com/cwbudde/algo-uvspec/fit"
	"github.com/cwbudde/algo-uvspec/spectrum"
)

// Cross-correlation defaults.
const (
	DefaultSpan            = 1.0
	DefaultMaskWidthFactor = 5.0
)

// ccfUnit brings the correlation function to order unity for the Gaussian
// fit.
const ccfUnit = 1e14

// CCF is a cross-correlation function in velocity space.
type CCF struct {
	Velocity    []float64
	Correlation []float64
	// Fit is the Gaussian fitted to Correlation·1e14.
	Fit fit.GaussianFit
}

// Shift returns the fitted line centroid in km/s.
func (c *CCF) Shift() float64 { return c.Fit.Params.Center }

// CrossCorrelate correlates s within span Å of l.Central with a top-hat
// mask of width (half the line range)/maskWidthFactor and height 1/width,
// then fits a Gaussian to the result. The fit starts at the CCF peak.
func CrossCorrelate(l Line, s *spectrum.Spectrum, span, maskWidthFactor float64) (*CCF, error) {
	w0 := l.Central
	halfWidth := (l.Range[1] - l.Range[0]) / 2
	dw := span / 2

	side, err := grid.PickSide(s.Wavelengths(), [2]float64{w0 - dw, w0 + dw})
	if err != nil {
		return nil, fmt.Errorf("line: cross-correlate %s: %w", l, err)
	}
	seg := s.Side(side)
	lo := grid.NearestIndex(seg.Wavelength, w0-dw)
	hi := grid.NearestIndex(seg.Wavelength, w0+dw)
	wl, flux := seg.Wavelength[lo:hi], seg.Flux[lo:hi]

	width := halfWidth / maskWidthFactor
	mask := make([]float64, len(wl))
	for i, x := range wl {
		if w0-width/2 < x && x <= w0+width/2 {
			mask[i] = 1 / width
		}
	}

	ccf, err := conv.CorrelateMode(flux, mask, conv.ModeSame)
	if err != nil {
		return nil, fmt.Errorf("line: cross-correlate %s: %w", l, err)
	}

	velocity := doppler.Velocities(wl, w0)
	scaled := make([]float64, len(ccf))
	floats.ScaleTo(scaled, ccfUnit, ccf)
	peak, amp := conv.FindPeak(scaled)
	if peak < 0 {
		return nil, fmt.Errorf("line: cross-correlate %s: %w", l, conv.ErrEmptyInput)
	}
	guess := fit.GaussianParams{
		Center:    velocity[peak],
		Width:     halfWidth / w0 * doppler.SpeedOfLight,
		Amplitude: amp,
	}
	gf, err := fit.Gaussian(velocity, scaled, guess)
	if err != nil {
		return nil, fmt.Errorf("line: cross-correlate %s: %w", l, err)
	}
	return &CCF{Velocity: velocity, Correlation: ccf, Fit: gf}, nil
}
