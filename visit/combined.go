package visit

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-uvspec/dsp/combine"
	"github.com/cwbudde/algo-uvspec/dsp/doppler"
	"github.com/cwbudde/algo-uvspec/dsp/grid"
	"github.com/cwbudde/algo-uvspec/dsp/integrate"
	"github.com/cwbudde/algo-uvspec/render"
	"github.com/cwbudde/algo-uvspec/spectrum"
)

// ErrNoExposures is returned when combining an empty visit.
var ErrNoExposures = errors.New("visit: no exposures")

// CombinedSpectrum is the co-add of every exposure of a visit.
type CombinedSpectrum struct {
	Wavelength [grid.NumSides][]float64
	Flux       [grid.NumSides][]float64
	Error      [grid.NumSides][]float64
	StartJD    []float64
	EndJD      []float64
	Members    int
}

// Combined co-adds the exposures: mean flux, error sqrt(Σσ²)/N, on the
// wavelength grid of the last exposure.
func (v *Visit) Combined() (*CombinedSpectrum, error) {
	members := v.Ordered()
	if len(members) == 0 {
		return nil, ErrNoExposures
	}

	c := &CombinedSpectrum{Members: len(members)}
	for _, s := range members {
		c.StartJD = append(c.StartJD, s.StartJD)
		c.EndJD = append(c.EndJD, s.EndJD)
	}

	last := members[len(members)-1]
	for _, side := range grid.Sides {
		if last.Side(side).Empty() {
			continue
		}
		wls := make([][]float64, len(members))
		fluxes := make([][]float64, len(members))
		errs := make([][]float64, len(members))
		for i, s := range members {
			seg := s.Side(side)
			wls[i], fluxes[i], errs[i] = seg.Wavelength, seg.Flux, seg.Error
		}
		res, err := combine.Spectra(wls, fluxes, errs, combine.WithGrid(last.Side(side).Wavelength))
		if err != nil {
			return nil, fmt.Errorf("visit: combine %s side: %w", side, err)
		}
		c.Wavelength[side] = res.Wavelength
		c.Flux[side] = res.Flux
		c.Error[side] = res.Error
	}
	return c, nil
}

func (c *CombinedSpectrum) locate(r spectrum.Range) (grid.Side, int, int, error) {
	wr := r.Wavelengths(0)
	side, err := grid.PickSide(c.Wavelength, wr)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("visit: combined spectrum: %w", err)
	}
	lo, hi := grid.IndexRange(c.Wavelength[side], wr)
	return side, lo, hi, nil
}

// IntegratedFlux integrates the combined flux over r with a quadratic-sum
// uncertainty.
func (c *CombinedSpectrum) IntegratedFlux(r spectrum.Range) (flux, uncertainty float64, err error) {
	side, lo, hi, err := c.locate(r)
	if err != nil {
		return 0, 0, err
	}
	wl := c.Wavelength[side]
	flux = integrate.Simpson(wl[lo:hi], c.Flux[side][lo:hi])
	dx := integrate.Spacing(wl)
	end := hi
	if end > len(dx) {
		end = len(dx)
	}
	return flux, integrate.QuadratureSum(dx[lo:end], c.Error[side][lo:hi]), nil
}

// Series returns the combined spectrum inside r for plotting.
func (c *CombinedSpectrum) Series(r spectrum.Range, velocityRef float64) (render.Series, error) {
	side, lo, hi, err := c.locate(r)
	if err != nil {
		return render.Series{}, err
	}
	x := append([]float64(nil), c.Wavelength[side][lo:hi]...)
	if velocityRef > 0 {
		x = doppler.Velocities(x, velocityRef)
	}
	return render.Series{
		Label: "combined",
		X:     x,
		Y:     append([]float64(nil), c.Flux[side][lo:hi]...),
		Err:   append([]float64(nil), c.Error[side][lo:hi]...),
	}, nil
}
