package spectrum

import (
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/cwbudde/algo-uvspec/dsp/grid"
)

// Segment holds the arrays of one detector side.
type Segment struct {
	Wavelength  []float64
	Flux        []float64
	Error       []float64
	GrossCounts []float64
	Background  []float64
	Net         []float64
}

// Len returns the number of pixels.
func (s Segment) Len() int { return len(s.Wavelength) }

// Empty reports whether the side holds no data.
func (s Segment) Empty() bool { return len(s.Wavelength) == 0 }

func (s Segment) clone() Segment {
	return Segment{
		Wavelength:  cloneSlice(s.Wavelength),
		Flux:        cloneSlice(s.Flux),
		Error:       cloneSlice(s.Error),
		GrossCounts: cloneSlice(s.GrossCounts),
		Background:  cloneSlice(s.Background),
		Net:         cloneSlice(s.Net),
	}
}

func (s Segment) slice(lo, hi int) Segment {
	cut := func(a []float64) []float64 {
		if a == nil {
			return nil
		}
		return a[lo:hi]
	}
	return Segment{
		Wavelength:  cut(s.Wavelength),
		Flux:        cut(s.Flux),
		Error:       cut(s.Error),
		GrossCounts: cut(s.GrossCounts),
		Background:  cut(s.Background),
		Net:         cut(s.Net),
	}
}

func (s Segment) validate(side grid.Side) error {
	n := len(s.Wavelength)
	for name, a := range map[string][]float64{
		"FLUX":       s.Flux,
		"ERROR":      s.Error,
		"GCOUNTS":    s.GrossCounts,
		"BACKGROUND": s.Background,
		"NET":        s.Net,
	} {
		if a != nil && len(a) != n {
			return fmt.Errorf("%w: %s side %s has %d values, WAVELENGTH has %d", ErrDataSource, side, name, len(a), n)
		}
	}
	for i := 1; i < n; i++ {
		if !(s.Wavelength[i] > s.Wavelength[i-1]) {
			return fmt.Errorf("%w: %s side wavelength not increasing at pixel %d", ErrDataSource, side, i)
		}
	}
	return nil
}

func cloneSlice(a []float64) []float64 {
	if a == nil {
		return nil
	}
	return append([]float64(nil), a...)
}

// Spectrum is one exposure.
type Spectrum struct {
	Dataset      string
	Instrument   Instrument
	Segments     [grid.NumSides]Segment
	ExposureTime [grid.NumSides]float64 // seconds
	StartJD      float64
	EndJD        float64
	// Version is incremented by every operation that derives corrected data.
	Version int
}

// Wavelengths returns the per-side wavelength arrays for grid.PickSide.
func (s *Spectrum) Wavelengths() [grid.NumSides][]float64 {
	var wl [grid.NumSides][]float64
	for _, side := range grid.Sides {
		wl[side] = s.Segments[side].Wavelength
	}
	return wl
}

// Side returns the segment of one detector side.
func (s *Spectrum) Side(side grid.Side) Segment {
	return s.Segments[side]
}

// StartTime returns the exposure start as UTC.
func (s *Spectrum) StartTime() time.Time { return julian.JDToTime(s.StartJD) }

// EndTime returns the exposure end as UTC.
func (s *Spectrum) EndTime() time.Time { return julian.JDToTime(s.EndJD) }

// MidJD returns the Julian Date halfway through the exposure.
func (s *Spectrum) MidJD() float64 { return (s.StartJD + s.EndJD) / 2 }

// Clone returns a deep copy with the same Version.
func (s *Spectrum) Clone() *Spectrum {
	c := *s
	for _, side := range grid.Sides {
		c.Segments[side] = s.Segments[side].clone()
	}
	return &c
}

// WithFlux returns a copy whose flux on side is replaced, with Version
// incremented.
func (s *Spectrum) WithFlux(side grid.Side, flux []float64) (*Spectrum, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("spectrum: invalid side %d", int(side))
	}
	if len(flux) != s.Segments[side].Len() {
		return nil, fmt.Errorf("spectrum: flux has %d values, side %s has %d", len(flux), side, s.Segments[side].Len())
	}
	c := s.Clone()
	c.Segments[side].Flux = cloneSlice(flux)
	c.Version++
	return c, nil
}

// WithError returns a copy whose error on side is replaced, with Version
// incremented.
func (s *Spectrum) WithError(side grid.Side, sigma []float64) (*Spectrum, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("spectrum: invalid side %d", int(side))
	}
	if len(sigma) != s.Segments[side].Len() {
		return nil, fmt.Errorf("spectrum: error has %d values, side %s has %d", len(sigma), side, s.Segments[side].Len())
	}
	c := s.Clone()
	c.Segments[side].Error = cloneSlice(sigma)
	c.Version++
	return c, nil
}
