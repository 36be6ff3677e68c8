package spectrum

import (
	"github.com/cwbudde/algo-uvspec/dsp/doppler"
	"github.com/cwbudde/algo-uvspec/dsp/grid"
	"github.com/cwbudde/algo-uvspec/render"
)

// ExtractRange returns the wavelengths between the pixels nearest to the
// bounds of r, both ends included. The extra upper sample keeps the bin
// edges needed by binning.
func (s *Spectrum) ExtractRange(r Range) ([]float64, error) {
	side, lo, hi, err := s.locate(r.Wavelengths(0))
	if err != nil {
		return nil, err
	}
	wl := s.Segments[side].Wavelength
	if hi < len(wl) {
		hi++
	}
	return cloneSlice(wl[lo:hi]), nil
}

// Window is a half-open cut [Lo, Hi) of one side.
type Window struct {
	Side       grid.Side
	Lo, Hi     int
	Wavelength []float64
	Flux       []float64
	Error      []float64
}

// Len returns the number of pixels in the window.
func (w Window) Len() int { return w.Hi - w.Lo }

// Window cuts the spectrum to r. The returned slices alias the spectrum.
func (s *Spectrum) Window(r Range) (Window, error) {
	side, lo, hi, err := s.locate(r.Wavelengths(0))
	if err != nil {
		return Window{}, err
	}
	return s.WindowAt(side, lo, hi), nil
}

// WindowAt cuts pixels [lo, hi) of side.
func (s *Spectrum) WindowAt(side grid.Side, lo, hi int) Window {
	seg := s.Segments[side]
	w := Window{Side: side, Lo: lo, Hi: hi, Wavelength: seg.Wavelength[lo:hi], Flux: seg.Flux[lo:hi]}
	if seg.Error != nil {
		w.Error = seg.Error[lo:hi]
	}
	return w
}

// Series returns the spectrum inside r for plotting. With velocityRef > 0
// the x axis is the Doppler velocity relative to velocityRef.
func (s *Spectrum) Series(r Range, velocityRef float64) (render.Series, error) {
	w, err := s.Window(r)
	if err != nil {
		return render.Series{}, err
	}
	x := cloneSlice(w.Wavelength)
	if velocityRef > 0 {
		x = doppler.Velocities(w.Wavelength, velocityRef)
	}
	return render.Series{
		Label: s.Dataset,
		X:     x,
		Y:     cloneSlice(w.Flux),
		Err:   cloneSlice(w.Error),
	}, nil
}
