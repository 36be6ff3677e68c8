package line

import (
	"fmt"

	"github.com/cwbudde/algo-uvspec/dsp/binning"
	"github.com/cwbudde/algo-uvspec/dsp/doppler"
	"github.com/cwbudde/algo-uvspec/dsp/grid"
	"github.com/cwbudde/algo-uvspec/dsp/integrate"
	"github.com/cwbudde/algo-uvspec/dsp/interp"
	"github.com/cwbudde/algo-uvspec/render"
	"github.com/cwbudde/algo-uvspec/spectrum"
)

// SpectralLine holds the same line window cut out of several exposures.
// Index i of every per-exposure slice refers to the same exposure.
type SpectralLine struct {
	Center          float64
	VelocityRange   [2]float64
	WavelengthRange [2]float64
	Side            grid.Side
	// Lo and Hi delimit the window, [Lo, Hi), in pixel indices of Side.
	Lo, Hi int

	Datasets   []string
	Wavelength [][]float64
	Flux       [][]float64
	Error      [][]float64
	Velocity   [][]float64
	StartJD    []float64
	EndJD      []float64
	// Time is the exposure midpoint in JD.
	Time []float64
}

// NewSpectralLine extracts the window center·(1 + v/c), v in [vmin, vmax],
// from every spectrum. Side and indices are resolved on spectra[0].
func NewSpectralLine(spectra []*spectrum.Spectrum, center, vmin, vmax float64) (*SpectralLine, error) {
	if len(spectra) == 0 {
		return nil, ErrNoSpectra
	}
	wr := Window(center, vmin, vmax)
	side, err := grid.PickSide(spectra[0].Wavelengths(), wr)
	if err != nil {
		return nil, fmt.Errorf("line: %.3f: %w", center, err)
	}
	ref := spectra[0].Side(side).Wavelength
	lo := grid.NearestIndex(ref, wr[0])
	hi := grid.NearestIndex(ref, wr[1])

	sl := &SpectralLine{
		Center:          center,
		VelocityRange:   [2]float64{vmin, vmax},
		WavelengthRange: wr,
		Side:            side,
		Lo:              lo,
		Hi:              hi,
	}
	for _, s := range spectra {
		seg := s.Side(side)
		if seg.Len() < hi {
			return nil, fmt.Errorf("%w: %s has %d pixels, window ends at %d", ErrShortSpectrum, s.Dataset, seg.Len(), hi)
		}
		wl := append([]float64(nil), seg.Wavelength[lo:hi]...)
		sl.Datasets = append(sl.Datasets, s.Dataset)
		sl.Wavelength = append(sl.Wavelength, wl)
		sl.Flux = append(sl.Flux, append([]float64(nil), seg.Flux[lo:hi]...))
		sl.Error = append(sl.Error, append([]float64(nil), seg.Error[lo:hi]...))
		sl.Velocity = append(sl.Velocity, doppler.Velocities(wl, center))
		sl.StartJD = append(sl.StartJD, s.StartJD)
		sl.EndJD = append(sl.EndJD, s.EndJD)
		sl.Time = append(sl.Time, s.MidJD())
	}
	return sl, nil
}

// Len returns the number of exposures.
func (sl *SpectralLine) Len() int { return len(sl.Flux) }

func (sl *SpectralLine) clone() *SpectralLine {
	out := *sl
	out.Datasets = append([]string(nil), sl.Datasets...)
	out.Wavelength = cloneRows(sl.Wavelength)
	out.Flux = cloneRows(sl.Flux)
	out.Error = cloneRows(sl.Error)
	out.Velocity = cloneRows(sl.Velocity)
	out.StartJD = append([]float64(nil), sl.StartJD...)
	out.EndJD = append([]float64(nil), sl.EndJD...)
	out.Time = append([]float64(nil), sl.Time...)
	return &out
}

func cloneRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = append([]float64(nil), r...)
	}
	return out
}

// DopplerShift returns a copy of the line with every exposure moved by v
// km/s and resampled onto its own grid.
func (sl *SpectralLine) DopplerShift(v float64, kind interp.Kind, fill interp.Fill) (*SpectralLine, error) {
	out := sl.clone()
	for i := range out.Flux {
		f, e, err := doppler.Shift(v, sl.Center, sl.Wavelength[i], sl.Flux[i], sl.Error[i], kind, fill)
		if err != nil {
			return nil, fmt.Errorf("line: %s: %w", sl.Datasets[i], err)
		}
		out.Flux[i], out.Error[i] = f, e
	}
	return out, nil
}

// IntegratedFlux integrates each exposure between the velocities vmin and
// vmax. The uncertainty is the quadratic sum of Δλ·σ.
func (sl *SpectralLine) IntegratedFlux(vmin, vmax float64) (flux, uncertainty []float64, err error) {
	return integrateRows(sl.Wavelength, sl.Flux, sl.Error, vmin, vmax, func(i int) [2]int {
		return [2]int{grid.NearestIndex(sl.Velocity[i], vmin), grid.NearestIndex(sl.Velocity[i], vmax)}
	})
}

func integrateRows(wl, flux, sigma [][]float64, vmin, vmax float64, bounds func(i int) [2]int) ([]float64, []float64, error) {
	outF := make([]float64, len(flux))
	outU := make([]float64, len(flux))
	for i := range flux {
		b := bounds(i)
		lo, hi := b[0], b[1]
		if hi-lo < 2 {
			return nil, nil, fmt.Errorf("%w: [%g, %g] km/s gives pixels [%d, %d)", ErrEmptyWindow, vmin, vmax, lo, hi)
		}
		outF[i] = integrate.Simpson(wl[i][lo:hi], flux[i][lo:hi])
		dx := integrate.Spacing(wl[i])
		end := hi
		if end > len(dx) {
			end = len(dx)
		}
		outU[i] = integrate.QuadratureSum(dx[lo:end], sigma[i][lo:end])
	}
	return outF, outU, nil
}

// Series returns one velocity-space plot series per exposure.
func (sl *SpectralLine) Series() []render.Series {
	return rowSeries(sl.Datasets, sl.Velocity, sl.Flux, sl.Error)
}

// BinnedSeries averages every exposure into velocity bins of width w km/s.
// Empty bins are dropped.
func (sl *SpectralLine) BinnedSeries(w float64, mode binning.Mode) ([]render.Series, error) {
	out := make([]render.Series, len(sl.Flux))
	for i := range sl.Flux {
		b, err := binning.Bin(w, sl.Wavelength[i], sl.Velocity[i], sl.Flux[i], sl.Error[i], mode)
		if err != nil {
			return nil, fmt.Errorf("line: %s: %w", sl.Datasets[i], err)
		}
		s := render.Series{Label: sl.Datasets[i]}
		for k, n := range b.Count {
			if n == 0 {
				continue
			}
			s.X = append(s.X, b.Velocity[k])
			s.Y = append(s.Y, b.Flux[k])
			s.Err = append(s.Err, b.Error[k])
		}
		out[i] = s
	}
	return out, nil
}

func rowSeries(labels []string, x, y, e [][]float64) []render.Series {
	out := make([]render.Series, len(y))
	for i := range y {
		out[i] = render.Series{Label: labels[i], X: x[i], Y: y[i], Err: e[i]}
	}
	return out
}
