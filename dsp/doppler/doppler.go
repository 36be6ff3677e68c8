// Package doppler converts between wavelength and line-of-sight velocity and
// applies Doppler shifts to sampled spectra.
//
// All conversions use the non-relativistic relation Δλ = v/c · λ0 with
// velocities in km/s and wavelengths in Å.
package doppler

import (
	"fmt"

	"github.com/cwbudde/algo-uvspec/dsp/interp"
)

// SpeedOfLight is c in km/s.
const SpeedOfLight = 299792.458

// Velocity returns the Doppler velocity of wavelength wl relative to ref.
func Velocity(wl, ref float64) float64 {
	return (wl - ref) / ref * SpeedOfLight
}

// Wavelength returns the wavelength observed at velocity v for a line at ref.
func Wavelength(v, ref float64) float64 {
	return v/SpeedOfLight*ref + ref
}

// Window converts a velocity range around ref into a wavelength range.
func Window(ref, vmin, vmax float64) [2]float64 {
	return [2]float64{Wavelength(vmin, ref), Wavelength(vmax, ref)}
}

// Velocities converts every wavelength in wl to a velocity relative to ref.
func Velocities(wl []float64, ref float64) []float64 {
	out := make([]float64, len(wl))
	for i, w := range wl {
		out[i] = Velocity(w, ref)
	}
	return out
}

// Shift moves a spectrum by velocity v (km/s) and resamples it back onto its
// own wavelength grid.
//
// The grid is displaced by v/c·ref, flux and error interpolants are built on
// the displaced grid, and both are evaluated at the original wavelengths.
// Samples that fall outside the displaced grid follow fill.
func Shift(v, ref float64, wl, flux, err []float64, kind interp.Kind, fill interp.Fill) (newFlux, newErr []float64, e error) {
	if len(flux) != len(wl) || (err != nil && len(err) != len(wl)) {
		return nil, nil, fmt.Errorf("doppler: length mismatch: wavelength %d, flux %d, error %d", len(wl), len(flux), len(err))
	}

	delta := v / SpeedOfLight * ref
	shifted := make([]float64, len(wl))
	for i, w := range wl {
		shifted[i] = w + delta
	}

	fi, e := interp.New(shifted, flux, kind, fill)
	if e != nil {
		return nil, nil, fmt.Errorf("doppler: flux: %w", e)
	}
	newFlux = fi.Eval(nil, wl)

	if err == nil {
		return newFlux, nil, nil
	}
	ei, e := interp.New(shifted, err, kind, fill)
	if e != nil {
		return nil, nil, fmt.Errorf("doppler: error: %w", e)
	}
	return newFlux, ei.Eval(nil, wl), nil
}
