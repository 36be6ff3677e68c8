package line

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-uvspec/dsp/doppler"
	"github.com/cwbudde/algo-uvspec/dsp/interp"
)

// AirglowTemplate is a reference profile of geocoronal emission.
type AirglowTemplate struct {
	Wavelength []float64
	Flux       []float64
	Error      []float64
	// Reference is the rest wavelength velocities are measured from.
	Reference float64
	Velocity  []float64
}

// NewAirglowTemplate copies the given arrays into a template. A zero ref
// uses the mean wavelength; a nil sigma means zero uncertainty.
func NewAirglowTemplate(wl, flux, sigma []float64, ref float64) (*AirglowTemplate, error) {
	if len(wl) != len(flux) || (sigma != nil && len(sigma) != len(wl)) {
		return nil, fmt.Errorf("%w: wavelength %d, flux %d, error %d", ErrLengthMismatch, len(wl), len(flux), len(sigma))
	}
	if len(wl) < 2 {
		return nil, fmt.Errorf("%w: template has %d samples", interp.ErrTooFewPoints, len(wl))
	}
	if ref == 0 {
		ref = stat.Mean(wl, nil)
	}
	t := &AirglowTemplate{
		Wavelength: append([]float64(nil), wl...),
		Flux:       append([]float64(nil), flux...),
		Error:      make([]float64, len(wl)),
		Reference:  ref,
	}
	copy(t.Error, sigma)
	t.Velocity = doppler.Velocities(t.Wavelength, ref)
	return t, nil
}

// Adjust shifts the template by v km/s and multiplies it by scale. The
// template itself is unchanged.
func (t *AirglowTemplate) Adjust(v, scale float64, kind interp.Kind, fill interp.Fill) (flux, sigma []float64, err error) {
	flux, sigma, err = doppler.Shift(v, t.Reference, t.Wavelength, t.Flux, t.Error, kind, fill)
	if err != nil {
		return nil, nil, fmt.Errorf("line: airglow: %w", err)
	}
	for i := range flux {
		flux[i] *= scale
		sigma[i] *= scale
	}
	return flux, sigma, nil
}

// Adjusted returns a new template holding the adjusted profile.
func (t *AirglowTemplate) Adjusted(v, scale float64, kind interp.Kind, fill interp.Fill) (*AirglowTemplate, error) {
	flux, sigma, err := t.Adjust(v, scale, kind, fill)
	if err != nil {
		return nil, err
	}
	return &AirglowTemplate{
		Wavelength: t.Wavelength,
		Flux:       flux,
		Error:      sigma,
		Reference:  t.Reference,
		Velocity:   t.Velocity,
	}, nil
}

// AdjustInPlace replaces the template profile with the adjusted one.
func (t *AirglowTemplate) AdjustInPlace(v, scale float64, kind interp.Kind, fill interp.Fill) error {
	flux, sigma, err := t.Adjust(v, scale, kind, fill)
	if err != nil {
		return err
	}
	t.Flux, t.Error = flux, sigma
	return nil
}

// InterpolateTo evaluates the template at wl, extrapolating linearly past
// its ends.
func (t *AirglowTemplate) InterpolateTo(wl []float64, kind interp.Kind) (flux, sigma []float64, err error) {
	fi, err := interp.New(t.Wavelength, t.Flux, kind, interp.Extrapolate())
	if err != nil {
		return nil, nil, fmt.Errorf("line: airglow: %w", err)
	}
	ei, err := interp.New(t.Wavelength, t.Error, kind, interp.Extrapolate())
	if err != nil {
		return nil, nil, fmt.Errorf("line: airglow: %w", err)
	}
	return fi.Eval(nil, wl), ei.Eval(nil, wl), nil
}
