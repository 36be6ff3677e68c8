// Package line measures individual spectral lines across a set of
// exposures.
//
// A [SpectralLine] cuts the same velocity window out of every exposure,
// using the detector side and pixel indices resolved on the first one, so
// the per-exposure arrays stay aligned:
//
//	sl, err := line.NewSpectralLine(splits, 1334.532, -100, 100)
//	flux, sigma, err := sl.IntegratedFlux(-50, 50)
//
// A [ContaminatedLine] additionally carries an [AirglowTemplate]. FitTemplate
// adjusts the template (one shared Doppler shift, one scale per exposure) to
// the observed profile and subtracts it; Sample explores the posterior of
// those parameters with an ensemble sampler.
//
// [CrossCorrelate] locates a line centroid by correlating the spectrum with
// a top-hat mask and fitting a Gaussian to the correlation function.
package line
