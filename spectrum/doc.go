// Package spectrum holds one HST ultraviolet exposure and the operations
// defined on it.
//
// A Spectrum carries per-side arrays (wavelength, flux, error, gross counts,
// background, net count rate) for the two detector sides of COS, together
// with exposure time and start/end Julian Dates. Spectra are loaded through a
// [Source]; [FITSSource] reads the calibrated `<dataset>_x1d.fits` product and
// the `<dataset>_corrtag_a.fits` event file.
//
// Correcting operations such as [Spectrum.ProperError] never mutate the
// receiver. They return a new Spectrum whose Version is one higher, so a
// spectrum value always describes one state of the data.
package spectrum
