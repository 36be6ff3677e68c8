// Package systematics removes a common multiplicative drift from time-tag
// split exposures.
//
// [Verify] integrates a list of reference lines, which should carry no
// astrophysical variability, in every split and sums them into one flux
// time series. [Correct] fits a low-order polynomial to that series
// normalized by a baseline, divides each split by its correction factor and
// rebuilds the parent exposure as the mean of the corrected splits.
//
// Inputs are never modified: Correct returns new spectra with their Version
// incremented.
package systematics
