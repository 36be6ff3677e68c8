// Package integrate integrates sampled flux densities over wavelength and
// propagates their uncertainties.
//
// [Simpson] applies composite Simpson's rule on irregular grids.
// Uncertainties come either from the quadrature sum of Δλ·σ per pixel
// ([QuadratureSum]) or from a Monte Carlo bootstrap that re-integrates
// Gaussian realizations of the spectrum ([Bootstrap]).
package integrate
