// Package fit provides the model fitting used across the reduction:
// Gaussian fits to cross-correlation functions, a bounded general-purpose
// minimizer for template fits, and polynomial least squares for systematic
// trends.
//
// Minimization is delegated to gonum/optimize. Parameters are mapped into an
// unconstrained, unit-scaled space before the optimizer sees them, so box
// bounds and badly scaled inputs (wavelengths near 1e3 next to fluxes near
// 1e-14) need no special handling by callers.
package fit
