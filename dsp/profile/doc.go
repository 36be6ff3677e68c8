// Package profile provides analytic line-profile shapes: Gaussians and the
// Voigt profile through the Faddeeva function.
package profile
