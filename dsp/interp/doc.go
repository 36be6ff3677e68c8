// Package interp evaluates 1-D interpolants on non-uniform, strictly
// increasing grids such as spectral wavelength arrays.
//
// Available kinds, from cheapest to smoothest:
//
//   - [KindNearest]: value of the closest sample
//   - [KindLinear]:  piecewise linear (default)
//   - [KindCubic]:   natural cubic spline
//
// Samples outside the grid follow a [Fill] policy: [Extrapolate] continues
// the first or last segment linearly, [FillValue] returns a constant.
//
//	ip, err := interp.New(wl, flux, interp.KindLinear, interp.FillValue(0))
//	out := ip.Eval(nil, otherWl)
package interp
