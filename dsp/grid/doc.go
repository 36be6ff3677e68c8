// Package grid locates samples on the wavelength grids of two-segment
// detectors.
//
// HST/COS and HST/STIS first-order products store one wavelength array per
// detector side. Most analysis steps first decide which side fully covers a
// requested range ([PickSide]) and then translate the range bounds into
// array indices ([NearestIndex]):
//
//	side, err := grid.PickSide(wl, [2]float64{1214, 1217})
//	lo := grid.NearestIndex(wl[side], 1214)
//	hi := grid.NearestIndex(wl[side], 1217)
//
// Sides are addressed with the [Side] enumeration rather than bare integers.
package grid
