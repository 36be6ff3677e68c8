package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Polyfit fits a polynomial of the given degree to (x, y) by least squares
// and returns the coefficients in increasing powers: c[0] + c[1]x + ....
func Polyfit(x, y []float64, degree int) ([]float64, error) {
	if degree < 0 {
		return nil, ErrInvalidDegree
	}
	if len(x) != len(y) {
		return nil, ErrLengthMismatch
	}
	n := len(x)
	if n < degree+1 {
		return nil, fmt.Errorf("%w: %d points for degree %d", ErrTooFewPoints, n, degree)
	}

	// Vandermonde matrix
	v := mat.NewDense(n, degree+1, nil)
	for i := 0; i < n; i++ {
		p := 1.0
		for j := 0; j <= degree; j++ {
			v.Set(i, j, p)
			p *= x[i]
		}
	}

	var qr mat.QR
	qr.Factorize(v)

	coeffs := mat.NewVecDense(degree+1, nil)
	if err := qr.SolveVecTo(coeffs, false, mat.NewVecDense(n, append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("fit: polynomial least squares: %w", err)
	}

	c := make([]float64, degree+1)
	for i := range c {
		c[i] = coeffs.AtVec(i)
	}
	return c, nil
}

// Polyval evaluates the polynomial with increasing-power coefficients c at x.
func Polyval(c []float64, x float64) float64 {
	y := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		y = y*x + c[i]
	}
	return y
}

// PolyvalSlice evaluates the polynomial at every x.
func PolyvalSlice(c, xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = Polyval(c, x)
	}
	return out
}

// RMS returns the root-mean-square residual of the polynomial over (x, y).
func RMS(c, x, y []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	ss := 0.0
	for i := range x {
		r := y[i] - Polyval(c, x[i])
		ss += r * r
	}
	return math.Sqrt(ss / float64(len(x)))
}
