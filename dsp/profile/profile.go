package profile

import (
	"math"
	"math/cmplx"
)

// Gaussian evaluates amplitude·exp(-(x-center)²/(2·width²)).
func Gaussian(x, center, width, amplitude float64) float64 {
	d := x - center
	return amplitude * math.Exp(-d*d/(2*width*width))
}

// NormalizedGaussian evaluates the unit-area Gaussian with the given center
// and standard deviation.
func NormalizedGaussian(x, center, width float64) float64 {
	z := (x - center) / width
	return math.Exp(-0.5*z*z) / (width * math.Sqrt(2*math.Pi))
}

// GaussianSlice fills dst with Gaussian values at xs. dst is allocated when
// nil or too short.
func GaussianSlice(dst, xs []float64, center, width, amplitude float64) []float64 {
	if len(dst) < len(xs) {
		dst = make([]float64, len(xs))
	}
	dst = dst[:len(xs)]
	for i, x := range xs {
		dst[i] = Gaussian(x, center, width, amplitude)
	}
	return dst
}

// Faddeeva evaluates w(z) = exp(-z²)·erfc(-iz) for Im z >= 0 using
// Humlíček's W4 rational approximation. Relative accuracy is about 1e-4.
func Faddeeva(z complex128) complex128 {
	x, y := real(z), imag(z)
	t := complex(y, -x)
	s := math.Abs(x) + y

	switch {
	case s >= 15:
		return t * 0.5641896 / (0.5 + t*t)
	case s >= 5.5:
		u := t * t
		return t * (1.410474 + u*0.5641896) / (0.75 + u*(3+u))
	case y >= 0.195*math.Abs(x)-0.176:
		num := 16.4955 + t*(20.20933+t*(11.96482+t*(3.778987+t*0.5642236)))
		den := 16.4955 + t*(38.82363+t*(39.27121+t*(21.69274+t*(6.699398+t))))
		return num / den
	default:
		u := t * t
		num := t * (36183.31 - u*(3321.9905-u*(1540.787-u*(219.0313-u*(35.76683-u*(1.320522-u*0.56419))))))
		den := 32066.6 - u*(24322.84-u*(9022.228-u*(2186.181-u*(364.2191-u*(61.57037-u*(1.841439-u))))))
		return cmplx.Exp(u) - num/den
	}
}

// NormalizedVoigt returns Re w(u + i·a), the Voigt function H(a, u) for
// damping parameter a >= 0 and dimensionless frequency offset u.
func NormalizedVoigt(a, u float64) float64 {
	return real(Faddeeva(complex(u, a)))
}
