package testutil

import (
	"math"
	"math/rand/v2"
)

// Linspace returns n evenly spaced samples over [start, stop].
func Linspace(start, stop float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// Constant returns a slice of length n filled with value.
func Constant(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// DeterministicUniform draws n values uniformly from [lo, hi) with a fixed seed.
func DeterministicUniform(seed uint64, lo, hi float64, n int) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + (hi-lo)*rng.Float64()
	}
	return out
}

// GaussianLine evaluates continuum + depth·exp(-(x-center)²/2σ²) on x.
// A negative depth produces an absorption line.
func GaussianLine(x []float64, continuum, depth, center, sigma float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		d := (v - center) / sigma
		out[i] = continuum + depth*math.Exp(-0.5*d*d)
	}
	return out
}

// Scaled returns a copy of x multiplied by k.
func Scaled(x []float64, k float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v * k
	}
	return out
}
