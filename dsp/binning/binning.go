// Package binning averages spectra into fixed-width velocity bins.
package binning

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrUnsupportedMode is returned for unknown uncertainty modes.
var ErrUnsupportedMode = errors.New("binning: unsupported uncertainty mode")

// ErrInvalidWidth is returned for non-positive bin widths.
var ErrInvalidWidth = errors.New("binning: bin width must be > 0")

// Mode selects how per-bin uncertainties are derived.
type Mode int

const (
	// ModeCombine adds member errors in quadrature and divides by sqrt(count).
	ModeCombine Mode = iota
	// ModePoisson uses the half-width (upper-lower)/2 of the 1σ Garwood
	// interval on the binned flux. This is a spread, not the interval
	// midpoint (upper+lower)/2, which tracks the flux itself.
	ModePoisson
)

func (m Mode) String() string {
	switch m {
	case ModeCombine:
		return "combine"
	case ModePoisson:
		return "poisson"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "combine" and "poisson" to a Mode.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "combine":
		return ModeCombine, nil
	case "poisson":
		return ModePoisson, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedMode, name)
	}
}

// Binned holds per-bin means. Empty bins carry NaN in every field.
type Binned struct {
	Wavelength []float64
	Velocity   []float64
	Flux       []float64
	Error      []float64
	Count      []int
}

// Bin partitions samples into velocity bins of width w starting at
// min(velocity). Bins are half-open except the last, which also includes
// its right edge.
func Bin(w float64, wavelength, velocity, flux, sigma []float64, mode Mode) (Binned, error) {
	if !(w > 0) {
		return Binned{}, ErrInvalidWidth
	}
	if mode != ModeCombine && mode != ModePoisson {
		return Binned{}, fmt.Errorf("%w: %v", ErrUnsupportedMode, mode)
	}
	n := len(velocity)
	if len(wavelength) != n || len(flux) != n || len(sigma) != n {
		return Binned{}, fmt.Errorf("binning: length mismatch: wavelength %d, velocity %d, flux %d, error %d",
			len(wavelength), n, len(flux), len(sigma))
	}
	if n == 0 {
		return Binned{}, nil
	}

	lo, hi := velocity[0], velocity[0]
	for _, v := range velocity {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	edges := binEdges(lo, hi, w)
	nb := len(edges) - 1

	out := Binned{
		Wavelength: make([]float64, nb),
		Velocity:   make([]float64, nb),
		Flux:       make([]float64, nb),
		Error:      make([]float64, nb),
		Count:      make([]int, nb),
	}
	sumSq := make([]float64, nb)
	for i, v := range velocity {
		k := int((v - lo) / w)
		if k >= nb {
			k = nb - 1
		}
		out.Wavelength[k] += wavelength[i]
		out.Velocity[k] += v
		out.Flux[k] += flux[i]
		sumSq[k] += sigma[i] * sigma[i]
		out.Count[k]++
	}

	for k := 0; k < nb; k++ {
		c := float64(out.Count[k])
		if c == 0 {
			out.Wavelength[k] = math.NaN()
			out.Velocity[k] = math.NaN()
			out.Flux[k] = math.NaN()
			out.Error[k] = math.NaN()
			continue
		}
		out.Wavelength[k] /= c
		out.Velocity[k] /= c
		out.Flux[k] /= c
		switch mode {
		case ModeCombine:
			out.Error[k] = math.Sqrt(sumSq[k]) / math.Sqrt(c)
		case ModePoisson:
			lower, upper := PoissonInterval(out.Flux[k])
			out.Error[k] = (upper - lower) / 2
		}
	}
	return out, nil
}

// binEdges mirrors arange(lo, hi+w, w).
func binEdges(lo, hi, w float64) []float64 {
	n := int(math.Ceil((hi + w - lo) / w))
	if n < 2 {
		n = 2
	}
	edges := make([]float64, n)
	for i := range edges {
		edges[i] = lo + float64(i)*w
	}
	return edges
}

// confidence is the two-sided 1σ coverage.
const confidence = 0.682689492137

// PoissonInterval returns the Garwood (exact frequentist) 1σ interval for
// an observed count n. Negative counts are clamped to zero.
func PoissonInterval(n float64) (lower, upper float64) {
	if n < 0 || math.IsNaN(n) {
		n = 0
	}
	alpha := 1 - confidence
	if n > 0 {
		lower = 0.5 * distuv.ChiSquared{K: 2 * n}.Quantile(alpha/2)
	}
	upper = 0.5 * distuv.ChiSquared{K: 2 * (n + 1)}.Quantile(1-alpha/2)
	return lower, upper
}
