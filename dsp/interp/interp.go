package interp

import (
	"errors"
	"fmt"
	"strings"

	gonuminterp "gonum.org/v1/gonum/interp"

	"github.com/cwbudde/algo-uvspec/dsp/grid"
)

// Errors returned by New.
var (
	ErrLengthMismatch = errors.New("interp: x and y length mismatch")
	ErrTooFewPoints   = errors.New("interp: not enough samples")
	ErrNotIncreasing  = errors.New("interp: x must be strictly increasing")
)

// Kind selects the interpolation algorithm.
type Kind int

const (
	// KindLinear connects neighbouring samples with straight lines.
	KindLinear Kind = iota
	// KindNearest returns the value of the closest sample.
	KindNearest
	// KindCubic fits a natural cubic spline (zero second derivative at both
	// ends, not the not-a-knot condition) through all samples. Outside the
	// grid, Extrapolate continues the end segment linearly rather than
	// extending the end cubic.
	KindCubic
)

func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindNearest:
		return "nearest"
	case KindCubic:
		return "cubic"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind maps "linear", "nearest" and "cubic" to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear":
		return KindLinear, nil
	case "nearest":
		return KindNearest, nil
	case "cubic":
		return KindCubic, nil
	default:
		return 0, fmt.Errorf("interp: unknown kind %q", name)
	}
}

// Fill is the policy for samples requested outside the grid.
type Fill struct {
	extrapolate bool
	value       float64
}

// Extrapolate continues the end segments linearly.
func Extrapolate() Fill { return Fill{extrapolate: true} }

// FillValue returns v for every out-of-domain sample.
func FillValue(v float64) Fill { return Fill{value: v} }

// IsExtrapolate reports whether f extrapolates.
func (f Fill) IsExtrapolate() bool { return f.extrapolate }

// Value returns the constant used when f does not extrapolate.
func (f Fill) Value() float64 { return f.value }

type predictor interface {
	Predict(x float64) float64
}

// Interpolator evaluates an interpolant built from (x, y) samples.
type Interpolator struct {
	x, y []float64
	kind Kind
	fill Fill
	fn   predictor
}

// New builds an interpolator. x must be strictly increasing and at least
// two samples long (three for KindCubic). The slices are not copied.
func New(x, y []float64, kind Kind, fill Fill) (*Interpolator, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	minLen := 2
	if kind == KindCubic {
		minLen = 3
	}
	if len(x) < minLen {
		return nil, fmt.Errorf("%w: %d < %d", ErrTooFewPoints, len(x), minLen)
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return nil, fmt.Errorf("%w: x[%d]=%v, x[%d]=%v", ErrNotIncreasing, i-1, x[i-1], i, x[i])
		}
	}

	ip := &Interpolator{x: x, y: y, kind: kind, fill: fill}
	switch kind {
	case KindLinear:
		var pl gonuminterp.PiecewiseLinear
		if err := pl.Fit(x, y); err != nil {
			return nil, fmt.Errorf("interp: %w", err)
		}
		ip.fn = &pl
	case KindCubic:
		var nc gonuminterp.NaturalCubic
		if err := nc.Fit(x, y); err != nil {
			return nil, fmt.Errorf("interp: %w", err)
		}
		ip.fn = &nc
	case KindNearest:
	default:
		return nil, fmt.Errorf("interp: unsupported kind %v", kind)
	}
	return ip, nil
}

// At evaluates the interpolant at v.
func (ip *Interpolator) At(v float64) float64 {
	n := len(ip.x)
	if v < ip.x[0] || v > ip.x[n-1] {
		return ip.outside(v)
	}
	if ip.kind == KindNearest {
		return ip.y[grid.NearestIndex(ip.x, v)]
	}
	return ip.fn.Predict(v)
}

// Eval evaluates the interpolant at every element of xs. dst is reused when
// it has enough capacity.
func (ip *Interpolator) Eval(dst, xs []float64) []float64 {
	if cap(dst) < len(xs) {
		dst = make([]float64, len(xs))
	}
	dst = dst[:len(xs)]
	for i, v := range xs {
		dst[i] = ip.At(v)
	}
	return dst
}

func (ip *Interpolator) outside(v float64) float64 {
	if !ip.fill.extrapolate {
		return ip.fill.value
	}
	n := len(ip.x)
	if ip.kind == KindNearest {
		if v < ip.x[0] {
			return ip.y[0]
		}
		return ip.y[n-1]
	}
	i := 0
	if v > ip.x[n-1] {
		i = n - 2
	}
	slope := (ip.y[i+1] - ip.y[i]) / (ip.x[i+1] - ip.x[i])
	return ip.y[i] + slope*(v-ip.x[i])
}

// Resample interpolates (x, y) onto xs in one call.
func Resample(x, y, xs []float64, kind Kind, fill Fill) ([]float64, error) {
	ip, err := New(x, y, kind, fill)
	if err != nil {
		return nil, err
	}
	return ip.Eval(nil, xs), nil
}
