package grid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRangeNotCovered is returned when no single detector side fully
// contains a requested wavelength range.
var ErrRangeNotCovered = errors.New("grid: range not covered by any detector side")

// Side identifies one of the two detector segments of an exposure.
type Side int

const (
	// SideRed is the long-wavelength segment (COS segment A).
	SideRed Side = iota
	// SideBlue is the short-wavelength segment (COS segment B).
	SideBlue
)

// NumSides is the number of detector segments per exposure.
const NumSides = 2

// Sides lists every side in storage order.
var Sides = [NumSides]Side{SideRed, SideBlue}

func (s Side) String() string {
	switch s {
	case SideRed:
		return "red"
	case SideBlue:
		return "blue"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Valid reports whether s names an existing side.
func (s Side) Valid() bool {
	return s == SideRed || s == SideBlue
}

// ParseSide accepts "red", "blue", "0" or "1".
func ParseSide(name string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "red", "0", "a":
		return SideRed, nil
	case "blue", "1", "b":
		return SideBlue, nil
	default:
		return 0, fmt.Errorf("grid: unknown side %q", name)
	}
}

// PickSide returns the side whose wavelength array strictly contains r.
//
// The red side is tested first. A range that straddles both sides, or lies
// outside both, yields ErrRangeNotCovered; ranges are never merged across
// sides.
func PickSide(wavelength [NumSides][]float64, r [2]float64) (Side, error) {
	for _, s := range Sides {
		lo, hi, ok := bounds(wavelength[s])
		if !ok {
			continue
		}
		if r[0] > lo && r[1] < hi {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %.2f-%.2f", ErrRangeNotCovered, r[0], r[1])
}

func bounds(x []float64) (lo, hi float64, ok bool) {
	if len(x) == 0 {
		return 0, 0, false
	}
	lo, hi = x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}
