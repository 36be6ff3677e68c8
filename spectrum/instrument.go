package spectrum

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-uvspec/dsp/grid"
)

// Instrument identifies the spectrograph that produced a spectrum.
type Instrument int

const (
	// COS is the Cosmic Origins Spectrograph.
	COS Instrument = iota
	// STIS is the Space Telescope Imaging Spectrograph.
	STIS
)

// String returns the instrument name.
func (i Instrument) String() string {
	switch i {
	case COS:
		return "cos"
	case STIS:
		return "stis"
	default:
		return fmt.Sprintf("Instrument(%d)", int(i))
	}
}

// Capability is a reduction step an instrument supports.
type Capability uint8

const (
	// CapProperError marks instruments with count-based error recomputation.
	CapProperError Capability = 1 << iota
	// CapTimeTagSplit marks instruments with event-mode data that can be
	// split in time.
	CapTimeTagSplit
)

var capabilities = map[Instrument]Capability{
	COS:  CapProperError | CapTimeTagSplit,
	STIS: 0,
}

// Has reports whether the instrument supports every capability in c.
func (i Instrument) Has(c Capability) bool {
	return capabilities[i]&c == c
}

// ParseInstrument parses "cos" or "stis", case-insensitively.
func ParseInstrument(name string) (Instrument, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cos":
		return COS, nil
	case "stis":
		return STIS, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedInstrument, name)
	}
}

// PixelRange is a half-open pixel interval [Start, End). End <= 0 extends
// the range to the last pixel.
type PixelRange struct {
	Start int
	End   int
}

func (r PixelRange) resolve(n int) (lo, hi int, err error) {
	lo, hi = r.Start, r.End
	if lo < 0 {
		lo = 0
	}
	if hi <= 0 || hi > n {
		hi = n
	}
	if lo >= hi {
		return 0, 0, fmt.Errorf("%w: pixel range [%d,%d) empty for %d pixels", ErrDataSource, r.Start, r.End, n)
	}
	return lo, hi, nil
}

// PixelLimits holds the good-pixel range of every detector side. The zero
// value keeps all pixels.
type PixelLimits [grid.NumSides]PixelRange

// AllPixels returns limits that keep every pixel.
func AllPixels() PixelLimits { return PixelLimits{} }

// COSPixelLimits returns the good-pixel ranges of the COS FUV detector.
func COSPixelLimits() PixelLimits {
	return PixelLimits{
		grid.SideRed:  {Start: 1260, End: 15170},
		grid.SideBlue: {Start: 1025, End: 15020},
	}
}
