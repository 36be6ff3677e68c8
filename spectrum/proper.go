package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-uvspec/dsp/grid"
)

// DefaultShiftNet keeps the sensitivity finite where the net count rate is
// zero.
const DefaultShiftNet = 1e-7

// ProperError returns a copy of the spectrum with Poisson-correct errors
// (Wilson et al. 2017):
//
//	sensitivity = flux / (net + shiftNet) / exptime
//	error       = sqrt(gross + 1) · sensitivity
//
// Only instruments with CapProperError support it.
func (s *Spectrum) ProperError(shiftNet float64) (*Spectrum, error) {
	if !s.Instrument.Has(CapProperError) {
		return nil, fmt.Errorf("%w: proper error on %s", ErrUnsupportedInstrument, s.Instrument)
	}

	c := s.Clone()
	for _, side := range grid.Sides {
		seg := &c.Segments[side]
		if seg.Empty() {
			continue
		}
		if seg.GrossCounts == nil || seg.Net == nil || seg.Flux == nil {
			return nil, fmt.Errorf("%w: %s side lacks GCOUNTS, NET or FLUX", ErrMissingPrerequisite, side)
		}
		exptime := s.ExposureTime[side]
		if exptime <= 0 {
			return nil, fmt.Errorf("%w: %s side exposure time %v", ErrMissingPrerequisite, side, exptime)
		}
		sigma := make([]float64, seg.Len())
		for i := range sigma {
			sensitivity := seg.Flux[i] / (seg.Net[i] + shiftNet) / exptime
			sigma[i] = math.Sqrt(seg.GrossCounts[i]+1) * sensitivity
		}
		seg.Error = sigma
	}
	c.Version++
	return c, nil
}
