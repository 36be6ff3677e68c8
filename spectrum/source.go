package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-uvspec/dsp/grid"
)

// Raw is an exposure as stored, before the good-pixel cut.
type Raw struct {
	Segments     [grid.NumSides]Segment
	ExposureTime [grid.NumSides]float64
	StartJD      float64
	EndJD        float64
}

// Source reads the raw data of a dataset.
type Source interface {
	Read(dataset string) (Raw, error)
}

// MemorySource serves datasets from memory. It backs synthetic spectra and
// tests.
type MemorySource map[string]Raw

// Read returns a deep copy of the stored dataset.
func (m MemorySource) Read(dataset string) (Raw, error) {
	raw, ok := m[dataset]
	if !ok {
		return Raw{}, fmt.Errorf("%w: dataset %q not found", ErrDataSource, dataset)
	}
	for _, side := range grid.Sides {
		raw.Segments[side] = raw.Segments[side].clone()
	}
	return raw, nil
}
