package spectrum

import (
	"fmt"

	"github.com/cwbudde/algo-uvspec/dsp/grid"
)

type loadConfig struct {
	prefix     string
	limits     PixelLimits
	limitsSet  bool
	instrument Instrument
	source     Source
}

// Option configures Load.
type Option func(*loadConfig)

func defaultLoadConfig() loadConfig {
	return loadConfig{instrument: COS}
}

// WithPrefix sets the path prefix of the default FITS source. It is ignored
// when WithSource is given.
func WithPrefix(prefix string) Option {
	return func(cfg *loadConfig) {
		cfg.prefix = prefix
	}
}

// WithPixelLimits overrides the good-pixel ranges. COS spectra default to
// COSPixelLimits, STIS spectra to AllPixels.
func WithPixelLimits(l PixelLimits) Option {
	return func(cfg *loadConfig) {
		cfg.limits = l
		cfg.limitsSet = true
	}
}

// WithInstrument sets the instrument tag. Default is COS.
func WithInstrument(i Instrument) Option {
	return func(cfg *loadConfig) {
		cfg.instrument = i
	}
}

// WithSource replaces the FITS reader.
func WithSource(src Source) Option {
	return func(cfg *loadConfig) {
		cfg.source = src
	}
}

// PrefixOf returns the path prefix Load would use with opts.
func PrefixOf(opts ...Option) string {
	cfg := defaultLoadConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg.prefix
}

// Load reads dataset and applies the good-pixel limits.
func Load(dataset string, opts ...Option) (*Spectrum, error) {
	cfg := defaultLoadConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if !cfg.limitsSet && cfg.instrument == COS {
		cfg.limits = COSPixelLimits()
	}
	src := cfg.source
	if src == nil {
		src = FITSSource{Prefix: cfg.prefix}
	}

	raw, err := src.Read(dataset)
	if err != nil {
		return nil, fmt.Errorf("spectrum: load %s: %w", dataset, err)
	}
	s, err := FromRaw(dataset, cfg.instrument, raw, cfg.limits)
	if err != nil {
		return nil, fmt.Errorf("spectrum: load %s: %w", dataset, err)
	}
	return s, nil
}

// FromRaw builds a Spectrum from raw data, cutting every side to limits.
func FromRaw(dataset string, inst Instrument, raw Raw, limits PixelLimits) (*Spectrum, error) {
	s := &Spectrum{
		Dataset:      dataset,
		Instrument:   inst,
		ExposureTime: raw.ExposureTime,
		StartJD:      raw.StartJD,
		EndJD:        raw.EndJD,
	}
	for _, side := range grid.Sides {
		seg := raw.Segments[side]
		if err := seg.validate(side); err != nil {
			return nil, err
		}
		if seg.Empty() {
			continue
		}
		lo, hi, err := limits[side].resolve(seg.Len())
		if err != nil {
			return nil, fmt.Errorf("%s side: %w", side, err)
		}
		s.Segments[side] = seg.slice(lo, hi)
	}
	if s.Segments[grid.SideRed].Empty() && s.Segments[grid.SideBlue].Empty() {
		return nil, fmt.Errorf("%w: no wavelength data", ErrDataSource)
	}
	return s, nil
}
