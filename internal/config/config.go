// Package config reads the YAML analysis description used by the uvspec
// command.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/cwbudde/algo-uvspec/dsp/grid"
	"github.com/cwbudde/algo-uvspec/dsp/integrate"
	"github.com/cwbudde/algo-uvspec/line"
	"github.com/cwbudde/algo-uvspec/spectrum"
)

// ErrInvalid is returned for a configuration that fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

// Config describes one visit analysis.
type Config struct {
	Instrument  string       `yaml:"instrument"`
	Prefix      string       `yaml:"prefix,omitempty"`
	Datasets    []string     `yaml:"datasets"`
	PixelLimits *PixelLimits `yaml:"pixel_limits,omitempty"`
	ProperError *bool        `yaml:"proper_error,omitempty"`
	ShiftNet    float64      `yaml:"shift_net,omitempty"`
	Split       Split        `yaml:"split,omitempty"`
	Lines       []Line       `yaml:"lines,omitempty"`
	LineRange   float64      `yaml:"line_range,omitempty"`
	Systematics Systematics  `yaml:"systematics,omitempty"`
	Flux        Flux         `yaml:"flux,omitempty"`
	Catalog     string       `yaml:"catalog,omitempty"`
	PlotDir     string       `yaml:"plot_dir,omitempty"`
}

// PixelLimits holds [start, end) pixel bounds per detector side.
type PixelLimits struct {
	Red  []int `yaml:"red"`
	Blue []int `yaml:"blue"`
}

// Split configures time-tag splitting.
type Split struct {
	Count       int       `yaml:"count,omitempty"`
	Bins        []float64 `yaml:"bins,omitempty"`
	Calibration string    `yaml:"calibration,omitempty"`
	OutDir      string    `yaml:"out_dir,omitempty"`
	Command     string    `yaml:"command,omitempty"`
	Args        []string  `yaml:"args,omitempty"`
	// Existing reads splits already present in OutDir instead of running
	// Command.
	Existing bool `yaml:"existing,omitempty"`
}

// Line is one entry of the reference line list.
type Line struct {
	Species string  `yaml:"species"`
	Central float64 `yaml:"central"`
	// Velocity is the half range in km/s. Zero uses the list-wide default.
	Velocity float64 `yaml:"velocity,omitempty"`
}

// Systematics configures the drift correction.
type Systematics struct {
	Degree          int                  `yaml:"degree"`
	VelocityRange   []float64            `yaml:"velocity_range,omitempty"`
	RVCorrections   map[string][]float64 `yaml:"rv_corrections,omitempty"`
	RecomputeErrors bool                 `yaml:"recompute_errors,omitempty"`
	JDShift         float64              `yaml:"jd_shift,omitempty"`
}

// Flux configures integrated-flux uncertainties.
type Flux struct {
	Method  string `yaml:"method,omitempty"`
	Samples int    `yaml:"samples,omitempty"`
	Seed    uint64 `yaml:"seed,omitempty"`
}

// Load reads and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML document, filling defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Instrument == "" {
		c.Instrument = spectrum.COS.String()
	}
	if c.ShiftNet == 0 {
		c.ShiftNet = spectrum.DefaultShiftNet
	}
	if c.LineRange == 0 {
		c.LineRange = line.DefaultVelocityRange
	}
	if c.Systematics.Degree == 0 {
		c.Systematics.Degree = 1
	}
	if c.Flux.Method == "" {
		c.Flux.Method = spectrum.MethodQuadraticSum.String()
	}
	if c.Flux.Samples == 0 {
		c.Flux.Samples = integrate.DefaultSamples
	}
	if c.Flux.Seed == 0 {
		c.Flux.Seed = integrate.DefaultSeed
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if len(c.Datasets) == 0 {
		return fmt.Errorf("%w: no datasets", ErrInvalid)
	}
	if _, err := spectrum.ParseInstrument(c.Instrument); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := spectrum.ParseMethod(c.Flux.Method); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Split.Count < 0 {
		return fmt.Errorf("%w: split count %d", ErrInvalid, c.Split.Count)
	}
	if c.Split.Count > 0 && len(c.Split.Bins) > 0 {
		return fmt.Errorf("%w: split count and bins are mutually exclusive", ErrInvalid)
	}
	if p := c.PixelLimits; p != nil && (len(p.Red) != 2 || len(p.Blue) != 2) {
		return fmt.Errorf("%w: pixel limits need [start, end] per side", ErrInvalid)
	}
	if v := c.Systematics.VelocityRange; v != nil && (len(v) != 2 || v[0] >= v[1]) {
		return fmt.Errorf("%w: systematics velocity range %v", ErrInvalid, v)
	}
	for i, l := range c.Lines {
		if l.Species == "" || l.Central <= 0 {
			return fmt.Errorf("%w: line %d needs species and central wavelength", ErrInvalid, i)
		}
	}
	return nil
}

// InstrumentValue returns the parsed instrument.
func (c *Config) InstrumentValue() spectrum.Instrument {
	inst, _ := spectrum.ParseInstrument(c.Instrument)
	return inst
}

// Splitting reports whether time-tag splits are requested.
func (c *Config) Splitting() bool {
	return c.Split.Count > 0 || len(c.Split.Bins) > 0 || c.Split.Existing
}

// LoadOptions returns the spectrum.Load options implied by the
// configuration.
func (c *Config) LoadOptions() []spectrum.Option {
	opts := []spectrum.Option{spectrum.WithPrefix(c.Prefix)}
	if c.PixelLimits != nil {
		var limits spectrum.PixelLimits
		limits[grid.SideRed] = spectrum.PixelRange{Start: c.PixelLimits.Red[0], End: c.PixelLimits.Red[1]}
		limits[grid.SideBlue] = spectrum.PixelRange{Start: c.PixelLimits.Blue[0], End: c.PixelLimits.Blue[1]}
		opts = append(opts, spectrum.WithPixelLimits(limits))
	}
	return opts
}

// RecomputeProperError reports whether parent exposures get Poisson errors.
// Default true.
func (c *Config) RecomputeProperError() bool {
	return c.ProperError == nil || *c.ProperError
}

// FluxOptions returns the integrated-flux options.
func (c *Config) FluxOptions() []spectrum.FluxOption {
	method, _ := spectrum.ParseMethod(c.Flux.Method)
	return []spectrum.FluxOption{
		spectrum.WithMethod(method),
		spectrum.WithSamples(c.Flux.Samples),
		spectrum.WithSeed(c.Flux.Seed),
	}
}

// LineList returns the configured lines, or the built-in COS FUV list when
// none are given.
func (c *Config) LineList() line.List {
	if len(c.Lines) == 0 {
		return line.COSFUV(c.LineRange)
	}
	list := line.List{}
	for _, l := range c.Lines {
		v := l.Velocity
		if v == 0 {
			v = c.LineRange
		}
		list.Add(line.New(l.Species, l.Central, v))
	}
	return list
}
