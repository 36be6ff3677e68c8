package visit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cwbudde/algo-uvspec/dsp/grid"
	"github.com/cwbudde/algo-uvspec/pipeline"
	"github.com/cwbudde/algo-uvspec/render"
	"github.com/cwbudde/algo-uvspec/spectrum"
)

type config struct {
	loadOpts    []spectrum.Option
	properError bool
	shiftNet    float64
	logger      *zap.Logger
	pipe        pipeline.Pipeline
}

// Option configures a Visit.
type Option func(*config)

func defaultConfig() config {
	return config{
		properError: true,
		shiftNet:    spectrum.DefaultShiftNet,
		logger:      zap.NewNop(),
	}
}

// WithLoadOptions passes options to every spectrum.Load call, splits
// included.
func WithLoadOptions(opts ...spectrum.Option) Option {
	return func(cfg *config) {
		cfg.loadOpts = append(cfg.loadOpts, opts...)
	}
}

// WithPrefix sets the directory prefix of the parent products. It feeds
// spectrum.WithPrefix and the event-file paths handed to the pipeline.
func WithPrefix(prefix string) Option {
	return func(cfg *config) {
		cfg.loadOpts = append(cfg.loadOpts, spectrum.WithPrefix(prefix))
	}
}

// WithProperError toggles error recomputation of the parent exposures.
// Default is true. Splits always get recomputed errors.
func WithProperError(enabled bool) Option {
	return func(cfg *config) {
		cfg.properError = enabled
	}
}

// WithShiftNet sets the net-count floor of the error recomputation.
func WithShiftNet(v float64) Option {
	return func(cfg *config) {
		cfg.shiftNet = v
	}
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithPipeline sets the time-tag split back end used by TimeTagSplit.
func WithPipeline(p pipeline.Pipeline) Option {
	return func(cfg *config) {
		cfg.pipe = p
	}
}

// Visit is the set of exposures taken in one HST visit.
type Visit struct {
	Instrument spectrum.Instrument
	// Datasets lists the exposures in load order.
	Datasets  []string
	Exposures map[string]*spectrum.Spectrum
	// Splits holds the time-ordered sub-exposures of each dataset.
	Splits map[string][]*spectrum.Spectrum

	cfg config
}

// New loads every dataset of a visit.
//
// Only COS visits are supported; STIS returns ErrUnsupportedInstrument.
func New(datasets []string, inst spectrum.Instrument, opts ...Option) (*Visit, error) {
	if inst != spectrum.COS {
		return nil, fmt.Errorf("%w: %s visits are not implemented", spectrum.ErrUnsupportedInstrument, inst)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	v := &Visit{
		Instrument: inst,
		Datasets:   append([]string(nil), datasets...),
		Exposures:  make(map[string]*spectrum.Spectrum, len(datasets)),
		Splits:     make(map[string][]*spectrum.Spectrum),
		cfg:        cfg,
	}
	for _, name := range datasets {
		s, err := spectrum.Load(name, v.loadOptions()...)
		if err != nil {
			return nil, fmt.Errorf("visit: %w", err)
		}
		if cfg.properError {
			if s, err = s.ProperError(cfg.shiftNet); err != nil {
				return nil, fmt.Errorf("visit: %s: %w", name, err)
			}
		}
		v.Exposures[name] = s
		cfg.logger.Debug("loaded exposure",
			zap.String("dataset", name),
			zap.Float64("start_jd", s.StartJD),
			zap.Float64("exptime", exposureTime(s)),
		)
	}
	return v, nil
}

func (v *Visit) loadOptions(extra ...spectrum.Option) []spectrum.Option {
	opts := make([]spectrum.Option, 0, len(v.cfg.loadOpts)+len(extra)+1)
	opts = append(opts, spectrum.WithInstrument(v.Instrument))
	opts = append(opts, v.cfg.loadOpts...)
	return append(opts, extra...)
}

// Ordered returns the exposures in dataset order.
func (v *Visit) Ordered() []*spectrum.Spectrum {
	out := make([]*spectrum.Spectrum, 0, len(v.Datasets))
	for _, name := range v.Datasets {
		out = append(out, v.Exposures[name])
	}
	return out
}

// AllSplits returns the splits of every exposure in dataset order.
func (v *Visit) AllSplits() [][]*spectrum.Spectrum {
	out := make([][]*spectrum.Spectrum, 0, len(v.Datasets))
	for _, name := range v.Datasets {
		out = append(out, v.Splits[name])
	}
	return out
}

func exposureTime(s *spectrum.Spectrum) float64 {
	if t := s.ExposureTime[grid.SideRed]; t > 0 {
		return t
	}
	return s.ExposureTime[grid.SideBlue]
}

func (v *Visit) requireSplitting() error {
	if !v.Instrument.Has(spectrum.CapTimeTagSplit) {
		return fmt.Errorf("%w: time-tag splitting on %s", spectrum.ErrUnsupportedInstrument, v.Instrument)
	}
	return nil
}

// TimeTagSplit splits every exposure into n equal sub-exposures through the
// configured pipeline. Outputs are read back from outDir.
func (v *Visit) TimeTagSplit(ctx context.Context, n int, calibrationPath, outDir string) error {
	if err := v.requireSplitting(); err != nil {
		return err
	}
	if n <= 0 {
		return fmt.Errorf("%w: split count must be positive, got %d", spectrum.ErrMissingPrerequisite, n)
	}
	for _, name := range v.Datasets {
		parent := v.Exposures[name]
		edges := EvenBins(exposureTime(parent), n)
		windows := SplitWindows(parent.StartJD, parent.EndJD, exposureTime(parent), n)
		if err := v.split(ctx, name, edges, windows, calibrationPath, outDir); err != nil {
			return err
		}
	}
	return nil
}

// TimeTagSplitBins splits every exposure at explicit bin edges, given in
// seconds from exposure start.
func (v *Visit) TimeTagSplitBins(ctx context.Context, edges []float64, calibrationPath, outDir string) error {
	if err := v.requireSplitting(); err != nil {
		return err
	}
	if len(edges) < 2 {
		return fmt.Errorf("%w: need at least two bin edges, got %d", spectrum.ErrMissingPrerequisite, len(edges))
	}
	if !sort.Float64sAreSorted(edges) {
		return fmt.Errorf("%w: bin edges not sorted", spectrum.ErrMissingPrerequisite)
	}
	for _, name := range v.Datasets {
		parent := v.Exposures[name]
		windows := BinWindows(parent.StartJD, edges)
		if err := v.split(ctx, name, edges, windows, calibrationPath, outDir); err != nil {
			return err
		}
	}
	return nil
}

func (v *Visit) split(ctx context.Context, name string, edges []float64, windows []Window, calibrationPath, outDir string) error {
	if v.cfg.pipe == nil {
		return fmt.Errorf("%w: no split pipeline configured", spectrum.ErrMissingPrerequisite)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	prefix := spectrum.PrefixOf(v.cfg.loadOpts...)
	req := pipeline.Request{
		Dataset:         name,
		Corrtag:         prefix + name + spectrum.CorrtagSuffix,
		CorrtagB:        prefix + name + spectrum.CorrtagBSuffix,
		TimeBins:        edges,
		CalibrationPath: calibrationPath,
		OutDir:          outDir,
	}
	outputs, err := v.cfg.pipe.Split(ctx, req)
	if err != nil {
		return fmt.Errorf("visit: split %s: %w", name, err)
	}
	if len(outputs) != len(windows) {
		return fmt.Errorf("visit: split %s: pipeline returned %d outputs for %d bins", name, len(outputs), len(windows))
	}

	splits, err := v.loadSplits(outputs, windows, outDir)
	if err != nil {
		return err
	}
	v.Splits[name] = splits
	v.cfg.logger.Info("time-tag split",
		zap.String("dataset", name),
		zap.Int("splits", len(splits)),
	)
	return nil
}

func (v *Visit) loadSplits(names []string, windows []Window, dir string) ([]*spectrum.Spectrum, error) {
	splits := make([]*spectrum.Spectrum, len(names))
	for i, name := range names {
		s, err := spectrum.Load(name, v.loadOptions(spectrum.WithPrefix(dirPrefix(dir)))...)
		if err != nil {
			return nil, fmt.Errorf("visit: split %s: %w", name, err)
		}
		s.StartJD, s.EndJD = windows[i].StartJD, windows[i].EndJD
		if s, err = s.ProperError(v.cfg.shiftNet); err != nil {
			return nil, fmt.Errorf("visit: split %s: %w", name, err)
		}
		splits[i] = s
	}
	return splits, nil
}

func dirPrefix(dir string) string {
	if dir == "" || strings.HasSuffix(dir, string(os.PathSeparator)) {
		return dir
	}
	return dir + string(os.PathSeparator)
}

// AssignSplits picks up splits produced earlier, found as
// `<path>/<dataset>_?_x1d.fits`.
func (v *Visit) AssignSplits(path string) error {
	if err := v.requireSplitting(); err != nil {
		return err
	}
	for _, name := range v.Datasets {
		matches, err := filepath.Glob(filepath.Join(path, name+"_?"+spectrum.ExtractedSuffix))
		if err != nil {
			return fmt.Errorf("visit: %w", err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("%w: no splits of %s in %s", spectrum.ErrMissingPrerequisite, name, path)
		}
		sort.Strings(matches)

		outputs := make([]string, len(matches))
		for i, m := range matches {
			outputs[i] = strings.TrimSuffix(filepath.Base(m), spectrum.ExtractedSuffix)
		}
		parent := v.Exposures[name]
		windows := SplitWindows(parent.StartJD, parent.EndJD, exposureTime(parent), len(outputs))

		splits, err := v.loadSplits(outputs, windows, path)
		if err != nil {
			return err
		}
		v.Splits[name] = splits
		v.cfg.logger.Info("assigned splits", zap.String("dataset", name), zap.Int("splits", len(splits)))
	}
	return nil
}

// Series returns one plot series per exposure inside r.
func (v *Visit) Series(r spectrum.Range, velocityRef float64) ([]render.Series, error) {
	out := make([]render.Series, 0, len(v.Datasets))
	for _, s := range v.Ordered() {
		series, err := s.Series(r, velocityRef)
		if err != nil {
			return nil, fmt.Errorf("visit: %w", err)
		}
		out = append(out, series)
	}
	return out, nil
}
