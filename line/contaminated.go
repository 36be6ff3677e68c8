package line

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-uvspec/dsp/grid"
	"github.com/cwbudde/algo-uvspec/dsp/interp"
	"github.com/cwbudde/algo-uvspec/fit"
	"github.com/cwbudde/algo-uvspec/fit/mcmc"
	"github.com/cwbudde/algo-uvspec/render"
	"github.com/cwbudde/algo-uvspec/spectrum"
)

// DefaultTemplateFill is the flux assigned to template samples shifted in
// from outside its grid.
const DefaultTemplateFill = 1e-18

// fluxUnit rescales flux densities to order unity inside the objective.
const fluxUnit = 1e15

// ContaminatedLine is a spectral line overlapped by airglow emission.
type ContaminatedLine struct {
	*SpectralLine
	Template *AirglowTemplate

	// CleanFlux and CleanError hold the observed profile minus the fitted
	// template. Nil until FitTemplate succeeds.
	CleanFlux  [][]float64
	CleanError [][]float64
}

// NewContaminatedLine extracts the line window and attaches the template.
func NewContaminatedLine(spectra []*spectrum.Spectrum, template *AirglowTemplate, center, vmin, vmax float64) (*ContaminatedLine, error) {
	if template == nil {
		return nil, errors.New("line: nil airglow template")
	}
	sl, err := NewSpectralLine(spectra, center, vmin, vmax)
	if err != nil {
		return nil, err
	}
	return &ContaminatedLine{SpectralLine: sl, Template: template}, nil
}

// TemplateFit is the best-fit template adjustment.
type TemplateFit struct {
	Shift  float64
	Scales []float64
	// Objective is log10 of the summed badness at the solution.
	Objective float64
	Converged bool
	Bounds    fit.Bounds
	Result    fit.Result

	velocityRange [2]float64
	fill          float64
}

// Params returns (Shift, Scales...) as one vector.
func (tf *TemplateFit) Params() []float64 {
	return append([]float64{tf.Shift}, tf.Scales...)
}

type templateConfig struct {
	fill        float64
	shiftBounds [2]float64
	scaleBounds [2]float64
	minimize    []fit.Option
}

// FitOption configures FitTemplate.
type FitOption func(*templateConfig)

func defaultTemplateConfig() templateConfig {
	open := [2]float64{math.Inf(-1), math.Inf(1)}
	return templateConfig{
		fill:        DefaultTemplateFill,
		shiftBounds: open,
		scaleBounds: open,
	}
}

// WithFill sets the flux of template samples shifted in from outside its
// grid. Default DefaultTemplateFill.
func WithFill(v float64) FitOption {
	return func(cfg *templateConfig) {
		cfg.fill = v
	}
}

// WithShiftBounds bounds the Doppler shift in km/s. Use ±Inf for an open
// side.
func WithShiftBounds(lo, hi float64) FitOption {
	return func(cfg *templateConfig) {
		cfg.shiftBounds = [2]float64{lo, hi}
	}
}

// WithScaleBounds bounds every scale factor.
func WithScaleBounds(lo, hi float64) FitOption {
	return func(cfg *templateConfig) {
		cfg.scaleBounds = [2]float64{lo, hi}
	}
}

// WithMinimizeOptions forwards options to fit.Minimize.
func WithMinimizeOptions(opts ...fit.Option) FitOption {
	return func(cfg *templateConfig) {
		cfg.minimize = append(cfg.minimize, opts...)
	}
}

func (cfg templateConfig) bounds(n int) fit.Bounds {
	b := fit.Bounds{Lower: make([]float64, n+1), Upper: make([]float64, n+1)}
	b.Lower[0], b.Upper[0] = cfg.shiftBounds[0], cfg.shiftBounds[1]
	for i := 1; i <= n; i++ {
		b.Lower[i], b.Upper[i] = cfg.scaleBounds[0], cfg.scaleBounds[1]
	}
	return b
}

// template returns the template adjusted by (shift, scale) and resampled
// onto the wavelengths of exposure i.
func (c *ContaminatedLine) template(i int, shift, scale, fill float64) (flux, sigma []float64, err error) {
	adjusted, err := c.Template.Adjusted(shift, scale, interp.KindLinear, interp.FillValue(fill))
	if err != nil {
		return nil, nil, err
	}
	return adjusted.InterpolateTo(c.Wavelength[i], interp.KindLinear)
}

// badness sums diff·weight over [lo, hi) for every exposure, with
// diff = |f − t| in units of 1e-15 and
// weight = sqrt((σf/f)² + (σt/t)²)·diff.
func (c *ContaminatedLine) badness(params []float64, lo, hi int, fill float64) float64 {
	total := 0.0
	for i := range c.Flux {
		tf, te, err := c.template(i, params[0], params[i+1], fill)
		if err != nil {
			return math.NaN()
		}
		f, e := c.Flux[i], c.Error[i]
		for k := lo; k < hi; k++ {
			diff := math.Abs(f[k]*fluxUnit - tf[k]*fluxUnit)
			rf, rt := e[k]/f[k], te[k]/tf[k]
			total += diff * math.Sqrt(rf*rf+rt*rt) * diff
		}
	}
	return total
}

// FitTemplate fits one shared shift and one scale per exposure so the
// adjusted template best matches the observed profile between vmin and vmax.
// The objective is log10 of the summed badness. On success the clean
// profile f − t with error sqrt(σf² + σt²) is stored on c.
func (c *ContaminatedLine) FitTemplate(vmin, vmax, shiftGuess float64, scaleGuesses []float64, opts ...FitOption) (*TemplateFit, error) {
	if len(scaleGuesses) != c.Len() {
		return nil, fmt.Errorf("%w: got %d for %d spectra", ErrParameterCount, len(scaleGuesses), c.Len())
	}
	cfg := defaultTemplateConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	lo, hi := c.velocityIndices(vmin, vmax)
	if hi-lo < 1 {
		return nil, fmt.Errorf("%w: [%g, %g] km/s", ErrEmptyWindow, vmin, vmax)
	}
	objective := func(p []float64) float64 {
		return math.Log10(c.badness(p, lo, hi, cfg.fill))
	}

	guess := append([]float64{shiftGuess}, scaleGuesses...)
	bounds := cfg.bounds(c.Len())
	res, err := fit.Minimize(objective, guess, append([]fit.Option{fit.WithBounds(bounds)}, cfg.minimize...)...)
	converged := err == nil
	if err != nil && !(errors.Is(err, fit.ErrNotConverged) && res.X != nil) {
		return nil, fmt.Errorf("line: template fit: %w", err)
	}

	tf := &TemplateFit{
		Shift:         res.X[0],
		Scales:        append([]float64(nil), res.X[1:]...),
		Objective:     res.F,
		Converged:     converged,
		Bounds:        bounds,
		Result:        res,
		velocityRange: [2]float64{vmin, vmax},
		fill:          cfg.fill,
	}
	if err := c.clean(tf); err != nil {
		return nil, err
	}
	return tf, nil
}

func (c *ContaminatedLine) velocityIndices(vmin, vmax float64) (lo, hi int) {
	return grid.NearestIndex(c.Velocity[0], vmin), grid.NearestIndex(c.Velocity[0], vmax)
}

func (c *ContaminatedLine) clean(tf *TemplateFit) error {
	flux := make([][]float64, c.Len())
	sigma := make([][]float64, c.Len())
	for i := range c.Flux {
		tflux, terr, err := c.template(i, tf.Shift, tf.Scales[i], tf.fill)
		if err != nil {
			return err
		}
		flux[i] = make([]float64, len(tflux))
		sigma[i] = make([]float64, len(tflux))
		for k := range tflux {
			flux[i][k] = c.Flux[i][k] - tflux[k]
			sigma[i][k] = math.Hypot(c.Error[i][k], terr[k])
		}
	}
	c.CleanFlux, c.CleanError = flux, sigma
	return nil
}

// IntegratedCleanFlux integrates the clean profile of each exposure between
// vmin and vmax, with window indices taken from the first exposure.
func (c *ContaminatedLine) IntegratedCleanFlux(vmin, vmax float64) (flux, uncertainty []float64, err error) {
	if c.CleanFlux == nil {
		return nil, nil, ErrNotFitted
	}
	lo, hi := c.velocityIndices(vmin, vmax)
	return integrateRows(c.Wavelength, c.CleanFlux, c.CleanError, vmin, vmax, func(int) [2]int {
		return [2]int{lo, hi}
	})
}

// CleanSeries returns one velocity-space series per exposure of the clean
// profile.
func (c *ContaminatedLine) CleanSeries() ([]render.Series, error) {
	if c.CleanFlux == nil {
		return nil, ErrNotFitted
	}
	return rowSeries(c.Datasets, c.Velocity, c.CleanFlux, c.CleanError), nil
}

type sampleConfig struct {
	walkers int
	steps   int
	spread  float64
	mcmc    []mcmc.Option
}

// SampleOption configures Sample.
type SampleOption func(*sampleConfig)

// WithWalkers sets the ensemble size. Default is max(10, 2·dim).
func WithWalkers(n int) SampleOption {
	return func(cfg *sampleConfig) {
		cfg.walkers = n
	}
}

// WithSteps sets the number of ensemble steps. Default 500.
func WithSteps(n int) SampleOption {
	return func(cfg *sampleConfig) {
		cfg.steps = n
	}
}

// WithSpread sets the standard deviation of the initial walker ball around
// the best fit. Default 1e-4.
func WithSpread(v float64) SampleOption {
	return func(cfg *sampleConfig) {
		cfg.spread = v
	}
}

// WithSamplerOptions forwards options to mcmc.New.
func WithSamplerOptions(opts ...mcmc.Option) SampleOption {
	return func(cfg *sampleConfig) {
		cfg.mcmc = append(cfg.mcmc, opts...)
	}
}

// LogProb returns the log-posterior used by Sample: a flat prior inside the
// fit bounds minus the log of the summed badness.
func (c *ContaminatedLine) LogProb(tf *TemplateFit) mcmc.LogProb {
	lo, hi := c.velocityIndices(tf.velocityRange[0], tf.velocityRange[1])
	return func(p []float64) float64 {
		for i, v := range p {
			if !inside(v, tf.Bounds, i) {
				return math.Inf(-1)
			}
		}
		b := c.badness(p, lo, hi, tf.fill)
		if math.IsNaN(b) || b <= 0 {
			return math.Inf(-1)
		}
		return -math.Log(b)
	}
}

func inside(v float64, b fit.Bounds, i int) bool {
	lo, hi := math.Inf(-1), math.Inf(1)
	if b.Lower != nil && !math.IsNaN(b.Lower[i]) {
		lo = b.Lower[i]
	}
	if b.Upper != nil && !math.IsNaN(b.Upper[i]) {
		hi = b.Upper[i]
	}
	return lo < v && v < hi
}

// Sample runs an ensemble sampler seeded around tf. It can be interrupted
// through ctx, in which case the partial chain is returned with ctx.Err().
func (c *ContaminatedLine) Sample(ctx context.Context, tf *TemplateFit, opts ...SampleOption) (*mcmc.Chain, error) {
	if tf == nil {
		return nil, ErrNotFitted
	}
	center := tf.Params()
	cfg := sampleConfig{walkers: max(10, 2*len(center)), steps: 500, spread: 1e-4}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	sampler, err := mcmc.New(cfg.walkers, len(center), c.LogProb(tf), cfg.mcmc...)
	if err != nil {
		return nil, fmt.Errorf("line: %w", err)
	}
	return sampler.Run(ctx, sampler.Ball(center, cfg.spread), cfg.steps)
}
