package mcmc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-uvspec/dsp/integrate"
)

// Errors returned by the sampler.
var (
	ErrTooFewWalkers     = errors.New("mcmc: need at least two walkers per dimension")
	ErrDimensionMismatch = errors.New("mcmc: initial position has wrong dimension")
	ErrInvalidLogProb    = errors.New("mcmc: log-probability is NaN at initial position")
	ErrNoSteps           = errors.New("mcmc: step count must be positive")
)

// LogProb returns the log posterior density at theta. Return math.Inf(-1)
// for points outside the prior support.
type LogProb func(theta []float64) float64

type config struct {
	stretch float64
	seed    uint64
}

// Option configures a Sampler.
type Option func(*config)

func defaultConfig() config {
	return config{stretch: 2, seed: integrate.DefaultSeed}
}

// WithStretch sets the stretch-move scale a (> 1).
func WithStretch(a float64) Option {
	return func(cfg *config) {
		if a > 1 {
			cfg.stretch = a
		}
	}
}

// WithSeed sets the random seed.
func WithSeed(seed uint64) Option {
	return func(cfg *config) {
		if seed != 0 {
			cfg.seed = seed
		}
	}
}

// Sampler is an ensemble of walkers exploring a LogProb.
type Sampler struct {
	walkers int
	dim     int
	logProb LogProb
	stretch float64
	rng     *rand.Rand
}

// New creates a Sampler with the given number of walkers in dim dimensions.
func New(walkers, dim int, lp LogProb, opts ...Option) (*Sampler, error) {
	if dim < 1 || walkers < 2*dim {
		return nil, fmt.Errorf("%w: %d walkers for %d dimensions", ErrTooFewWalkers, walkers, dim)
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Sampler{
		walkers: walkers,
		dim:     dim,
		logProb: lp,
		stretch: cfg.stretch,
		rng:     integrate.NewRand(cfg.seed),
	}, nil
}

// Walkers returns the ensemble size.
func (s *Sampler) Walkers() int { return s.walkers }

// Dim returns the parameter-space dimension.
func (s *Sampler) Dim() int { return s.dim }

// Ball returns Walkers() starting positions center + spread·N(0,1).
func (s *Sampler) Ball(center []float64, spread float64) [][]float64 {
	pos := make([][]float64, s.walkers)
	for k := range pos {
		pos[k] = make([]float64, len(center))
		for i, c := range center {
			pos[k][i] = c + spread*s.rng.NormFloat64()
		}
	}
	return pos
}

// Run advances the ensemble from initial for the given number of steps.
//
// When ctx is cancelled Run stops between steps and returns the chain
// recorded so far together with ctx.Err().
func (s *Sampler) Run(ctx context.Context, initial [][]float64, steps int) (*Chain, error) {
	if steps <= 0 {
		return nil, ErrNoSteps
	}
	if len(initial) != s.walkers {
		return nil, fmt.Errorf("%w: %d positions for %d walkers", ErrDimensionMismatch, len(initial), s.walkers)
	}

	pos := make([][]float64, s.walkers)
	lp := make([]float64, s.walkers)
	for k, p := range initial {
		if len(p) != s.dim {
			return nil, fmt.Errorf("%w: walker %d has %d, want %d", ErrDimensionMismatch, k, len(p), s.dim)
		}
		pos[k] = append([]float64(nil), p...)
		lp[k] = s.logProb(pos[k])
		if math.IsNaN(lp[k]) {
			return nil, fmt.Errorf("%w: walker %d", ErrInvalidLogProb, k)
		}
	}

	chain := newChain(s.walkers, s.dim, steps)
	proposal := make([]float64, s.dim)
	for step := 0; step < steps; step++ {
		if err := ctx.Err(); err != nil {
			return chain, err
		}

		for k := 0; k < s.walkers; k++ {
			j := s.rng.IntN(s.walkers - 1)
			if j >= k {
				j++
			}

			u := s.rng.Float64()
			z := (s.stretch - 1) * u
			z = (z + 1) * (z + 1) / s.stretch

			for i := range proposal {
				proposal[i] = pos[j][i] + z*(pos[k][i]-pos[j][i])
			}
			lpNew := s.logProb(proposal)

			q := float64(s.dim-1)*math.Log(z) + lpNew - lp[k]
			if !math.IsNaN(q) && math.Log(s.rng.Float64()) < q {
				copy(pos[k], proposal)
				lp[k] = lpNew
				chain.Accepted[k]++
			}
		}
		chain.record(pos, lp)
	}
	return chain, nil
}
