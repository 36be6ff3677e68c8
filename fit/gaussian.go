package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-uvspec/dsp/profile"
)

// GaussianParams describes amplitude·exp(-(x-Center)²/(2·Width²)).
type GaussianParams struct {
	Center    float64
	Width     float64
	Amplitude float64
}

func (p GaussianParams) vector() []float64 {
	return []float64{p.Center, p.Width, p.Amplitude}
}

func paramsFromVector(v []float64) GaussianParams {
	return GaussianParams{Center: v[0], Width: math.Abs(v[1]), Amplitude: v[2]}
}

// Eval evaluates the Gaussian at x.
func (p GaussianParams) Eval(x float64) float64 {
	return profile.Gaussian(x, p.Center, p.Width, p.Amplitude)
}

// GaussianFit is the outcome of Gaussian.
type GaussianFit struct {
	Params GaussianParams
	// Covariance of (Center, Width, Amplitude) scaled by the residual
	// variance. Nil for weighted fits or a singular Jacobian.
	Covariance *mat.SymDense
	// Objective is the residual sum of squares, or chi-square when weighted.
	Objective float64
	Weighted  bool
}

// Errors returns the one-sigma parameter errors from the covariance, or the
// zero value when no covariance is available.
func (f GaussianFit) Errors() GaussianParams {
	if f.Covariance == nil {
		return GaussianParams{}
	}
	return GaussianParams{
		Center:    math.Sqrt(f.Covariance.At(0, 0)),
		Width:     math.Sqrt(f.Covariance.At(1, 1)),
		Amplitude: math.Sqrt(f.Covariance.At(2, 2)),
	}
}

type gaussianConfig struct {
	yerr []float64
}

// GaussianOption configures Gaussian.
type GaussianOption func(*gaussianConfig)

// LeastSquares selects the unweighted least-squares fit. It is the default.
func LeastSquares() GaussianOption {
	return func(cfg *gaussianConfig) {
		cfg.yerr = nil
	}
}

// WithUncertainty selects a chi-square fit weighted by yerr.
func WithUncertainty(yerr []float64) GaussianOption {
	return func(cfg *gaussianConfig) {
		cfg.yerr = yerr
	}
}

// Gaussian fits a Gaussian to (x, y) starting from guess.
func Gaussian(x, y []float64, guess GaussianParams, opts ...GaussianOption) (GaussianFit, error) {
	var cfg gaussianConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if len(x) != len(y) || (cfg.yerr != nil && len(cfg.yerr) != len(y)) {
		return GaussianFit{}, ErrLengthMismatch
	}
	if len(x) < 3 {
		return GaussianFit{}, fmt.Errorf("%w: %d points for 3 parameters", ErrTooFewPoints, len(x))
	}

	if cfg.yerr != nil {
		chisq := func(p []float64) float64 {
			s := 0.0
			for i := range x {
				r := (y[i] - profile.Gaussian(x[i], p[0], p[1], p[2])) / cfg.yerr[i]
				s += r * r
			}
			return s
		}
		res, err := Minimize(chisq, guess.vector(), WithMethod(MethodNelderMead))
		if err != nil {
			return GaussianFit{}, err
		}
		return GaussianFit{Params: paramsFromVector(res.X), Objective: res.F, Weighted: true}, nil
	}

	rss := func(p []float64) float64 {
		s := 0.0
		for i := range x {
			r := y[i] - profile.Gaussian(x[i], p[0], p[1], p[2])
			s += r * r
		}
		return s
	}
	res, err := Minimize(rss, guess.vector())
	if err != nil {
		return GaussianFit{}, err
	}

	return GaussianFit{
		Params:     paramsFromVector(res.X),
		Covariance: covariance(x, res.X, res.F),
		Objective:  res.F,
	}, nil
}

// covariance estimates (JᵀJ)⁻¹·RSS/(n-p) at the solution p.
func covariance(x, p []float64, rss float64) *mat.SymDense {
	n, k := len(x), len(p)
	if n <= k {
		return nil
	}

	jac := mat.NewDense(n, k, nil)
	fd.Jacobian(jac, func(dst, q []float64) {
		for i := range x {
			dst[i] = profile.Gaussian(x[i], q[0], q[1], q[2])
		}
	}, p, &fd.JacobianSettings{Formula: fd.Central})

	var jtj mat.SymDense
	jtj.SymOuterK(1, jac.T())

	var chol mat.Cholesky
	if ok := chol.Factorize(&jtj); !ok {
		return nil
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil
	}
	cov.ScaleSym(rss/float64(n-k), &cov)
	return &cov
}
