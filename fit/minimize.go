package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// Errors returned by the fitting functions.
var (
	ErrEmptyStart      = errors.New("fit: empty starting point")
	ErrBoundsMismatch  = errors.New("fit: bounds length does not match parameters")
	ErrInvalidBounds   = errors.New("fit: lower bound exceeds upper bound")
	ErrNotConverged    = errors.New("fit: optimizer did not converge")
	ErrLengthMismatch  = errors.New("fit: input lengths differ")
	ErrTooFewPoints    = errors.New("fit: too few points for model")
	ErrInvalidDegree   = errors.New("fit: polynomial degree must be non-negative")
	ErrNonFiniteResult = errors.New("fit: objective is not finite at starting point")
)

// Method selects the optimization algorithm.
type Method int

const (
	// MethodAuto runs BFGS with a central-difference gradient and falls back
	// to Nelder-Mead when the line search fails.
	MethodAuto Method = iota
	// MethodNelderMead runs the derivative-free simplex method.
	MethodNelderMead
	// MethodBFGS runs BFGS with a central-difference gradient.
	MethodBFGS
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodAuto:
		return "auto"
	case MethodNelderMead:
		return "nelder-mead"
	case MethodBFGS:
		return "bfgs"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Bounds holds per-parameter box constraints. Use math.Inf for an open side.
// A nil Lower or Upper leaves that side unbounded for every parameter.
type Bounds struct {
	Lower []float64
	Upper []float64
}

// Unbounded returns Bounds with no constraints.
func Unbounded() Bounds { return Bounds{} }

func (b Bounds) lower(i int) float64 {
	if b.Lower == nil || math.IsNaN(b.Lower[i]) {
		return math.Inf(-1)
	}
	return b.Lower[i]
}

func (b Bounds) upper(i int) float64 {
	if b.Upper == nil || math.IsNaN(b.Upper[i]) {
		return math.Inf(1)
	}
	return b.Upper[i]
}

func (b Bounds) validate(n int) error {
	if (b.Lower != nil && len(b.Lower) != n) || (b.Upper != nil && len(b.Upper) != n) {
		return ErrBoundsMismatch
	}
	for i := 0; i < n; i++ {
		if b.lower(i) > b.upper(i) {
			return fmt.Errorf("%w: parameter %d", ErrInvalidBounds, i)
		}
	}
	return nil
}

// Result is the outcome of a minimization.
type Result struct {
	X               []float64
	F               float64
	Method          Method
	Status          string
	Iterations      int
	FuncEvaluations int
}

type minimizeConfig struct {
	method        Method
	bounds        Bounds
	maxIterations int
	maxEvals      int
}

// Option configures Minimize.
type Option func(*minimizeConfig)

func defaultMinimizeConfig() minimizeConfig {
	return minimizeConfig{
		method:   MethodAuto,
		maxEvals: 20000,
	}
}

// WithMethod selects the optimization algorithm.
func WithMethod(m Method) Option {
	return func(cfg *minimizeConfig) {
		cfg.method = m
	}
}

// WithBounds constrains the parameters to a box.
func WithBounds(b Bounds) Option {
	return func(cfg *minimizeConfig) {
		cfg.bounds = b
	}
}

// WithMaxIterations limits the number of major iterations. Zero means no
// limit.
func WithMaxIterations(n int) Option {
	return func(cfg *minimizeConfig) {
		if n >= 0 {
			cfg.maxIterations = n
		}
	}
}

// WithMaxEvaluations limits the number of objective evaluations.
func WithMaxEvaluations(n int) Option {
	return func(cfg *minimizeConfig) {
		if n > 0 {
			cfg.maxEvals = n
		}
	}
}

// transform maps optimizer coordinates u to parameters x per dimension.
type transform struct {
	lo, hi, scale []float64
}

func newTransform(x0 []float64, b Bounds) transform {
	n := len(x0)
	tr := transform{lo: make([]float64, n), hi: make([]float64, n), scale: make([]float64, n)}
	for i, v := range x0 {
		tr.lo[i] = b.lower(i)
		tr.hi[i] = b.upper(i)
		tr.scale[i] = math.Abs(v)
		if tr.scale[i] == 0 || math.IsInf(tr.scale[i], 0) {
			tr.scale[i] = 1
		}
	}
	return tr
}

func (tr transform) toParams(dst, u []float64) {
	for i, ui := range u {
		lo, hi, s := tr.lo[i], tr.hi[i], tr.scale[i]
		switch {
		case !math.IsInf(lo, 0) && !math.IsInf(hi, 0):
			dst[i] = lo + (hi-lo)*(math.Sin(ui)+1)/2
		case !math.IsInf(lo, 0):
			dst[i] = lo + s*(math.Sqrt(ui*ui+1)-1)
		case !math.IsInf(hi, 0):
			dst[i] = hi - s*(math.Sqrt(ui*ui+1)-1)
		default:
			dst[i] = s * ui
		}
	}
}

func (tr transform) fromParams(dst, x []float64) {
	for i, xi := range x {
		lo, hi, s := tr.lo[i], tr.hi[i], tr.scale[i]
		xi = math.Max(lo, math.Min(hi, xi))
		switch {
		case !math.IsInf(lo, 0) && !math.IsInf(hi, 0):
			if hi == lo {
				dst[i] = 0
				continue
			}
			dst[i] = math.Asin(2*(xi-lo)/(hi-lo) - 1)
		case !math.IsInf(lo, 0):
			r := (xi-lo)/s + 1
			dst[i] = math.Sqrt(r*r - 1)
		case !math.IsInf(hi, 0):
			r := (hi-xi)/s + 1
			dst[i] = math.Sqrt(r*r - 1)
		default:
			dst[i] = xi / s
		}
	}
}

// gradientThreshold is the infinity norm of the finite-difference gradient
// below which a gradient method reports convergence. A line search that
// stalls with the gradient under stallThreshold sits at the minimum to
// within finite-difference noise.
const (
	gradientThreshold = 1e-8
	stallThreshold    = 1e-5
)

// acceptStall clears optimize.ErrNoProgress when the gradient at the final
// point is flat.
func acceptStall(res *optimize.Result, err error, grad func(g, u []float64)) error {
	if !errors.Is(err, optimize.ErrNoProgress) || res == nil || math.IsNaN(res.F) {
		return err
	}
	g := make([]float64, len(res.X))
	grad(g, res.X)
	if floats.Norm(g, math.Inf(1)) < stallThreshold*math.Max(1, math.Abs(res.F)) {
		return nil
	}
	return err
}

// Minimize finds a local minimum of f starting from x0.
//
// On ErrNotConverged the returned Result still holds the best point found.
func Minimize(f func(x []float64) float64, x0 []float64, opts ...Option) (Result, error) {
	cfg := defaultMinimizeConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if len(x0) == 0 {
		return Result{}, ErrEmptyStart
	}
	if err := cfg.bounds.validate(len(x0)); err != nil {
		return Result{}, err
	}

	tr := newTransform(x0, cfg.bounds)
	u0 := make([]float64, len(x0))
	tr.fromParams(u0, x0)

	x := make([]float64, len(x0))
	obj := func(u []float64) float64 {
		tr.toParams(x, u)
		return f(x)
	}
	if v := obj(u0); math.IsNaN(v) || math.IsInf(v, 0) {
		return Result{}, fmt.Errorf("%w: f(x0) = %v", ErrNonFiniteResult, v)
	}

	grad := func(g, u []float64) {
		fd.Gradient(g, obj, u, &fd.Settings{Formula: fd.Central})
	}
	problem := optimize.Problem{
		Func: obj,
		Grad: grad,
	}
	settings := &optimize.Settings{
		MajorIterations:   cfg.maxIterations,
		FuncEvaluations:   cfg.maxEvals,
		GradientThreshold: gradientThreshold,
	}

	var (
		res    *optimize.Result
		err    error
		method = cfg.method
	)
	switch cfg.method {
	case MethodNelderMead:
		res, err = optimize.Minimize(problem, u0, settings, &optimize.NelderMead{})
	case MethodBFGS:
		res, err = optimize.Minimize(problem, u0, settings, &optimize.BFGS{})
		err = acceptStall(res, err, grad)
	default:
		method = MethodBFGS
		res, err = optimize.Minimize(problem, u0, settings, &optimize.BFGS{})
		err = acceptStall(res, err, grad)
		if err != nil || res == nil || math.IsNaN(res.F) {
			start := u0
			if res != nil && !math.IsNaN(res.F) {
				start = res.X
			}
			method = MethodNelderMead
			res, err = optimize.Minimize(problem, start, settings, &optimize.NelderMead{})
		}
	}
	if res == nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNotConverged, err)
	}

	out := Result{
		X:               make([]float64, len(x0)),
		F:               res.F,
		Method:          method,
		Status:          res.Status.String(),
		Iterations:      res.Stats.MajorIterations,
		FuncEvaluations: res.Stats.FuncEvaluations,
	}
	tr.toParams(out.X, res.X)
	if err != nil {
		return out, fmt.Errorf("%w: %v", ErrNotConverged, err)
	}
	return out, nil
}
