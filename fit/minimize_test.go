package fit

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-uvspec/internal/testutil"
)

func rosenbrock(x []float64) float64 {
	a := 1 - x[0]
	b := x[1] - x[0]*x[0]
	return a*a + 100*b*b
}

func TestMinimizeMethods(t *testing.T) {
	tests := []struct {
		name   string
		method Method
	}{
		{name: "auto", method: MethodAuto},
		{name: "nelder-mead", method: MethodNelderMead},
		{name: "bfgs", method: MethodBFGS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Minimize(rosenbrock, []float64{-1.2, 1}, WithMethod(tt.method))
			if err != nil {
				t.Fatalf("Minimize() error = %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, res.X, []float64{1, 1}, 5e-3)
		})
	}
}

func TestMinimizeBFGSQuadratic(t *testing.T) {
	f := func(x []float64) float64 {
		return (x[0]-3)*(x[0]-3) + 10*(x[1]+2)*(x[1]+2)
	}

	for _, m := range []Method{MethodBFGS, MethodAuto} {
		t.Run(m.String(), func(t *testing.T) {
			res, err := Minimize(f, []float64{0, 0}, WithMethod(m))
			if err != nil {
				t.Fatalf("Minimize() error = %v", err)
			}
			if res.Method != MethodBFGS {
				t.Fatalf("Method = %v, want bfgs without fallback", res.Method)
			}
			testutil.RequireSliceNearlyEqual(t, res.X, []float64{3, -2}, 1e-5)
		})
	}
}

func TestMinimizeBounds(t *testing.T) {
	f := func(x []float64) float64 {
		return (x[0]-5)*(x[0]-5) + (x[1]+3)*(x[1]+3)
	}

	tests := []struct {
		name   string
		bounds Bounds
		want   []float64
	}{
		{
			name:   "box active",
			bounds: Bounds{Lower: []float64{0, 0}, Upper: []float64{2, 2}},
			want:   []float64{2, 0},
		},
		{
			name:   "lower only",
			bounds: Bounds{Lower: []float64{math.Inf(-1), -1}},
			want:   []float64{5, -1},
		},
		{
			name:   "upper only",
			bounds: Bounds{Upper: []float64{4, math.Inf(1)}},
			want:   []float64{4, -3},
		},
		{
			name: "unbounded",
			want: []float64{5, -3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Minimize(f, []float64{1, 1}, WithBounds(tt.bounds), WithMethod(MethodNelderMead))
			if err != nil {
				t.Fatalf("Minimize() error = %v", err)
			}
			testutil.RequireSliceNearlyEqual(t, res.X, tt.want, 1e-3)
		})
	}
}

func TestMinimizeErrors(t *testing.T) {
	f := func(x []float64) float64 { return x[0] * x[0] }

	if _, err := Minimize(f, nil); !errors.Is(err, ErrEmptyStart) {
		t.Fatalf("expected ErrEmptyStart, got %v", err)
	}
	if _, err := Minimize(f, []float64{1}, WithBounds(Bounds{Lower: []float64{0, 0}})); !errors.Is(err, ErrBoundsMismatch) {
		t.Fatalf("expected ErrBoundsMismatch, got %v", err)
	}
	if _, err := Minimize(f, []float64{1}, WithBounds(Bounds{Lower: []float64{2}, Upper: []float64{1}})); !errors.Is(err, ErrInvalidBounds) {
		t.Fatalf("expected ErrInvalidBounds, got %v", err)
	}
	nan := func(x []float64) float64 { return math.NaN() }
	if _, err := Minimize(nan, []float64{1}); !errors.Is(err, ErrNonFiniteResult) {
		t.Fatalf("expected ErrNonFiniteResult, got %v", err)
	}
}

func TestTransformRoundTrip(t *testing.T) {
	x0 := []float64{0.5, 3, -2, 7}
	b := Bounds{
		Lower: []float64{0, 1, math.Inf(-1), math.Inf(-1)},
		Upper: []float64{1, math.Inf(1), 0, math.Inf(1)},
	}
	tr := newTransform(x0, b)

	u := make([]float64, len(x0))
	x := make([]float64, len(x0))
	tr.fromParams(u, x0)
	tr.toParams(x, u)
	testutil.RequireSliceNearlyEqual(t, x, x0, 1e-12)
}
