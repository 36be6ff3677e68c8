package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/cwbudde/algo-uvspec/catalog"
	"github.com/cwbudde/algo-uvspec/internal/testutil"
	"github.com/cwbudde/algo-uvspec/spectrum"
	"github.com/cwbudde/algo-uvspec/spectrum/spectrumtest"
)

func openCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Open(filepath.Join(t.TempDir(), "fluxes.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRecordAndLightCurve(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	// Insert out of time order.
	for _, i := range []int{3, 1, 2} {
		s := spectrumtest.Load(t, spectrumtest.Exposure{
			Dataset: fmt.Sprintf("lb4m01abq_%d", i),
			ExpTime: 400,
			StartJD: 2457000.5 + float64(i)*400/86400,
		})
		m, err := catalog.Measure(s, "C II", 1334.5323, spectrum.VelocityRange(-100, 100, 1334.5323), spectrum.MethodQuadraticSum)
		if err != nil {
			t.Fatalf("Measure() error = %v", err)
		}
		rec, err := c.Record(ctx, m)
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
		if _, err := uuid.Parse(rec.ID); err != nil {
			t.Fatalf("ID %q is not a UUID: %v", rec.ID, err)
		}
	}
	other := catalog.Measurement{Dataset: "lb4m01acq_1", Species: "C II", Method: "bootstrap"}
	if _, err := c.Record(ctx, other); err != nil {
		t.Fatal(err)
	}

	curve, err := c.LightCurve(ctx, "lb4m01abq", "C II")
	if err != nil {
		t.Fatalf("LightCurve() error = %v", err)
	}
	if len(curve) != 3 {
		t.Fatalf("LightCurve() returned %d measurements, want 3", len(curve))
	}
	for i, m := range curve {
		if want := fmt.Sprintf("lb4m01abq_%d", i+1); m.Dataset != want {
			t.Fatalf("curve[%d] = %s, want %s", i, m.Dataset, want)
		}
		if !m.Velocity || m.Range != [2]float64{-100, 100} || m.Method != "quadratic_sum" {
			t.Fatalf("curve[%d] round trip lost fields: %+v", i, m)
		}
		if m.CreatedAt.IsZero() {
			t.Fatalf("curve[%d] has no creation time", i)
		}
	}
	testutil.RequireRelative(t, "flux", curve[0].Flux, curve[2].Flux, 1e-12)

	none, err := c.LightCurve(ctx, "lb4m01abq", "Si IV")
	if err != nil || len(none) != 0 {
		t.Fatalf("unexpected measurements for Si IV: %d, %v", len(none), err)
	}
}

func TestLightCurveLiteralPrefix(t *testing.T) {
	c := openCatalog(t)
	ctx := context.Background()

	for _, name := range []string{"lb4m01abq_1", "lb4m01abqx1", "lb4m01abq%2"} {
		m := catalog.Measurement{Dataset: name, Species: "C II", Method: "bootstrap"}
		if _, err := c.Record(ctx, m); err != nil {
			t.Fatalf("Record(%s) error = %v", name, err)
		}
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{"lb4m01abq_", []string{"lb4m01abq_1"}},
		{"lb4m01abq%", []string{"lb4m01abq%2"}},
		{"lb4m01abq", []string{"lb4m01abq%2", "lb4m01abq_1", "lb4m01abqx1"}},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			curve, err := c.LightCurve(ctx, tt.prefix, "C II")
			if err != nil {
				t.Fatalf("LightCurve() error = %v", err)
			}
			var got []string
			for _, m := range curve {
				got = append(got, m.Dataset)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Fatalf("LightCurve(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}
}

func TestRecordInvalid(t *testing.T) {
	c := openCatalog(t)
	if _, err := c.Record(context.Background(), catalog.Measurement{Species: "C II"}); !errors.Is(err, catalog.ErrInvalidMeasurement) {
		t.Fatalf("expected ErrInvalidMeasurement, got %v", err)
	}
}

func TestMeasureRangeNotCovered(t *testing.T) {
	s := spectrumtest.Load(t, spectrumtest.Exposure{})
	if _, err := catalog.Measure(s, "X", 1285, spectrum.VelocityRange(-100, 100, 1285), spectrum.MethodQuadraticSum); err == nil {
		t.Fatal("expected an error for a range in the detector gap")
	}
}
