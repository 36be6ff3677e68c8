package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-uvspec/dsp/integrate"
	"github.com/cwbudde/algo-uvspec/spectrum"
)

const sample = `
instrument: cos
prefix: data/
datasets: [lb4m01abq, lb4m01acq]
pixel_limits:
  red: [1260, 15170]
  blue: [1025, 15020]
split:
  count: 4
  calibration: /crds/lref
  out_dir: splits
  command: splittag
lines:
  - species: C II
    central: 1334.5323
  - species: Si IV
    central: 1393.755
    velocity: 60
systematics:
  degree: 2
  velocity_range: [-80, 80]
  rv_corrections:
    C II: [12.5]
flux:
  method: bootstrap
catalog: fluxes.db
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.InstrumentValue() != spectrum.COS || len(cfg.Datasets) != 2 {
		t.Fatalf("unexpected header: %+v", cfg)
	}
	if !cfg.Splitting() || cfg.Split.Count != 4 || cfg.Split.Calibration != "/crds/lref" {
		t.Fatalf("unexpected split section: %+v", cfg.Split)
	}
	if cfg.Systematics.Degree != 2 || cfg.Systematics.RVCorrections["C II"][0] != 12.5 {
		t.Fatalf("unexpected systematics section: %+v", cfg.Systematics)
	}
	if cfg.Flux.Samples != integrate.DefaultSamples || cfg.Flux.Seed != integrate.DefaultSeed {
		t.Fatalf("flux defaults not applied: %+v", cfg.Flux)
	}
	if !cfg.RecomputeProperError() || cfg.ShiftNet != spectrum.DefaultShiftNet {
		t.Fatal("proper-error defaults not applied")
	}
	if n := len(cfg.LoadOptions()); n != 2 {
		t.Fatalf("LoadOptions() has %d options, want prefix and pixel limits", n)
	}
	if n := len(cfg.FluxOptions()); n != 3 {
		t.Fatalf("FluxOptions() has %d options", n)
	}

	list := cfg.LineList()
	if list.Len() != 2 {
		t.Fatalf("LineList() has %d lines", list.Len())
	}
	siiv := list["Si IV"][0]
	if w := siiv.Range[1] - siiv.Range[0]; w < 0.55 || w > 0.57 {
		t.Fatalf("Si IV range width %g, want ±60 km/s", w)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("datasets: [x]\nproper_error: false\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Instrument != "cos" {
		t.Fatalf("instrument default = %q", cfg.Instrument)
	}
	if cfg.RecomputeProperError() {
		t.Fatal("proper_error: false ignored")
	}
	if cfg.Splitting() {
		t.Fatal("no split section should mean no splitting")
	}
	if cfg.LineList().Len() != 13 {
		t.Fatal("empty line list should fall back to the COS FUV list")
	}
	if len(cfg.LoadOptions()) != 1 {
		t.Fatal("pixel limits should be left to the instrument default")
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no datasets", "instrument: cos\n"},
		{"unknown instrument", "datasets: [x]\ninstrument: acs\n"},
		{"unknown method", "datasets: [x]\nflux: {method: median}\n"},
		{"count and bins", "datasets: [x]\nsplit: {count: 2, bins: [0, 10]}\n"},
		{"short pixel limits", "datasets: [x]\npixel_limits: {red: [1], blue: [0, 5]}\n"},
		{"reversed velocity range", "datasets: [x]\nsystematics: {velocity_range: [50, -50]}\n"},
		{"line without species", "datasets: [x]\nlines: [{central: 1334.5}]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}

	if _, err := Parse([]byte("datasets: [x]\nunknown_key: 1\n")); err == nil {
		t.Fatal("unknown keys should be rejected")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visit.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Catalog != "fluxes.db" {
		t.Fatalf("Catalog = %q", cfg.Catalog)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
