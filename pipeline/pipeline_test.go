package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRequest(t *testing.T) {
	req := Request{Dataset: "lb4m01abq", TimeBins: []float64{0, 400, 800, 1200.5}}

	if req.Splits() != 3 {
		t.Fatalf("Splits() = %d, want 3", req.Splits())
	}
	if got := req.TimeList(); got != "0, 400, 800, 1200.5" {
		t.Fatalf("TimeList() = %q", got)
	}
	names := req.OutputDatasets()
	if len(names) != 3 || names[0] != "lb4m01abq_1" || names[2] != "lb4m01abq_3" {
		t.Fatalf("OutputDatasets() = %v", names)
	}
	if (Request{TimeBins: []float64{0}}).Splits() != 0 {
		t.Fatal("single edge should give no splits")
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts not available")
	}
	path := filepath.Join(t.TempDir(), "split.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

// The fake pipeline reads --outroot and touches <outroot>_{1,2}_x1d.fits.
const touchOutputs = `
while [ $# -gt 0 ]; do
  if [ "$1" = "--outroot" ]; then root="$2"; fi
  shift
done
touch "${root}_1_x1d.fits" "${root}_2_x1d.fits"
`

func TestCommandSplit(t *testing.T) {
	script := writeScript(t, touchOutputs)
	out := filepath.Join(t.TempDir(), "split")

	names, err := NewCommand(script).Split(context.Background(), Request{
		Dataset:  "ld9m10ujq",
		Corrtag:  "ld9m10ujq_corrtag_a.fits",
		TimeBins: []float64{0, 500, 1000},
		OutDir:   out,
	})
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(names) != 2 || names[1] != "ld9m10ujq_2" {
		t.Fatalf("Split() = %v", names)
	}
}

func TestCommandSegmentB(t *testing.T) {
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	script := writeScript(t, `echo "$@" > `+argsFile+"\n"+touchOutputs)
	corrB := filepath.Join(dir, "ld9m10ujq_corrtag_b.fits")

	req := Request{
		Dataset:  "ld9m10ujq",
		Corrtag:  filepath.Join(dir, "ld9m10ujq_corrtag_a.fits"),
		CorrtagB: corrB,
		TimeBins: []float64{0, 500, 1000},
		OutDir:   filepath.Join(dir, "split"),
	}

	if _, err := NewCommand(script).Split(context.Background(), req); err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	args, _ := os.ReadFile(argsFile)
	if strings.Contains(string(args), "--corrtag-b") {
		t.Fatalf("missing segment-B file was passed: %s", args)
	}

	if err := os.WriteFile(corrB, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCommand(script).Split(context.Background(), req); err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	args, _ = os.ReadFile(argsFile)
	if !strings.Contains(string(args), "--corrtag "+req.Corrtag+" --corrtag-b "+corrB) {
		t.Fatalf("args = %s", args)
	}
}

func TestCommandErrors(t *testing.T) {
	ctx := context.Background()
	out := t.TempDir()

	if _, err := NewCommand("true").Split(ctx, Request{OutDir: out}); !errors.Is(err, ErrNoTimeBins) {
		t.Fatalf("expected ErrNoTimeBins, got %v", err)
	}

	failing := writeScript(t, "exit 3\n")
	_, err := NewCommand(failing).Split(ctx, Request{Dataset: "x", TimeBins: []float64{0, 1}, OutDir: out})
	if !errors.Is(err, ErrCommandFailed) {
		t.Fatalf("expected ErrCommandFailed, got %v", err)
	}

	silent := writeScript(t, "exit 0\n")
	_, err = NewCommand(silent).Split(ctx, Request{Dataset: "x", TimeBins: []float64{0, 1}, OutDir: out})
	if !errors.Is(err, ErrMissingOutput) {
		t.Fatalf("expected ErrMissingOutput, got %v", err)
	}
}

func TestFunc(t *testing.T) {
	var got Request
	p := Func(func(_ context.Context, req Request) ([]string, error) {
		got = req
		return req.OutputDatasets(), nil
	})

	names, err := p.Split(context.Background(), Request{Dataset: "d", TimeBins: []float64{0, 1, 2}})
	if err != nil || len(names) != 2 || got.Dataset != "d" {
		t.Fatalf("Func.Split() = %v, %v", names, err)
	}
}
