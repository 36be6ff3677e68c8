package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Errors returned by pipelines.
var (
	ErrNoTimeBins    = errors.New("pipeline: at least two time-bin edges required")
	ErrCommandFailed = errors.New("pipeline: split command failed")
	ErrMissingOutput = errors.New("pipeline: expected output not produced")
)

// Request describes one exposure to split.
type Request struct {
	// Dataset is the name of the parent exposure.
	Dataset string
	// Corrtag is the path of the parent segment-A event file.
	Corrtag string
	// CorrtagB is the path of the segment-B event file. It may be empty or
	// name a file that does not exist for single-segment settings.
	CorrtagB string
	// TimeBins holds the bin edges in seconds from exposure start.
	TimeBins []float64
	// CalibrationPath is the reference-file directory (lref).
	CalibrationPath string
	// OutDir receives `<Dataset>_<i>_x1d.fits` for i = 1..len(TimeBins)-1.
	OutDir string
}

// Splits returns the number of sub-exposures the request produces.
func (r Request) Splits() int {
	if len(r.TimeBins) < 2 {
		return 0
	}
	return len(r.TimeBins) - 1
}

// OutputDatasets returns the dataset names of the sub-exposures, 1-based.
func (r Request) OutputDatasets() []string {
	out := make([]string, r.Splits())
	for i := range out {
		out[i] = SplitName(r.Dataset, i+1)
	}
	return out
}

// TimeList formats TimeBins as the comma-separated list splittag expects.
func (r Request) TimeList() string {
	parts := make([]string, len(r.TimeBins))
	for i, t := range r.TimeBins {
		parts[i] = strconv.FormatFloat(t, 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}

// SplitName returns the dataset name of sub-exposure i of dataset.
func SplitName(dataset string, i int) string {
	return fmt.Sprintf("%s_%d", dataset, i)
}

// Pipeline splits an exposure into sub-exposures and returns their dataset
// names in time order. Outputs are written to Request.OutDir.
type Pipeline interface {
	Split(ctx context.Context, req Request) ([]string, error)
}

// Func adapts a function to Pipeline.
type Func func(ctx context.Context, req Request) ([]string, error)

// Split calls f.
func (f Func) Split(ctx context.Context, req Request) ([]string, error) {
	return f(ctx, req)
}

// Command runs an external executable with
//
//	--corrtag <file> [--corrtag-b <file>] --time-list <csv> --outroot <outdir/dataset> --lref <calib>
//
// and the lref environment variable set to the calibration path. The
// --corrtag-b flag is passed only when Request.CorrtagB exists.
type Command struct {
	Path   string
	Args   []string
	logger *zap.Logger
}

// Option configures a Command.
type Option func(*Command)

// WithArgs prepends fixed arguments to every invocation.
func WithArgs(args ...string) Option {
	return func(c *Command) {
		c.Args = append(c.Args, args...)
	}
}

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Command) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCommand returns a Command running the executable at path.
func NewCommand(path string, opts ...Option) *Command {
	c := &Command{Path: path, logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Split runs the executable and checks that every expected extracted
// spectrum exists afterwards.
func (c *Command) Split(ctx context.Context, req Request) ([]string, error) {
	if req.Splits() == 0 {
		return nil, ErrNoTimeBins
	}
	if err := os.MkdirAll(req.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("pipeline: create %s: %w", req.OutDir, err)
	}

	args := append(append([]string(nil), c.Args...),
		"--corrtag", req.Corrtag,
	)
	if req.CorrtagB != "" {
		if _, err := os.Stat(req.CorrtagB); err == nil {
			args = append(args, "--corrtag-b", req.CorrtagB)
		}
	}
	args = append(args,
		"--time-list", req.TimeList(),
		"--outroot", filepath.Join(req.OutDir, req.Dataset),
		"--lref", req.CalibrationPath,
	)
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Env = append(os.Environ(), "lref="+req.CalibrationPath)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.logger.Info("running time-tag split",
		zap.String("dataset", req.Dataset),
		zap.Int("splits", req.Splits()),
		zap.String("outdir", req.OutDir),
	)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Error("time-tag split failed",
			zap.String("dataset", req.Dataset),
			zap.String("stderr", stderr.String()),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %s: %v", ErrCommandFailed, req.Dataset, err)
	}

	names := req.OutputDatasets()
	for _, name := range names {
		path := filepath.Join(req.OutDir, name+"_x1d.fits")
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingOutput, path)
		}
	}
	c.logger.Debug("time-tag split done", zap.String("dataset", req.Dataset), zap.Strings("outputs", names))
	return names, nil
}
