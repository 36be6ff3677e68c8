package render

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Errors returned by renderers.
var (
	ErrNoSeries       = errors.New("render: no series to draw")
	ErrLengthMismatch = errors.New("render: series arrays differ in length")
	ErrUnknownFormat  = errors.New("render: unknown output format")
)

// Series is one curve: y(x) with optional symmetric errors.
type Series struct {
	Label string
	X     []float64
	Y     []float64
	Err   []float64
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.X) }

func (s Series) validate() error {
	if len(s.Y) != len(s.X) || (s.Err != nil && len(s.Err) != len(s.X)) {
		return fmt.Errorf("%w: %q has x=%d y=%d err=%d", ErrLengthMismatch, s.Label, len(s.X), len(s.Y), len(s.Err))
	}
	return nil
}

// Style selects how a series is drawn.
type Style int

const (
	// StyleSteps draws a histogram-like step line, the usual way to show a
	// binned spectrum.
	StyleSteps Style = iota
	// StyleLine draws straight segments between samples.
	StyleLine
	// StylePoints draws markers only.
	StylePoints
)

// Options holds plot decorations.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Style  Style
	Width  vg.Length
	Height vg.Length
	// ErrorBars draws Series.Err when present.
	ErrorBars bool
}

// DefaultOptions returns a 6×4 inch step plot with error bars.
func DefaultOptions() Options {
	return Options{
		XLabel:    "Wavelength (Å)",
		YLabel:    "Flux density (erg/s/cm²/Å)",
		Style:     StyleSteps,
		Width:     6 * vg.Inch,
		Height:    4 * vg.Inch,
		ErrorBars: true,
	}
}

// Sink consumes series, typically by drawing them.
type Sink interface {
	Render(series []Series, opts Options) error
}

// File is a Sink writing one image to Path.
type File struct {
	Path string
}

var formats = map[string]bool{".png": true, ".svg": true, ".pdf": true, ".eps": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true}

// Render draws series and saves the image.
func (f File) Render(series []Series, opts Options) error {
	ext := strings.ToLower(filepath.Ext(f.Path))
	if !formats[ext] {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	p, err := Plot(series, opts)
	if err != nil {
		return err
	}
	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = DefaultOptions().Width
	}
	if h <= 0 {
		h = DefaultOptions().Height
	}
	if err := p.Save(w, h, f.Path); err != nil {
		return fmt.Errorf("render: save %s: %w", f.Path, err)
	}
	return nil
}

// errorPoints satisfies both plotter.XYer and plotter.YErrorer.
type errorPoints struct {
	plotter.XYs
	plotter.YErrors
}

// Plot builds a gonum plot from series.
func Plot(series []Series, opts Options) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, ErrNoSeries
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	p.Add(plotter.NewGrid())

	for i, s := range series {
		if err := s.validate(); err != nil {
			return nil, err
		}
		xys := make(plotter.XYs, s.Len())
		for k := range xys {
			xys[k].X = s.X[k]
			xys[k].Y = s.Y[k]
		}
		col := plotutil.Color(i)

		switch opts.Style {
		case StylePoints:
			sc, err := plotter.NewScatter(xys)
			if err != nil {
				return nil, fmt.Errorf("render: %q: %w", s.Label, err)
			}
			sc.GlyphStyle.Color = col
			sc.GlyphStyle.Radius = vg.Points(2)
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			p.Add(sc)
			if s.Label != "" {
				p.Legend.Add(s.Label, sc)
			}
		default:
			l, err := plotter.NewLine(xys)
			if err != nil {
				return nil, fmt.Errorf("render: %q: %w", s.Label, err)
			}
			l.LineStyle.Color = col
			l.LineStyle.Width = vg.Points(1)
			if opts.Style == StyleSteps {
				l.StepStyle = plotter.MidStep
			}
			p.Add(l)
			if s.Label != "" {
				p.Legend.Add(s.Label, l)
			}
		}

		if opts.ErrorBars && s.Err != nil {
			yerr := make(plotter.YErrors, s.Len())
			for k, e := range s.Err {
				yerr[k].Low, yerr[k].High = e, e
			}
			bars, err := plotter.NewYErrorBars(errorPoints{XYs: xys, YErrors: yerr})
			if err != nil {
				return nil, fmt.Errorf("render: %q: %w", s.Label, err)
			}
			bars.LineStyle.Color = col
			p.Add(bars)
		}
	}
	return p, nil
}
