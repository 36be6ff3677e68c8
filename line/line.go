package line

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-uvspec/dsp/doppler"
)

// Errors returned by the line types.
var (
	ErrNoSpectra      = errors.New("line: no spectra")
	ErrShortSpectrum  = errors.New("line: spectrum shorter than the line window")
	ErrEmptyWindow    = errors.New("line: integration window holds fewer than two samples")
	ErrParameterCount = errors.New("line: one scale guess per spectrum required")
	ErrNotFitted      = errors.New("line: template not fitted")
	ErrLengthMismatch = errors.New("line: array length mismatch")
)

// Default velocity half-ranges in km/s.
const (
	DefaultVelocityRange             = 100.0
	DefaultContaminatedVelocityRange = 300.0
)

// Window converts a velocity range around center into a wavelength range.
func Window(center, vmin, vmax float64) [2]float64 {
	return doppler.Window(center, vmin, vmax)
}

// Line is a transition with its rest wavelength and integration range.
type Line struct {
	Species string
	Central float64
	// Range is the wavelength interval used for integration, in Å.
	Range [2]float64
}

// New returns the line of species at central with a ±vhalf km/s range.
func New(species string, central, vhalf float64) Line {
	return Line{Species: species, Central: central, Range: Window(central, -vhalf, vhalf)}
}

func (l Line) String() string {
	return fmt.Sprintf("%s %.3f", l.Species, l.Central)
}

// List groups lines by species.
type List map[string][]Line

// Add appends lines to the list.
func (l List) Add(lines ...Line) {
	for _, ln := range lines {
		l[ln.Species] = append(l[ln.Species], ln)
	}
}

// Species returns the species names in sorted order.
func (l List) Species() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lines returns every line, species sorted, in insertion order within a
// species.
func (l List) Lines() []Line {
	var out []Line
	for _, name := range l.Species() {
		out = append(out, l[name]...)
	}
	return out
}

// Len returns the number of lines.
func (l List) Len() int {
	n := 0
	for _, lines := range l {
		n += len(lines)
	}
	return n
}

// COSFUV returns strong far-ultraviolet transitions inside the COS G130M
// band, each with a ±vhalf km/s range.
func COSFUV(vhalf float64) List {
	list := List{}
	list.Add(
		New("C II", 1334.5323, vhalf),
		New("C II", 1335.7077, vhalf),
		New("C III", 1175.7110, vhalf),
		New("N V", 1238.8210, vhalf),
		New("N V", 1242.8040, vhalf),
		New("O I", 1302.1685, vhalf),
		New("O I", 1304.8576, vhalf),
		New("O I", 1306.0286, vhalf),
		New("Si II", 1260.4221, vhalf),
		New("Si II", 1265.0020, vhalf),
		New("Si III", 1206.4995, vhalf),
		New("Si IV", 1393.7550, vhalf),
		New("Si IV", 1402.7700, vhalf),
	)
	return list
}
