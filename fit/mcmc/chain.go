package mcmc

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/stat"
)

// Chain holds the positions visited by every walker.
//
// Samples is laid out step-major: the position of walker k at step s starts
// at (s·Walkers + k)·Dim.
type Chain struct {
	Walkers  int       `msgpack:"walkers"`
	Dim      int       `msgpack:"dim"`
	Steps    int       `msgpack:"steps"`
	Samples  []float64 `msgpack:"samples"`
	LogProb  []float64 `msgpack:"log_prob"`
	Accepted []int     `msgpack:"accepted"`
}

func newChain(walkers, dim, capacity int) *Chain {
	return &Chain{
		Walkers:  walkers,
		Dim:      dim,
		Samples:  make([]float64, 0, capacity*walkers*dim),
		LogProb:  make([]float64, 0, capacity*walkers),
		Accepted: make([]int, walkers),
	}
}

func (c *Chain) record(pos [][]float64, lp []float64) {
	for k := range pos {
		c.Samples = append(c.Samples, pos[k]...)
	}
	c.LogProb = append(c.LogProb, lp...)
	c.Steps++
}

// At returns the position of walker k at step s.
func (c *Chain) At(s, k int) []float64 {
	off := (s*c.Walkers + k) * c.Dim
	return c.Samples[off : off+c.Dim]
}

// Flat returns every position after discarding the first burn steps.
func (c *Chain) Flat(burn int) [][]float64 {
	if burn < 0 {
		burn = 0
	}
	if burn >= c.Steps {
		return nil
	}
	out := make([][]float64, 0, (c.Steps-burn)*c.Walkers)
	for s := burn; s < c.Steps; s++ {
		for k := 0; k < c.Walkers; k++ {
			out = append(out, c.At(s, k))
		}
	}
	return out
}

// Param returns all post-burn values of parameter i.
func (c *Chain) Param(i, burn int) []float64 {
	flat := c.Flat(burn)
	out := make([]float64, len(flat))
	for n, p := range flat {
		out[n] = p[i]
	}
	return out
}

// Mean returns the posterior mean of every parameter after burn steps.
func (c *Chain) Mean(burn int) []float64 {
	out := make([]float64, c.Dim)
	for i := range out {
		out[i] = stat.Mean(c.Param(i, burn), nil)
	}
	return out
}

// StdDev returns the posterior standard deviation of every parameter.
func (c *Chain) StdDev(burn int) []float64 {
	out := make([]float64, c.Dim)
	for i := range out {
		out[i] = stat.StdDev(c.Param(i, burn), nil)
	}
	return out
}

// AcceptanceFraction returns the mean fraction of accepted proposals.
func (c *Chain) AcceptanceFraction() float64 {
	if c.Steps == 0 || c.Walkers == 0 {
		return 0
	}
	total := 0
	for _, a := range c.Accepted {
		total += a
	}
	return float64(total) / float64(c.Steps*c.Walkers)
}

// Save writes the chain as msgpack.
func (c *Chain) Save(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("mcmc: encode chain: %w", err)
	}
	return nil
}

// Load reads a chain written by Save.
func Load(r io.Reader) (*Chain, error) {
	var c Chain
	if err := msgpack.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("mcmc: decode chain: %w", err)
	}
	if len(c.Samples) != c.Steps*c.Walkers*c.Dim {
		return nil, fmt.Errorf("mcmc: decode chain: %d samples for %d steps", len(c.Samples), c.Steps)
	}
	return &c, nil
}

// SaveFile writes the chain to path.
func (c *Chain) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mcmc: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := c.Save(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("mcmc: %w", err)
	}
	return f.Close()
}

// LoadFile reads a chain from path.
func LoadFile(path string) (*Chain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mcmc: %w", err)
	}
	defer f.Close()
	return Load(bufio.NewReader(f))
}
