package integrate

import (
	"fmt"
	"testing"
)

func makeBenchGrid(n int) (x, y, sigma []float64) {
	x = make([]float64, n)
	y = make([]float64, n)
	sigma = make([]float64, n)
	for i := range x {
		x[i] = 1300 + 0.01*float64(i)
		y[i] = 1e-14
		sigma[i] = 1e-15
	}
	return x, y, sigma
}

func BenchmarkQuadratureSum(b *testing.B) {
	for _, n := range []int{64, 256, 1024, 16384} {
		x, _, sigma := makeBenchGrid(n + 1)
		dx := Spacing(x)
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(n * 8))
			for range b.N {
				QuadratureSum(dx, sigma[:n])
			}
		})
	}
}

func BenchmarkBootstrap(b *testing.B) {
	x, y, sigma := makeBenchGrid(64)
	cfg := BootstrapConfig{Samples: 1000, Seed: DefaultSeed}
	b.ReportAllocs()
	for range b.N {
		Bootstrap(x, y, sigma, cfg)
	}
}
