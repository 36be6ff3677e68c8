package integrate_test

import (
	"fmt"

	"github.com/cwbudde/algo-uvspec/dsp/integrate"
)

func ExampleSimpson() {
	wl := []float64{1300, 1300.5, 1301, 1301.5, 1302}
	flux := []float64{1e-14, 1e-14, 1e-14, 1e-14, 1e-14}
	sigma := []float64{1e-15, 1e-15, 1e-15, 1e-15, 1e-15}

	total := integrate.Simpson(wl, flux)
	unc := integrate.QuadratureSum(integrate.Spacing(wl), sigma)
	fmt.Printf("%.2e ± %.2e\n", total, unc)

	// Output:
	// 2.00e-14 ± 1.00e-15
}
