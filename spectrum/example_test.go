package spectrum_test

import (
	"fmt"

	"github.com/cwbudde/algo-uvspec/spectrum"
	"github.com/cwbudde/algo-uvspec/spectrum/spectrumtest"
)

func ExampleSpectrum_IntegratedFlux() {
	src := spectrumtest.Source(spectrumtest.Exposure{
		Dataset:   "ld9m10ujq",
		Continuum: 1e-14,
		ExpTime:   1000,
	})

	s, err := spectrum.Load("ld9m10ujq",
		spectrum.WithSource(src),
		spectrum.WithPixelLimits(spectrum.AllPixels()),
	)
	if err != nil {
		fmt.Println(err)
		return
	}
	s, err = s.ProperError(spectrum.DefaultShiftNet)
	if err != nil {
		fmt.Println(err)
		return
	}

	flux, unc, err := s.IntegratedFlux(spectrum.WavelengthRange(1334, 1336))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("v%d %.2e ± %.1e\n", s.Version, flux, unc)
	// Output:
	// v1 1.99e-14 ± 1.4e-17
}
