package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Correlate computes the full cross-correlation of a and b.
// The result has length len(a) + len(b) - 1.
// Output index k corresponds to lag k - (len(b) - 1).
func Correlate(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) > DirectThreshold && len(a) > DirectThreshold {
		return CorrelateFFT(a, b)
	}
	return CorrelateDirect(a, b)
}

// CorrelateDirect computes cross-correlation as convolution with the
// reversed second signal.
func CorrelateDirect(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	bReversed := make([]float64, len(b))
	for i := range b {
		bReversed[i] = b[len(b)-1-i]
	}
	return Direct(a, bReversed)
}

// CorrelateMode computes cross-correlation with the specified output mode.
func CorrelateMode(a, b []float64, mode Mode) ([]float64, error) {
	full, err := Correlate(a, b)
	if err != nil {
		return nil, err
	}
	return trimToMode(full, len(a), len(b), mode), nil
}

// CorrelateFFT computes cross-correlation as IFFT(FFT(a)·conj(FFT(b))).
func CorrelateFFT(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyInput
	}

	n, m := len(a), len(b)
	fftSize := nextPowerOf2(n + m - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	aPadded := make([]complex128, fftSize)
	bPadded := make([]complex128, fftSize)
	for i, v := range a {
		aPadded[i] = complex(v, 0)
	}
	for i, v := range b {
		bPadded[i] = complex(v, 0)
	}

	aFreq := make([]complex128, fftSize)
	bFreq := make([]complex128, fftSize)
	if err := plan.Forward(aFreq, aPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	if err := plan.Forward(bFreq, bPadded); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	for i := range aFreq {
		aFreq[i] *= complex(real(bFreq[i]), -imag(bFreq[i]))
	}

	circular := make([]complex128, fftSize)
	if err := plan.Inverse(circular, aFreq); err != nil {
		return nil, fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	// Non-negative lags sit at the start of the circular result, negative
	// lags wrap around to the end.
	result := make([]float64, n+m-1)
	for i := 0; i < n; i++ {
		result[m-1+i] = real(circular[i])
	}
	for i := 0; i < m-1; i++ {
		result[i] = real(circular[fftSize-m+1+i])
	}
	return result, nil
}

// FindPeak returns the index and value of the maximum of corr, or -1 for an
// empty slice.
func FindPeak(corr []float64) (index int, value float64) {
	if len(corr) == 0 {
		return -1, 0
	}
	for i, v := range corr {
		if i == 0 || v > value {
			index, value = i, v
		}
	}
	return index, value
}
