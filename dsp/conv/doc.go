// Package conv provides the linear convolution and cross-correlation used to
// locate spectral features.
//
// Cross-correlating a flux window against a top-hat mask gives a
// cross-correlation function (CCF) whose peak marks the line centroid:
//
//	ccf, err := conv.CorrelateMode(flux, mask, conv.ModeSame)
//	peak, _ := conv.FindPeak(ccf)
//
// Short kernels are correlated directly in O(N·M). Kernels longer than
// [DirectThreshold] samples go through an FFT (algo-fft), which is the
// common case for CCF masks spanning a full line window.
package conv
