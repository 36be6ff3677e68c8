// Package variability summarizes light curves: integrated line fluxes with
// uncertainties measured over time.
//
// [Calculate] works on a complete series; [Accumulator] consumes blocks of
// measurements and yields bit-identical results. Moments use Welford's
// online update, the weighted mean and χ² use West's weighted variant, so
// fluxes around 1e-14 do not lose precision to cancellation.
package variability
