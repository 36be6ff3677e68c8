package visit

// SecondsPerDay converts exposure seconds to Julian Date offsets.
const SecondsPerDay = 86400.0

// Window is a time interval in Julian Date.
type Window struct {
	StartJD float64
	EndJD   float64
}

// SplitWindows divides the exposure [startJD, endJD] of length exposure
// seconds into n windows. With Δ = exposure/n in days, window i spans
// [startJD + i·Δ, endJD − (n−i−1)·Δ].
func SplitWindows(startJD, endJD, exposure float64, n int) []Window {
	if n <= 0 {
		return nil
	}
	step := exposure / float64(n) / SecondsPerDay
	out := make([]Window, n)
	for i := range out {
		out[i] = Window{
			StartJD: startJD + float64(i)*step,
			EndJD:   endJD - float64(n-i-1)*step,
		}
	}
	return out
}

// BinWindows converts bin edges in seconds from startJD into windows.
func BinWindows(startJD float64, edges []float64) []Window {
	if len(edges) < 2 {
		return nil
	}
	out := make([]Window, len(edges)-1)
	for i := range out {
		out[i] = Window{
			StartJD: startJD + edges[i]/SecondsPerDay,
			EndJD:   startJD + edges[i+1]/SecondsPerDay,
		}
	}
	return out
}

// EvenBins returns n+1 evenly spaced edges over [0, exposure].
func EvenBins(exposure float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = exposure * float64(i) / float64(n)
	}
	return edges
}
