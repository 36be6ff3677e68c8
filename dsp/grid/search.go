package grid

import "sort"

// NearestIndex returns the index of the element of a closest to v.
//
// a must be sorted ascending. The insertion point of v is clipped to
// [1, len(a)-1] and the left neighbour wins only when it is strictly closer,
// so ties resolve to the right element. Values outside the array map to the
// nearest end. NearestIndex returns -1 for an empty slice.
func NearestIndex(a []float64, v float64) int {
	switch len(a) {
	case 0:
		return -1
	case 1:
		return 0
	}

	i := sort.SearchFloat64s(a, v)
	if i < 1 {
		i = 1
	}
	if i > len(a)-1 {
		i = len(a) - 1
	}

	left, right := a[i-1], a[i]
	if v-left < right-v {
		i--
	}
	return i
}

// IndexRange resolves the index pair [lo, hi] of the samples nearest to the
// bounds of r. The pair is ordered even if r is not.
func IndexRange(a []float64, r [2]float64) (lo, hi int) {
	lo = NearestIndex(a, r[0])
	hi = NearestIndex(a, r[1])
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// MakeBins converts sample centres into bar-plot bin edges.
//
// The result has len(centers)+1 elements, with the spacing of the first two
// midpoints carried to both ends. Fewer than three centres return nil.
func MakeBins(centers []float64) []float64 {
	if len(centers) < 3 {
		return nil
	}

	mid := make([]float64, len(centers)-1)
	for i := range mid {
		mid[i] = (centers[i] + centers[i+1]) / 2
	}
	spacing := mid[1] - mid[0]

	edges := make([]float64, 0, len(centers)+1)
	for _, m := range mid {
		edges = append(edges, m-spacing)
	}
	last := edges[len(edges)-1]
	edges = append(edges, last+spacing, last+2*spacing)
	return edges
}
