package features

import (
	"math"
	"sort"
)

// LogSales returns log(1 + sales). Sales of -1 or below have no real
// logarithm and map to 0.
func LogSales(sales float64) float64 {
	v := math.Log1p(sales)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// QuantileEdges returns the bins+1 equal-frequency boundaries of values,
// from the minimum to the maximum, using linear interpolation between
// order statistics. values is not modified.
func QuantileEdges(values []float64, bins int) []float64 {
	if len(values) == 0 || bins < 1 {
		return nil
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	edges := make([]float64, bins+1)
	for k := 0; k <= bins; k++ {
		edges[k] = percentileValue(sorted, float64(k)/float64(bins))
	}
	return edges
}

func percentileValue(sorted []float64, q float64) float64 {
	n := len(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	index := q * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))
	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// BinIndex returns the bucket of v for the given edges. Buckets are
// right-closed and the first one also includes the lowest edge, so a value
// equal to a shared boundary lands in the lower bucket. Values outside the
// edges are clamped to the first or last bucket.
func BinIndex(v float64, edges []float64) int {
	last := len(edges) - 2
	if last < 0 {
		return -1
	}
	// first k with v <= edges[k+1]
	k := sort.Search(last+1, func(k int) bool { return v <= edges[k+1] })
	if k > last {
		return last
	}
	return k
}

// BinLabel maps v to its bucket label, or "" when there are no edges
func BinLabel(v float64, edges []float64, labels []string) string {
	k := BinIndex(v, edges)
	if k < 0 || k >= len(labels) {
		return ""
	}
	return labels[k]
}
