package nonparam

import (
	"math"
	"sort"
)

// Rank converts values to 1-based ranks, giving tied values the average of the
// ranks they span. It also returns the tie term Σ(t³−t) over every tie group,
// which the rank tests use to correct their variance.
func Rank(data []float64) ([]float64, float64) {
	n := len(data)
	ranks := make([]float64, n)
	if n == 0 {
		return ranks, 0
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return data[order[a]] < data[order[b]]
	})

	tieTerm := 0.0
	i := 0
	for i < n {
		j := i + 1
		for j < n && data[order[j]] == data[order[i]] {
			j++
		}

		size := j - i
		avgRank := float64(i+1) + float64(size-1)/2.0
		for k := i; k < j; k++ {
			ranks[order[k]] = avgRank
		}
		if size > 1 {
			t := float64(size)
			tieTerm += t*t*t - t
		}

		i = j
	}

	return ranks, tieTerm
}

// dropMissing returns the finite values of data
func dropMissing(data []float64) []float64 {
	out := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// completePairs keeps positions where both x and y are present
func completePairs(x, y []float64) ([]float64, []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) || math.IsInf(x[i], 0) || math.IsInf(y[i], 0) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

func isConstant(data []float64) bool {
	if len(data) == 0 {
		return true
	}
	for _, v := range data[1:] {
		if v != data[0] {
			return false
		}
	}
	return true
}
