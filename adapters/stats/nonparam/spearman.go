package nonparam

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"gonomo/domain/core"
)

// ExactSpearmanMaxN is the largest sample for which the exact permutation
// distribution of rho is used when there are no ties
const ExactSpearmanMaxN = 9

// Method labels for how a p-value was obtained
const (
	MethodExact      = "exact"
	MethodTDist      = "t-distribution"
	MethodChiSquared = "chi-squared"
	MethodNormal     = "normal"
)

// SpearmanResult is a rank correlation over the complete pairs of two columns.
// P is NaN when it is not defined for the sample (n = 2).
type SpearmanResult struct {
	Rho    float64
	P      float64
	N      int
	Method string
}

// Spearman computes Spearman's rank correlation between x and y using only the
// positions where both values are present. Ties receive averaged ranks.
// Fewer than two complete pairs or a constant column yields an insufficient
// data error.
func Spearman(x, y []float64) (SpearmanResult, error) {
	xs, ys := completePairs(x, y)
	n := len(xs)
	if n < 2 {
		return SpearmanResult{Rho: math.NaN(), P: math.NaN(), N: n}, core.NewInsufficientDataError("%d complete pairs, need at least 2", n)
	}
	if isConstant(xs) || isConstant(ys) {
		return SpearmanResult{Rho: math.NaN(), P: math.NaN(), N: n}, core.NewInsufficientDataError("constant input, rank correlation undefined")
	}

	xRanks, xTies := Rank(xs)
	yRanks, yTies := Rank(ys)

	rho := stat.Correlation(xRanks, yRanks, nil)
	// Clamp to [-1, 1] range (due to floating point precision)
	rho = math.Max(-1, math.Min(1, rho))

	res := SpearmanResult{Rho: rho, N: n}
	switch {
	case n == 2:
		res.P = math.NaN()
		res.Method = MethodTDist
	case n <= ExactSpearmanMaxN && xTies == 0 && yTies == 0:
		res.P = exactSpearmanP(n, rho)
		res.Method = MethodExact
	default:
		res.P = spearmanTDistP(n, rho)
		res.Method = MethodTDist
	}

	return res, nil
}

// spearmanTDistP is the two-sided p-value from t = rho*sqrt((n-2)/(1-rho²))
// with n-2 degrees of freedom
func spearmanTDistP(n int, rho float64) float64 {
	if math.Abs(rho) >= 1 {
		return 0
	}
	df := float64(n - 2)
	t := rho * math.Sqrt(df/(1-rho*rho))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	return math.Min(1, p)
}

// exactSpearmanP is the two-sided permutation p-value: the share of the n!
// rankings whose |rho| is at least the observed |rho|
func exactSpearmanP(n int, rho float64) float64 {
	dist := spearmanNullDistribution(n)

	denom := float64(n) * (float64(n*n) - 1)
	observed := math.Abs(rho)

	var hits, total float64
	for d2, count := range dist {
		r := 1 - 6*float64(d2)/denom
		total += count
		if math.Abs(r) >= observed-1e-12 {
			hits += count
		}
	}
	return hits / total
}

var (
	spearmanNullMu    sync.Mutex
	spearmanNullCache = map[int][]float64{}
)

// spearmanNullDistribution counts, for each value of Σd², how many of the n!
// permutations of 1..n produce it. Results are cached per n.
func spearmanNullDistribution(n int) []float64 {
	spearmanNullMu.Lock()
	defer spearmanNullMu.Unlock()

	if dist, ok := spearmanNullCache[n]; ok {
		return dist
	}

	maxD2 := n * (n*n - 1) / 3
	dist := make([]float64, maxD2+1)

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	sumSq := func() int {
		s := 0
		for i, p := range perm {
			d := i - p
			s += d * d
		}
		return s
	}

	// Heap's algorithm, iterative form
	c := make([]int, n)
	dist[sumSq()]++
	for i := 0; i < n; {
		if c[i] < i {
			if i%2 == 0 {
				perm[0], perm[i] = perm[i], perm[0]
			} else {
				perm[c[i]], perm[i] = perm[i], perm[c[i]]
			}
			dist[sumSq()]++
			c[i]++
			i = 0
			continue
		}
		c[i] = 0
		i++
	}

	spearmanNullCache[n] = dist
	return dist
}
