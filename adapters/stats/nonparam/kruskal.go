package nonparam

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gonomo/domain/core"
)

// Group is one labelled sample
type Group struct {
	Name   string
	Values []float64
}

// KruskalResult is a tie-corrected Kruskal–Wallis H test
type KruskalResult struct {
	H      float64
	P      float64
	DF     int
	Sizes  []int // non-missing observations per retained group
	Groups []string
}

// KruskalWallis tests whether the groups share a location. Missing values are
// dropped and groups left empty are not counted. At least two non-empty groups
// are required; H follows a chi-squared distribution with k-1 degrees of freedom.
func KruskalWallis(groups []Group) (KruskalResult, error) {
	res := KruskalResult{H: math.NaN(), P: math.NaN()}

	var (
		pooled []float64
		bounds []int
	)
	for _, g := range groups {
		values := dropMissing(g.Values)
		if len(values) == 0 {
			continue
		}
		res.Groups = append(res.Groups, g.Name)
		res.Sizes = append(res.Sizes, len(values))
		pooled = append(pooled, values...)
		bounds = append(bounds, len(pooled))
	}

	k := len(res.Groups)
	res.DF = k - 1
	if k < 2 {
		return res, core.NewInsufficientDataError("%d non-empty groups, need at least 2", k)
	}

	N := float64(len(pooled))
	ranks, tieTerm := Rank(pooled)

	correction := 1 - tieTerm/(N*N*N-N)
	if correction <= 0 {
		return res, core.NewInsufficientDataError("all observations are equal")
	}

	sum := 0.0
	start := 0
	for i, end := range bounds {
		rankSum := 0.0
		for _, r := range ranks[start:end] {
			rankSum += r
		}
		sum += rankSum * rankSum / float64(res.Sizes[i])
		start = end
	}

	h := 12/(N*(N+1))*sum - 3*(N+1)
	h /= correction

	res.H = h
	res.P = distuv.ChiSquared{K: float64(k - 1)}.Survival(h)
	return res, nil
}
