package nonparam

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"gonomo/domain/core"
	"gonomo/domain/stats"
)

// DunnPair is one pairwise comparison from Dunn's test. Err is set when the
// pair was excluded, and then the numeric fields are NaN.
type DunnPair struct {
	A, B      int // indices into DunnResult.Groups
	Z         float64
	P         float64
	PAdjusted float64
	Err       error
}

// DunnResult holds every unordered pair of the retained groups
type DunnResult struct {
	Groups      []string
	Sizes       []int
	Correction  stats.Correction
	Comparisons int // pairs actually tested
	Pairs       []DunnPair
}

// Dunn runs Dunn's pairwise rank test over groups, ranking the pooled sample
// once and correcting the rank variance for ties. A group with fewer than two
// observations or no variance is excluded from every pair involving it and the
// pair carries the reason. Bonferroni multiplies each raw p-value by the number
// of tested pairs, capped at 1.
func Dunn(groups []Group, correction stats.Correction) (DunnResult, error) {
	res := DunnResult{Correction: correction}

	var (
		samples [][]float64
		pooled  []float64
	)
	for _, g := range groups {
		values := dropMissing(g.Values)
		if len(values) == 0 {
			continue
		}
		res.Groups = append(res.Groups, g.Name)
		res.Sizes = append(res.Sizes, len(values))
		samples = append(samples, values)
		pooled = append(pooled, values...)
	}

	k := len(res.Groups)
	if k < 2 {
		return res, core.NewInsufficientDataError("%d non-empty groups, need at least 2", k)
	}

	N := float64(len(pooled))
	ranks, tieTerm := Rank(pooled)

	meanRanks := make([]float64, k)
	offset := 0
	for i, s := range samples {
		sum := 0.0
		for _, r := range ranks[offset : offset+len(s)] {
			sum += r
		}
		meanRanks[i] = sum / float64(len(s))
		offset += len(s)
	}

	variance := N*(N+1)/12 - tieTerm/(12*(N-1))
	norm := distuv.UnitNormal

	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			pair := DunnPair{A: i, B: j, Z: math.NaN(), P: math.NaN(), PAdjusted: math.NaN()}
			if err := pairEligible(res.Groups[i], samples[i]); err != nil {
				pair.Err = err
			} else if err := pairEligible(res.Groups[j], samples[j]); err != nil {
				pair.Err = err
			} else if variance <= 0 {
				pair.Err = core.NewInsufficientDataError("all observations are equal")
			} else {
				se := math.Sqrt(variance * (1/float64(res.Sizes[i]) + 1/float64(res.Sizes[j])))
				pair.Z = math.Abs(meanRanks[i]-meanRanks[j]) / se
				pair.P = math.Min(1, 2*norm.Survival(pair.Z))
				res.Comparisons++
			}
			res.Pairs = append(res.Pairs, pair)
		}
	}

	for idx := range res.Pairs {
		p := &res.Pairs[idx]
		if p.Err != nil {
			continue
		}
		switch correction {
		case stats.CorrectionNone:
			p.PAdjusted = p.P
		default:
			p.PAdjusted = math.Min(1, p.P*float64(res.Comparisons))
		}
	}

	return res, nil
}

func pairEligible(name string, values []float64) error {
	if len(values) < 2 {
		return core.NewInsufficientDataError("group %s has %d observation(s)", name, len(values))
	}
	if isConstant(values) {
		return core.NewInsufficientDataError("group %s has zero variance", name)
	}
	return nil
}
