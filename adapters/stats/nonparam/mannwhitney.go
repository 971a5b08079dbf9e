package nonparam

import (
	"errors"
	"math"

	moremath "github.com/aclements/go-moremath/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"gonomo/domain/core"
)

// ExactMannWhitneyMaxN is the largest sample size for which the exact U
// distribution is used, and only when the pooled sample has no ties
const ExactMannWhitneyMaxN = 8

func init() {
	// moremath decides exact vs normal from these; ties never go exact
	moremath.MannWhitneyExactLimit = ExactMannWhitneyMaxN
	moremath.MannWhitneyTiesExactLimit = 0
}

// MannWhitneyResult is a two-sided Mann–Whitney U test of a against b.
// U is the statistic of the first sample.
type MannWhitneyResult struct {
	U      float64
	P      float64
	N1     int
	N2     int
	Method string
}

// MannWhitney runs a two-sided Mann–Whitney U test on the non-missing values
// of a and b. Each sample needs at least one observation. When every value in
// both samples is identical the test cannot discriminate and an insufficient
// data error is returned instead of a statistic.
//
// Small untied samples use the exact distribution of U. Everything else uses
// the normal approximation with tie-corrected variance and a 0.5 continuity
// correction.
func MannWhitney(a, b []float64) (MannWhitneyResult, error) {
	xs, ys := dropMissing(a), dropMissing(b)
	res := MannWhitneyResult{U: math.NaN(), P: math.NaN(), N1: len(xs), N2: len(ys)}

	if len(xs) == 0 || len(ys) == 0 {
		return res, core.NewInsufficientDataError("two groups with at least one observation required (got %d and %d)", len(xs), len(ys))
	}

	out, err := moremath.MannWhitneyUTest(xs, ys, moremath.LocationDiffers)
	if err != nil {
		if errors.Is(err, moremath.ErrSamplesEqual) {
			return res, core.NewInsufficientDataError("all observations are equal")
		}
		if errors.Is(err, moremath.ErrSampleSize) {
			return res, core.NewInsufficientDataError("sample too small: %v", err)
		}
		return res, err
	}
	res.U = out.U

	_, tieTerm := Rank(append(append([]float64(nil), xs...), ys...))
	if tieTerm == 0 && len(xs) <= ExactMannWhitneyMaxN && len(ys) <= ExactMannWhitneyMaxN {
		res.P = math.Min(1, out.P)
		res.Method = MethodExact
		return res, nil
	}

	res.P = mannWhitneyNormalP(res.U, len(xs), len(ys), tieTerm)
	res.Method = MethodNormal
	return res, nil
}

// mannWhitneyNormalP is the two-sided p-value of U under the normal
// approximation: mean n1·n2/2, variance n1·n2/12·((N+1) − Σ(t³−t)/(N(N−1)))
func mannWhitneyNormalP(u float64, n1, n2 int, tieTerm float64) float64 {
	f1, f2 := float64(n1), float64(n2)
	n := f1 + f2
	mean := f1 * f2 / 2
	variance := f1 * f2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if variance <= 0 {
		return math.NaN()
	}

	z := (math.Abs(u-mean) - 0.5) / math.Sqrt(variance)
	return math.Min(1, 2*distuv.UnitNormal.Survival(z))
}
