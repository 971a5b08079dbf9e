package nonparam

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonomo/domain/core"
	"gonomo/domain/stats"
)

func seq(from, to int) []float64 {
	out := make([]float64, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, float64(i))
	}
	return out
}

func TestRank_AveragesTies(t *testing.T) {
	ranks, tieTerm := Rank([]float64{3, 1, 4, 1, 5})
	assert.Equal(t, []float64{3, 1.5, 4, 1.5, 5}, ranks)
	assert.Equal(t, 6.0, tieTerm)

	ranks, tieTerm = Rank(nil)
	assert.Empty(t, ranks)
	assert.Zero(t, tieTerm)
}

func TestSpearman_PerfectRankCorrelation(t *testing.T) {
	x := seq(1, 100)
	res, err := Spearman(x, seq(1, 100))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, res.Rho, 1e-12)
	assert.Less(t, res.P, 0.0001)
	assert.Equal(t, 100, res.N)
	assert.Equal(t, MethodTDist, res.Method)
}

func TestSpearman_InvariantUnderMonotoneTransforms(t *testing.T) {
	x := []float64{2.1, 3.5, 1.2, 8.8, 4.4, 6.0, 5.5, 7.1, 0.3, 9.9, 2.8, 4.9}
	y := []float64{10, 14, 9, 30, 12, 22, 25, 21, 3, 28, 15, 11}

	base, err := Spearman(x, y)
	require.NoError(t, err)

	expX := make([]float64, len(x))
	cubeY := make([]float64, len(y))
	for i := range x {
		expX[i] = math.Exp(x[i])
		cubeY[i] = y[i]*y[i]*y[i] + 7
	}
	transformed, err := Spearman(expX, cubeY)
	require.NoError(t, err)

	assert.InDelta(t, base.Rho, transformed.Rho, 1e-12)
	assert.InDelta(t, base.P, transformed.P, 1e-12)
}

func TestSpearman_PairwiseMissing(t *testing.T) {
	nan := math.NaN()
	x := []float64{1, 2, nan, 4, 5, 6, 7, 8, 9, 10, 11}
	y := []float64{2, 4, 6, nan, 10, 12, 14, 16, 18, 20, 22}

	res, err := Spearman(x, y)
	require.NoError(t, err)
	assert.Equal(t, 9, res.N)
	assert.InDelta(t, 1.0, res.Rho, 1e-12)
}

func TestSpearman_ExactForSmallSamplesWithoutTies(t *testing.T) {
	res, err := Spearman(seq(1, 5), seq(1, 5))
	require.NoError(t, err)
	assert.Equal(t, MethodExact, res.Method)
	// only the identity and the reversal reach |rho| = 1
	assert.InDelta(t, 2.0/120.0, res.P, 1e-12)

	res, err = Spearman([]float64{1, 2, 3, 4}, []float64{4, 3, 2, 1})
	require.NoError(t, err)
	assert.InDelta(t, -1.0, res.Rho, 1e-12)
	assert.InDelta(t, 2.0/24.0, res.P, 1e-12)

	res, err = Spearman([]float64{1, 2, 2, 4}, []float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, MethodTDist, res.Method, "ties switch to the t approximation")
}

func TestSpearman_ExactDistributionIsComplete(t *testing.T) {
	dist := spearmanNullDistribution(6)
	total := 0.0
	for _, c := range dist {
		total += c
	}
	assert.Equal(t, 720.0, total)
	assert.Equal(t, 1.0, dist[0])
	assert.Equal(t, 1.0, dist[len(dist)-1])
}

func TestSpearman_Degenerate(t *testing.T) {
	res, err := Spearman([]float64{1}, []float64{2})
	assert.True(t, core.IsInsufficientDataError(err))
	assert.True(t, math.IsNaN(res.Rho))
	assert.True(t, math.IsNaN(res.P))

	_, err = Spearman([]float64{1, 2, 3, 4}, []float64{5, 5, 5, 5})
	assert.True(t, core.IsInsufficientDataError(err))

	res, err = Spearman([]float64{1, 2}, []float64{3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Rho, 1e-12)
	assert.True(t, math.IsNaN(res.P))
}

func TestMannWhitney_IdenticalSamplesNotSignificant(t *testing.T) {
	sample := []float64{2.5, 3.1, 4.0, 1.8, 5.2, 3.3, 2.9, 4.4, 3.8, 2.2}
	res, err := MannWhitney(sample, append([]float64(nil), sample...))
	require.NoError(t, err)
	assert.Greater(t, res.P, 0.05)
	assert.Equal(t, 10, res.N1)
	assert.Equal(t, 10, res.N2)
}

func TestMannWhitney_SeparatedSamples(t *testing.T) {
	res, err := MannWhitney(seq(1, 10), seq(11, 20))
	require.NoError(t, err)
	assert.Less(t, res.P, 0.001)
	assert.Zero(t, math.Min(res.U, float64(res.N1*res.N2)-res.U))
}

func TestMannWhitney_TiesUseCorrectedNormal(t *testing.T) {
	x := []float64{2, 3, 3, 4, 5, 5, 6, 7, 7, 8}
	y := []float64{4, 5, 6, 6, 7, 8, 8, 9, 9, 10}

	res, err := MannWhitney(x, y)
	require.NoError(t, err)
	assert.Equal(t, MethodNormal, res.Method)
	assert.InDelta(t, 21.5, math.Min(res.U, float64(res.N1*res.N2)-res.U), 1e-12)
	assert.InDelta(t, 0.033016419598701, res.P, 1e-9)
}

func TestMannWhitney_LargerUntiedSamplesUseNormal(t *testing.T) {
	x := []float64{1, 2, 4, 5, 7, 9, 11, 13, 15, 17, 20, 22}
	y := []float64{3, 6, 8, 10, 12, 14, 16, 18, 19, 21, 23, 24}

	res, err := MannWhitney(x, y)
	require.NoError(t, err)
	assert.Equal(t, MethodNormal, res.Method)
	assert.InDelta(t, 0.174853306893293, res.P, 1e-9)
}

func TestMannWhitney_SmallUntiedSamplesAreExact(t *testing.T) {
	res, err := MannWhitney(seq(1, 5), seq(6, 10))
	require.NoError(t, err)
	assert.Equal(t, MethodExact, res.Method)
	// only the two fully separated arrangements of C(10,5) reach U = 0 or 25
	assert.InDelta(t, 2.0/252.0, res.P, 1e-9)
}

func TestMannWhitney_Unavailable(t *testing.T) {
	_, err := MannWhitney([]float64{1, 2, 3}, nil)
	assert.True(t, core.IsInsufficientDataError(err))

	_, err = MannWhitney([]float64{math.NaN()}, []float64{1, 2})
	assert.True(t, core.IsInsufficientDataError(err))

	_, err = MannWhitney([]float64{4, 4, 4}, []float64{4, 4})
	assert.True(t, core.IsInsufficientDataError(err))
}

func TestKruskalWallis_SeparatedGroups(t *testing.T) {
	res, err := KruskalWallis([]Group{
		{Name: "1", Values: []float64{1, 2, 3}},
		{Name: "2", Values: []float64{4, 5, 6}},
		{Name: "3", Values: []float64{7, 8, 9}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 7.2, res.H, 1e-9)
	assert.InDelta(t, math.Exp(-3.6), res.P, 1e-8)
	assert.Equal(t, 2, res.DF)
	assert.Equal(t, []int{3, 3, 3}, res.Sizes)
}

func TestKruskalWallis_TieCorrection(t *testing.T) {
	res, err := KruskalWallis([]Group{
		{Name: "a", Values: []float64{1, 1, 2}},
		{Name: "b", Values: []float64{2, 3, 3}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 10.0/3.0, res.H, 1e-9)
	assert.InDelta(t, 0.0678891548618, res.P, 1e-7)
}

func TestKruskalWallis_OneGroupUnavailable(t *testing.T) {
	res, err := KruskalWallis([]Group{
		{Name: "3", Values: seq(1, 15)},
		{Name: "4", Values: []float64{math.NaN()}},
	})
	assert.True(t, core.IsInsufficientDataError(err))
	assert.True(t, math.IsNaN(res.H))
	assert.Equal(t, []string{"3"}, res.Groups)

	_, err = KruskalWallis([]Group{
		{Name: "a", Values: []float64{2, 2}},
		{Name: "b", Values: []float64{2}},
	})
	assert.True(t, core.IsInsufficientDataError(err))
}

func TestDunn_BonferroniAndSymmetry(t *testing.T) {
	groups := []Group{
		{Name: "1", Values: []float64{1, 2, 3}},
		{Name: "2", Values: []float64{4, 5, 6}},
		{Name: "3", Values: []float64{7, 8, 9}},
	}

	res, err := Dunn(groups, stats.CorrectionBonferroni)
	require.NoError(t, err)
	require.Len(t, res.Pairs, 3)
	assert.Equal(t, 3, res.Comparisons)

	byPair := map[[2]int]DunnPair{}
	for _, p := range res.Pairs {
		require.NoError(t, p.Err)
		byPair[[2]int{p.A, p.B}] = p
	}
	assert.InDelta(t, 1.3416407865, byPair[[2]int{0, 1}].Z, 1e-9)
	assert.InDelta(t, 0.1797124949, byPair[[2]int{0, 1}].P, 1e-9)
	assert.InDelta(t, 0.5391374846, byPair[[2]int{0, 1}].PAdjusted, 1e-9)
	assert.InDelta(t, 0.0218710743, byPair[[2]int{0, 2}].PAdjusted, 1e-9)
	assert.InDelta(t, byPair[[2]int{0, 1}].P, byPair[[2]int{1, 2}].P, 1e-12)

	raw, err := Dunn(groups, stats.CorrectionNone)
	require.NoError(t, err)
	for _, p := range raw.Pairs {
		assert.Equal(t, p.P, p.PAdjusted)
	}
}

func TestDunn_ExcludesDegenerateGroups(t *testing.T) {
	res, err := Dunn([]Group{
		{Name: "1", Values: []float64{1, 2, 3, 4}},
		{Name: "2", Values: []float64{5, 6, 7, 8}},
		{Name: "3", Values: []float64{9}},
		{Name: "4", Values: []float64{3, 3, 3}},
	}, stats.CorrectionBonferroni)
	require.NoError(t, err)
	require.Len(t, res.Pairs, 6)
	assert.Equal(t, 1, res.Comparisons)

	for _, p := range res.Pairs {
		if p.A == 0 && p.B == 1 {
			require.NoError(t, p.Err)
			assert.Equal(t, p.P, p.PAdjusted, "a single tested pair needs no correction")
			continue
		}
		assert.True(t, core.IsInsufficientDataError(p.Err))
		assert.True(t, math.IsNaN(p.PAdjusted))
	}
}
