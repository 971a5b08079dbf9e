package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonomo/domain/core"
	"gonomo/domain/dataset"
	"gonomo/domain/stats"
)

func correlation(variable string, rho, p float64) stats.Correlation {
	return stats.Correlation{
		Primary:      dataset.ColHorasUso,
		Variable:     variable,
		Rho:          stats.Number(rho),
		PValue:       stats.Number(p),
		N:            40,
		Alpha:        stats.DefaultAlpha,
		Significant:  p < stats.DefaultAlpha,
		Availability: stats.Ok(),
	}
}

func test(kind stats.TestKind, metric, groupBy string, stat, p float64) stats.TestResult {
	r := stats.TestResult{
		Test:         kind,
		Metric:       metric,
		GroupBy:      groupBy,
		Statistic:    stats.Number(stat),
		PValue:       stats.Number(p),
		Alpha:        stats.DefaultAlpha,
		Availability: stats.Ok(),
	}
	r.Decide()
	return r
}

func TestForCorrelation_DecisionTable(t *testing.T) {
	tests := []struct {
		name string
		rho  float64
		p    float64
		want stats.Category
	}{
		{"strong positive", 0.72, 0.001, stats.CategoryStrongPositive},
		{"exactly 0.5 is weak", 0.5, 0.01, stats.CategoryWeakPositive},
		{"weak positive", 0.21, 0.03, stats.CategoryWeakPositive},
		{"negative", -0.4, 0.002, stats.CategoryNegative},
		{"strong but not significant", 0.9, 0.2, stats.CategoryNoRelation},
		{"p exactly alpha", 0.3, 0.05, stats.CategoryNoRelation},
		{"negative not significant", -0.6, 0.5, stats.CategoryNoRelation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ForCorrelation(correlation(dataset.ColNomofobia, tt.rho, tt.p))
			assert.Equal(t, tt.want, f.Category)
			assert.Equal(t, stats.TestSpearman, f.Source)
			assert.Equal(t, dataset.ColNomofobia, f.Subject)
			assert.Contains(t, f.Sentence, string(tt.want))
		})
	}
}

func TestForCorrelation_UndefinedIsInsufficientData(t *testing.T) {
	c := stats.Correlation{
		Primary:      dataset.ColHorasUso,
		Variable:     dataset.ColAutoestima,
		Rho:          stats.Undefined(),
		PValue:       stats.Undefined(),
		Alpha:        stats.DefaultAlpha,
		Availability: stats.Unavailable(core.NewMissingColumnError(dataset.ColAutoestima)),
	}
	f := ForCorrelation(c)
	assert.Equal(t, stats.CategoryInsufficient, f.Category)
	assert.Contains(t, f.Sentence, "missing column")
}

func TestForKruskalWallis(t *testing.T) {
	f := ForKruskalWallis(test(stats.TestKruskalWallis, dataset.ColNomofobia, dataset.ColEstrato, 9.1, 0.01))
	assert.Equal(t, stats.CategoryStrataDiffer, f.Category)
	assert.Equal(t, "Nomophobia score across socio-economic stratum groups: stratum-level differences present (H = 9.100, p = 0.0100).", f.Sentence)

	f = ForKruskalWallis(test(stats.TestKruskalWallis, dataset.ColNomofobia, dataset.ColEstrato, 1.2, 0.55))
	assert.Equal(t, stats.CategoryStrataSimilar, f.Category)

	f = ForKruskalWallis(stats.TestResult{
		Metric:       dataset.ColNomofobia,
		GroupBy:      dataset.ColEstrato,
		Statistic:    stats.Undefined(),
		PValue:       stats.Undefined(),
		Availability: stats.Unavailable(core.NewInsufficientDataError("1 non-empty groups, need at least 2")),
	})
	assert.Equal(t, stats.CategoryInsufficient, f.Category)
}

func TestForMannWhitney(t *testing.T) {
	f := ForMannWhitney(test(stats.TestMannWhitney, dataset.ColHorasUso, dataset.ColNomofobiaFlag, 120, 0.004))
	assert.Equal(t, stats.CategoryGroupsDiffer, f.Category)

	f = ForMannWhitney(test(stats.TestMannWhitney, dataset.ColHorasUso, dataset.ColNomofobiaFlag, 480, 0.3))
	assert.Equal(t, stats.CategoryGroupsSimilar, f.Category)
	assert.Contains(t, f.Sentence, "Daily usage hours by nomophobia (yes/no)")
}

func TestSynthesize_IsTotal(t *testing.T) {
	correlations := []stats.Correlation{
		correlation(dataset.ColNomofobia, 0.8, 0.0001),
		correlation(dataset.ColAnsiedadSocial, 0.3, 0.02),
		correlation(dataset.ColAutoestima, -0.35, 0.01),
		{
			Primary: dataset.ColHorasUso, Variable: dataset.ColMalUso,
			Rho: stats.Undefined(), PValue: stats.Undefined(),
			Availability: stats.Unavailable(core.NewInsufficientDataError("constant input")),
		},
	}
	groups := stats.GroupComparison{
		MannWhitney:   test(stats.TestMannWhitney, dataset.ColHorasUso, dataset.ColNomofobiaFlag, 100, 0.2),
		KruskalWallis: test(stats.TestKruskalWallis, dataset.ColNomofobia, dataset.ColEstrato, 14, 0.003),
		Posthoc: stats.PosthocResult{
			Metric:     dataset.ColNomofobia,
			GroupBy:    dataset.ColEstrato,
			Correction: stats.CorrectionBonferroni,
			Pairs: []stats.PairComparison{
				{GroupA: "1", GroupB: "2", PAdjusted: 0.4, Availability: stats.Ok()},
				{GroupA: "1", GroupB: "3", PAdjusted: 0.01, Significant: true, Availability: stats.Ok()},
				{GroupA: "2", GroupB: "4", PAdjusted: stats.Undefined(), Availability: stats.Unavailable(core.NewInsufficientDataError("group 4 has 1 observation(s)"))},
			},
			Availability: stats.Ok(),
		},
	}

	findings := Synthesize(correlations, groups)
	require.Len(t, findings, 7)

	want := []stats.Category{
		stats.CategoryStrongPositive,
		stats.CategoryWeakPositive,
		stats.CategoryNegative,
		stats.CategoryInsufficient,
		stats.CategoryStrataDiffer,
		stats.CategoryGroupsSimilar,
		stats.CategoryPairDiffers,
	}
	for i, f := range findings {
		assert.Equal(t, want[i], f.Category, "finding %d", i)
		assert.NotEmpty(t, f.Sentence)
	}
	assert.Equal(t, "Estrato 1 vs 3", findings[6].Subject)
}

func TestSynthesize_SkippedPosthocAddsNothing(t *testing.T) {
	groups := stats.GroupComparison{
		MannWhitney:   test(stats.TestMannWhitney, dataset.ColHorasUso, dataset.ColNomofobiaFlag, 100, 0.01),
		KruskalWallis: test(stats.TestKruskalWallis, dataset.ColNomofobia, dataset.ColEstrato, 1, 0.6),
		Posthoc:       stats.PosthocResult{Availability: stats.Unavailable(nil)},
	}
	findings := Synthesize(nil, groups)
	require.Len(t, findings, 2)
	assert.Equal(t, stats.TestKruskalWallis, findings[0].Source)
	assert.Equal(t, stats.TestMannWhitney, findings[1].Source)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "self-esteem", Label(dataset.ColAutoestima))
	assert.Equal(t, "Unnamed: 4", Label("Unnamed: 4"))
}
