// Package recommend turns correlation and group-comparison results into short
// categorical findings using a fixed decision table.
package recommend

import (
	"fmt"

	"gonomo/domain/stats"
)

// StrongRho is the coefficient above which a significant positive correlation
// is considered strong
const StrongRho = 0.5

// Synthesize emits one finding per correlation, one for Kruskal–Wallis, one for
// Mann–Whitney and one per significant post-hoc pair, in that order. Every
// input yields a finding; unavailable inputs are reported as insufficient data.
func Synthesize(correlations []stats.Correlation, groups stats.GroupComparison) []stats.Finding {
	out := make([]stats.Finding, 0, len(correlations)+2)
	for _, c := range correlations {
		out = append(out, ForCorrelation(c))
	}
	out = append(out, ForKruskalWallis(groups.KruskalWallis))
	out = append(out, ForMannWhitney(groups.MannWhitney))
	out = append(out, ForPosthoc(groups.Posthoc)...)
	return out
}

// ForCorrelation classifies one Spearman result
func ForCorrelation(c stats.Correlation) stats.Finding {
	f := stats.Finding{Source: stats.TestSpearman, Subject: c.Variable}
	pair := fmt.Sprintf("%s and %s", Label(c.Primary), Label(c.Variable))

	if !c.Available || !c.Rho.Defined() || !c.PValue.Defined() {
		f.Category = stats.CategoryInsufficient
		f.Sentence = fmt.Sprintf("Not enough data to relate %s (%s).", pair, reasonOr(c.Reason))
		return f
	}

	rho := c.Rho.Float()
	switch {
	case c.PValue.Float() >= c.Alpha || rho == 0:
		f.Category = stats.CategoryNoRelation
	case rho > StrongRho:
		f.Category = stats.CategoryStrongPositive
	case rho > 0:
		f.Category = stats.CategoryWeakPositive
	default:
		f.Category = stats.CategoryNegative
	}
	f.Sentence = fmt.Sprintf("%s: %s (rho = %s, p = %s, n = %d).",
		capitalize(pair), f.Category, c.Rho.Format(3), c.PValue.Format(4), c.N)
	return f
}

// ForKruskalWallis classifies the stratum comparison
func ForKruskalWallis(r stats.TestResult) stats.Finding {
	f := stats.Finding{Source: stats.TestKruskalWallis, Subject: r.Metric}
	if !testDecidable(r) {
		f.Category = stats.CategoryInsufficient
		f.Sentence = fmt.Sprintf("Not enough data to compare %s across %s (%s).", Label(r.Metric), pluralGroup(r.GroupBy), reasonOr(r.Reason))
		return f
	}

	if r.PValue.Float() < r.Alpha {
		f.Category = stats.CategoryStrataDiffer
	} else {
		f.Category = stats.CategoryStrataSimilar
	}
	f.Sentence = fmt.Sprintf("%s across %s: %s (H = %s, p = %s).",
		capitalize(Label(r.Metric)), pluralGroup(r.GroupBy), f.Category, r.Statistic.Format(3), r.PValue.Format(4))
	return f
}

// ForMannWhitney classifies the two-group comparison
func ForMannWhitney(r stats.TestResult) stats.Finding {
	f := stats.Finding{Source: stats.TestMannWhitney, Subject: r.Metric}
	if !testDecidable(r) {
		f.Category = stats.CategoryInsufficient
		f.Sentence = fmt.Sprintf("Not enough data to compare %s between groups (%s).", Label(r.Metric), reasonOr(r.Reason))
		return f
	}

	if r.PValue.Float() < r.Alpha {
		f.Category = stats.CategoryGroupsDiffer
	} else {
		f.Category = stats.CategoryGroupsSimilar
	}
	f.Sentence = fmt.Sprintf("%s by %s: %s (U = %s, p = %s).",
		capitalize(Label(r.Metric)), Label(r.GroupBy), f.Category, r.Statistic.Format(3), r.PValue.Format(4))
	return f
}

// ForPosthoc emits one finding per pair whose adjusted p-value is significant.
// A post-hoc test that did not run emits nothing; its omnibus finding already
// covers the variable.
func ForPosthoc(p stats.PosthocResult) []stats.Finding {
	if !p.Available {
		return nil
	}
	var out []stats.Finding
	for _, pair := range p.Pairs {
		if !pair.Available || !pair.Significant {
			continue
		}
		out = append(out, stats.Finding{
			Source:   stats.TestDunn,
			Subject:  fmt.Sprintf("%s %s vs %s", p.GroupBy, pair.GroupA, pair.GroupB),
			Category: stats.CategoryPairDiffers,
			Sentence: fmt.Sprintf("%s differs between %s %s and %s (adjusted p = %s, %s).",
				capitalize(Label(p.Metric)), p.GroupBy, pair.GroupA, pair.GroupB, pair.PAdjusted.Format(4), p.Correction),
		})
	}
	return out
}

func testDecidable(r stats.TestResult) bool {
	return r.Available && r.PValue.Defined()
}

func reasonOr(reason string) string {
	if reason == "" {
		return "unavailable"
	}
	return reason
}

func pluralGroup(column string) string {
	return Label(column) + " groups"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
