package export

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"gonomo/domain/dataset"
	"gonomo/domain/stats"
)

// MarkdownReport renders the results as a Markdown document: filters, KPIs,
// descriptive statistics, correlations, group tests, post-hoc comparisons and
// findings. Unavailable computations are listed with their reason.
func MarkdownReport(r stats.Results) string {
	var b strings.Builder

	b.WriteString("# Nomophobia survey report\n\n")
	fmt.Fprintf(&b, "Source: `%s`. Significance level: %.2f.\n\n", r.Source, r.Alpha)
	b.WriteString("Filters: " + describeFilter(r.Filter) + "\n\n")

	if len(r.Diagnostics) > 0 {
		b.WriteString("## Diagnostics\n\n")
		for _, d := range r.Diagnostics {
			b.WriteString("- " + d + "\n")
		}
		b.WriteString("\n")
	}

	k := r.Descriptive.KPIs
	b.WriteString("## Key indicators\n\n")
	kpis := table.NewWriter()
	kpis.AppendHeader(table.Row{"Participants", "Mean usage hours", "Mean nomophobia", "Nomophobia (Sí)"})
	kpis.AppendRow(table.Row{k.Participants, k.MeanHorasUso.Format(2), k.MeanNomofobia.Format(2), fmt.Sprintf("%.1f%%", k.PercentYes)})
	b.WriteString(kpis.RenderMarkdown() + "\n\n")

	b.WriteString("## Descriptive statistics\n\n")
	desc := table.NewWriter()
	desc.AppendHeader(table.Row{"Column", "Count", "Mean", "Std", "Min", "Q1", "Median", "Q3", "Max"})
	for _, s := range r.Descriptive.Columns {
		if !s.Available {
			desc.AppendRow(table.Row{s.Column, s.Count, "unavailable: " + s.Reason})
			continue
		}
		desc.AppendRow(table.Row{s.Column, s.Count, s.Mean.Format(2), s.Std.Format(2), s.Min.Format(2),
			s.Q1.Format(2), s.Median.Format(2), s.Q3.Format(2), s.Max.Format(2)})
	}
	b.WriteString(desc.RenderMarkdown() + "\n\n")

	b.WriteString("## Spearman correlations\n\n")
	corr := table.NewWriter()
	corr.AppendHeader(table.Row{"Variable", "rho", "p-value", "n", "Interpretation"})
	for _, c := range r.Correlations {
		interp := c.Interpretation()
		if !c.Available {
			interp += ": " + c.Reason
		}
		corr.AppendRow(table.Row{c.Variable, c.Rho.Format(3), c.PValue.Format(4), c.N, interp})
	}
	b.WriteString(corr.RenderMarkdown() + "\n\n")

	b.WriteString("## Group comparisons\n\n")
	tests := table.NewWriter()
	tests.AppendHeader(table.Row{"Test", "Metric", "Groups", "Statistic", "p-value", "Decision"})
	for _, t := range []stats.TestResult{r.Groups.MannWhitney, r.Groups.KruskalWallis} {
		tests.AppendRow(table.Row{t.Test, t.Metric, describeGroups(t), t.StatisticName + " = " + t.Statistic.Format(3),
			t.PValue.Format(4), decision(t)})
	}
	b.WriteString(tests.RenderMarkdown() + "\n\n")

	b.WriteString("## Post-hoc comparisons (Dunn)\n\n")
	if p := r.Groups.Posthoc; !p.Available {
		b.WriteString("Not run: " + p.Reason + "\n\n")
	} else {
		ph := table.NewWriter()
		ph.AppendHeader(table.Row{"Pair", "z", "p (raw)", "p (" + string(p.Correction) + ")", "Significant"})
		for _, pair := range p.Pairs {
			name := pair.GroupA + " vs " + pair.GroupB
			if !pair.Available {
				ph.AppendRow(table.Row{name, "omitted: " + pair.Reason})
				continue
			}
			ph.AppendRow(table.Row{name, pair.Z.Format(3), pair.PRaw.Format(4), pair.PAdjusted.Format(4), yesNo(pair.Significant)})
		}
		b.WriteString(ph.RenderMarkdown() + "\n\n")
	}

	b.WriteString("## Findings\n\n")
	for _, f := range r.Findings {
		b.WriteString("- " + f.Sentence + "\n")
	}

	return b.String()
}

func describeFilter(f dataset.FilterSpec) string {
	if f.IsUnconstrained() {
		return "none (all rows)"
	}
	var parts []string
	for _, col := range []string{dataset.ColSexo, dataset.ColEstrato, dataset.ColNomofobiaFlag} {
		if values, ok := f.Constraints()[col]; ok {
			parts = append(parts, fmt.Sprintf("%s ∈ {%s}", col, strings.Join(values, ", ")))
		}
	}
	return strings.Join(parts, "; ")
}

func describeGroups(t stats.TestResult) string {
	parts := make([]string, len(t.Groups))
	for i, g := range t.Groups {
		parts[i] = fmt.Sprintf("%s (n=%d)", g.Group, g.N)
	}
	return strings.Join(parts, ", ")
}

func decision(t stats.TestResult) string {
	switch {
	case !t.Available:
		return "unavailable: " + t.Reason
	case t.Significant:
		return fmt.Sprintf("reject H0 at %.2f", t.Alpha)
	default:
		return fmt.Sprintf("do not reject H0 at %.2f", t.Alpha)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
