package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"gonomo/app"
	"gonomo/domain/dataset"
	"gonomo/domain/stats"
	"gonomo/internal/config"
	"gonomo/internal/container"
	"gonomo/internal/recommend"
)

// pipelineRun is one loaded dataset with the results computed for the active filters
type pipelineRun struct {
	container *container.Container
	table     *dataset.Table
	bundle    *app.Bundle
}

func (r *pipelineRun) view() *dataset.Table {
	return r.container.Service.View(r.table, r.bundle.Filter)
}

func runPipeline(ctx context.Context, opts *rootOptions, overrides ...func(*config.Config)) (*pipelineRun, error) {
	spec, err := opts.filterSpec()
	if err != nil {
		return nil, err
	}
	c, err := opts.container(overrides...)
	if err != nil {
		return nil, err
	}
	loaded, err := c.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}
	bundle, err := c.Service.Run(ctx, loaded.Table, spec)
	if err != nil {
		return nil, err
	}
	return &pipelineRun{container: c, table: loaded.Table, bundle: bundle}, nil
}

func newAnalyzeCmd(opts *rootOptions) *cobra.Command {
	var asJSON, noColor bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the statistics pipeline and print the results",
		Long: `Load the survey, apply the filters and print descriptive statistics,
Spearman correlations against usage hours, the group tests and the findings.

Example: gonomo analyze --data "DATOS REALES.xlsx" --estrato 2,3 --nomofobia Sí`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			run, err := runPipeline(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(run.bundle)
			}
			printBundle(out, run.bundle)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the results bundle as JSON")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured findings")

	return cmd
}

func printBundle(w io.Writer, b *app.Bundle) {
	fmt.Fprintf(w, "Source: %s   Filters: %s   (%d ms)\n\n", b.Source, describeFilter(b.Filter), b.RuntimeMs)

	for _, d := range b.Diagnostics {
		color.New(color.FgYellow).Fprintf(w, "! %s\n", d)
	}
	if len(b.Diagnostics) > 0 {
		fmt.Fprintln(w)
	}

	section(w, "Indicators", kpiTable(b.Descriptive.KPIs))
	section(w, "Descriptive statistics", descriptiveTable(b.Descriptive))
	section(w, "Spearman correlations", correlationTable(b.Correlations))
	section(w, "Group comparisons", testTable(b.Groups))
	if b.Groups.Posthoc.Available {
		section(w, fmt.Sprintf("Dunn post-hoc (%s)", b.Groups.Posthoc.Correction), posthocTable(b.Groups.Posthoc))
	}

	fmt.Fprintln(w, "Findings:")
	for _, f := range b.Findings {
		findingColor(f.Category).Fprintf(w, "  - %s\n", f.Sentence)
	}
}

func section(w io.Writer, title string, t table.Writer) {
	fmt.Fprintf(w, "%s:\n%s\n\n", title, t.Render())
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	return t
}

func kpiTable(k stats.KPIs) table.Writer {
	t := newTable()
	t.AppendHeader(table.Row{"Participants", "Mean usage hours", "Mean nomophobia", "% nomophobia yes"})
	t.AppendRow(table.Row{k.Participants, k.MeanHorasUso.Format(2), k.MeanNomofobia.Format(2), fmt.Sprintf("%.1f%%", k.PercentYes)})
	return t
}

func descriptiveTable(d stats.Descriptive) table.Writer {
	t := newTable()
	t.AppendHeader(table.Row{"Column", "N", "Mean", "Std", "Min", "Q1", "Median", "Q3", "Max"})
	for _, s := range d.Columns {
		if !s.Available {
			t.AppendRow(table.Row{s.Column, s.Count, "unavailable: " + s.Reason})
			continue
		}
		t.AppendRow(table.Row{s.Column, s.Count, s.Mean.Format(2), s.Std.Format(2), s.Min.Format(2),
			s.Q1.Format(2), s.Median.Format(2), s.Q3.Format(2), s.Max.Format(2)})
	}
	return t
}

func correlationTable(cs []stats.Correlation) table.Writer {
	t := newTable()
	t.AppendHeader(table.Row{"Variable", "rho", "p", "n", "Interpretation"})
	for _, c := range cs {
		interpretation := c.Interpretation()
		if !c.Available {
			interpretation += ": " + c.Reason
		}
		t.AppendRow(table.Row{recommend.Label(c.Variable), c.Rho.Format(3), c.PValue.Format(4), c.N, interpretation})
	}
	return t
}

func testTable(g stats.GroupComparison) table.Writer {
	t := newTable()
	t.AppendHeader(table.Row{"Test", "Metric by group", "Statistic", "p", "Groups", "Decision"})
	for _, r := range []stats.TestResult{g.MannWhitney, g.KruskalWallis} {
		sizes := make([]string, len(r.Groups))
		for i, gs := range r.Groups {
			sizes[i] = fmt.Sprintf("%s (n=%d)", gs.Group, gs.N)
		}
		decision := "not significant"
		switch {
		case !r.Available:
			decision = "unavailable: " + r.Reason
		case r.Significant:
			decision = fmt.Sprintf("significant at α=%.2f", r.Alpha)
		}
		t.AppendRow(table.Row{
			string(r.Test),
			r.Metric + " by " + r.GroupBy,
			r.StatisticName + " = " + r.Statistic.Format(3),
			r.PValue.Format(4),
			strings.Join(sizes, ", "),
			decision,
		})
	}
	return t
}

func posthocTable(p stats.PosthocResult) table.Writer {
	t := newTable()
	t.AppendHeader(table.Row{"Pair", "z", "p", "p adjusted", "Significant"})
	for _, pair := range p.Pairs {
		name := pair.GroupA + " vs " + pair.GroupB
		if !pair.Available {
			t.AppendRow(table.Row{name, "", "", "", "omitted: " + pair.Reason})
			continue
		}
		t.AppendRow(table.Row{name, pair.Z.Format(3), pair.PRaw.Format(4), pair.PAdjusted.Format(4), pair.Significant})
	}
	return t
}

func findingColor(c stats.Category) *color.Color {
	switch c {
	case stats.CategoryStrongPositive, stats.CategoryStrataDiffer, stats.CategoryGroupsDiffer, stats.CategoryPairDiffers:
		return color.New(color.FgRed, color.Bold)
	case stats.CategoryWeakPositive:
		return color.New(color.FgYellow)
	case stats.CategoryNegative:
		return color.New(color.FgCyan)
	case stats.CategoryInsufficient:
		return color.New(color.Faint)
	}
	return color.New(color.Reset)
}

func describeFilter(f dataset.FilterSpec) string {
	if f.IsUnconstrained() {
		return "none"
	}
	var parts []string
	for _, c := range []struct {
		column string
		values []string
	}{
		{dataset.ColSexo, f.Sexo},
		{dataset.ColEstrato, f.Estrato},
		{dataset.ColNomofobiaFlag, f.Nomofobia},
	} {
		if len(c.values) > 0 {
			parts = append(parts, c.column+"="+strings.Join(c.values, ","))
		}
	}
	return strings.Join(parts, " ")
}
