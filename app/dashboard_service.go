package app

import (
	"context"
	"fmt"
	"time"

	"gonomo/domain/core"
	"gonomo/domain/dataset"
	"gonomo/domain/stats"
	"gonomo/internal"
	"gonomo/internal/analysis"
	"gonomo/internal/charts"
	"gonomo/internal/filter"
	"gonomo/internal/metrics"
	"gonomo/internal/recommend"
)

// Bundle is the complete, immutable output of one pipeline run
type Bundle struct {
	stats.Results
	FilterHash core.FilterHash `json:"filter_hash"`
	Charts     []charts.Spec   `json:"charts"`
	RuntimeMs  int64           `json:"runtime_ms"`
}

// DashboardService runs the filter-and-statistics pipeline over a loaded table
type DashboardService struct {
	options  analysis.Options
	explorer charts.Explorer
	metrics  *metrics.Pipeline
	logger   *internal.Logger
}

// NewDashboardService creates a dashboard service. metrics may be nil.
func NewDashboardService(options analysis.Options, explorer charts.Explorer, m *metrics.Pipeline, logger *internal.Logger) *DashboardService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DashboardService{
		options:  options,
		explorer: explorer,
		metrics:  m,
		logger:   logger,
	}
}

// Options returns the decision parameters the service runs with
func (s *DashboardService) Options() analysis.Options {
	return s.options
}

// Run filters table with spec and computes every result family from the
// filtered view. Computations that cannot run are reported inside the bundle;
// Run itself only fails when ctx is done.
func (s *DashboardService) Run(ctx context.Context, table *dataset.Table, spec dataset.FilterSpec) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	startTime := time.Now()
	spec = spec.Normalized()

	var diagnostics []string
	for _, col := range table.Unavailable() {
		diagnostics = append(diagnostics, fmt.Sprintf("declared column %s is missing from the source", col))
	}

	view, notes := filter.Apply(table, spec)
	diagnostics = append(diagnostics, notes...)
	if view.Len() == 0 {
		diagnostics = append(diagnostics, "no rows match the active filters")
	}

	descriptive := analysis.Summarize(view)
	correlations := analysis.Correlate(view, analysis.CorrelationPrimary, analysis.CorrelationTargets, s.options)
	matrix := analysis.CorrelationMatrix(view, analysis.MatrixVariables)
	groups := analysis.CompareGroups(view, s.options)
	findings := recommend.Synthesize(correlations, groups)

	bundle := &Bundle{
		Results: stats.Results{
			Source:       table.Source(),
			Filter:       spec,
			Alpha:        groups.KruskalWallis.Alpha,
			Correction:   groups.Posthoc.Correction,
			Descriptive:  descriptive,
			Correlations: correlations,
			Matrix:       matrix,
			Groups:       groups,
			Findings:     findings,
			Diagnostics:  diagnostics,
			ComputedAt:   time.Now().UTC(),
		},
		FilterHash: spec.Hash(),
		Charts:     charts.Build(groups, s.explorer, analysis.MatrixVariables),
	}

	s.recordUnavailable(bundle)
	elapsed := time.Since(startTime)
	bundle.RuntimeMs = elapsed.Milliseconds()
	s.metrics.ObserveRun(elapsed, view.Len())

	s.logger.Zerolog().Debug().
		Str("filter", spec.Hash().String()).
		Int("rows", view.Len()).
		Int("source_rows", table.Len()).
		Int("findings", len(findings)).
		Dur("elapsed", elapsed).
		Msg("[DashboardService] pipeline run")
	return bundle, nil
}

// View returns the filtered table for spec, used by the table export
func (s *DashboardService) View(table *dataset.Table, spec dataset.FilterSpec) *dataset.Table {
	view, _ := filter.Apply(table, spec.Normalized())
	return view
}

func (s *DashboardService) recordUnavailable(b *Bundle) {
	for _, c := range b.Descriptive.Columns {
		if !c.Available {
			s.metrics.Unavailable("summary")
		}
	}
	for _, c := range b.Correlations {
		if !c.Available {
			s.metrics.Unavailable(string(stats.TestSpearman))
		}
	}
	for _, r := range []stats.TestResult{b.Groups.MannWhitney, b.Groups.KruskalWallis} {
		if !r.Available {
			s.metrics.Unavailable(string(r.Test))
			s.logger.Debug("[DashboardService] %s unavailable: %s", r.Test, r.Reason)
		}
	}
}
