package charts

import (
	"fmt"
	"math"
	"strings"

	"gonomo/domain/dataset"
	"gonomo/domain/stats"
	"gonomo/internal/analysis"
)

// Series is the points of one colour group of a scatter
type Series struct {
	Group  string   `json:"group"`
	Points []Point  `json:"points"`
	Hover  []string `json:"hover,omitempty"`
	Trend  []Point  `json:"trend,omitempty"`
}

// Box is the five-number summary of one group of a box chart
type Box struct {
	Group   string               `json:"group"`
	Summary stats.NumericSummary `json:"summary"`
}

// Figure is a spec resolved against a table: the data a renderer draws
type Figure struct {
	Spec   Spec                     `json:"spec"`
	Series []Series                 `json:"series,omitempty"`
	Boxes  []Box                    `json:"boxes,omitempty"`
	Matrix *stats.CorrelationMatrix `json:"matrix,omitempty"`
	Notes  []string                 `json:"notes,omitempty"`
}

// Resolve computes the data behind spec from table. Rows missing either axis
// value are left out of scatters; rows without a colour label form their own
// group. Problems that only affect part of the figure are returned as notes.
func Resolve(spec Spec, table *dataset.Table) (Figure, error) {
	fig := Figure{Spec: spec}

	switch spec.Kind {
	case KindScatter:
		return resolveScatter(fig, table)
	case KindBox:
		return resolveBox(fig, table)
	case KindHeatmap:
		m := analysis.CorrelationMatrix(table, spec.Variables)
		fig.Matrix = &m
		return fig, nil
	}
	return fig, fmt.Errorf("unknown chart kind %q", spec.Kind)
}

func resolveScatter(fig Figure, table *dataset.Table) (Figure, error) {
	spec := fig.Spec
	xs, err := table.Numeric(spec.X)
	if err != nil {
		return fig, err
	}
	ys, err := table.Numeric(spec.Y)
	if err != nil {
		return fig, err
	}

	var colours []string
	if spec.Color != "" {
		if colours, err = table.Labels(spec.Color); err != nil {
			fig.Notes = append(fig.Notes, fmt.Sprintf("colour ignored: %v", err))
			colours = nil
		}
	}

	byGroup := map[string]*Series{}
	var order []string
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		group := ""
		if colours != nil {
			group = colours[i]
		}
		s, ok := byGroup[group]
		if !ok {
			s = &Series{Group: group}
			byGroup[group] = s
			order = append(order, group)
		}
		s.Points = append(s.Points, Point{X: xs[i], Y: ys[i]})
		s.Hover = append(s.Hover, hoverText(table, spec.Hover, i))
	}
	dataset.SortLabels(order)

	for _, group := range order {
		s := byGroup[group]
		if trend, err := fitTrend(spec.Trend, s.Points); err != nil {
			fig.Notes = append(fig.Notes, fmt.Sprintf("no %s trend for %s: %v", spec.Trend, groupName(group), err))
		} else {
			s.Trend = trend
		}
		fig.Series = append(fig.Series, *s)
	}
	return fig, nil
}

func fitTrend(method TrendMethod, points []Point) ([]Point, error) {
	switch method {
	case TrendOLS:
		return OLS(points)
	case TrendLowess:
		return Lowess(points, LowessFrac)
	}
	return nil, nil
}

func resolveBox(fig Figure, table *dataset.Table) (Figure, error) {
	spec := fig.Spec
	if _, err := table.Numeric(spec.Y); err != nil {
		return fig, err
	}
	labels, err := table.Labels(spec.X)
	if err != nil {
		return fig, err
	}

	rows := map[string][]int{}
	var order []string
	for i, label := range labels {
		if label == "" {
			continue
		}
		if _, ok := rows[label]; !ok {
			order = append(order, label)
		}
		rows[label] = append(rows[label], i)
	}
	dataset.SortLabels(order)

	for _, group := range order {
		summary := analysis.SummarizeColumn(table.Subset(rows[group]), spec.Y)
		if !summary.Available {
			fig.Notes = append(fig.Notes, fmt.Sprintf("no box for %s: %s", group, summary.Reason))
			continue
		}
		fig.Boxes = append(fig.Boxes, Box{Group: group, Summary: summary})
	}
	return fig, nil
}

func hoverText(table *dataset.Table, columns []string, row int) string {
	if len(columns) == 0 {
		return ""
	}
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		if !table.Has(c) {
			continue
		}
		parts = append(parts, c+"="+table.Cell(c, row))
	}
	return strings.Join(parts, ", ")
}

func groupName(group string) string {
	if group == "" {
		return "all points"
	}
	return group
}
