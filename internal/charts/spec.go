// Package charts describes the dashboard's charts as renderer-agnostic specs and
// renders them to HTML with go-echarts.
package charts

import (
	"gonomo/domain/dataset"
	"gonomo/domain/stats"
	"gonomo/internal/recommend"
)

// Kind is the chart type
type Kind string

const (
	KindScatter Kind = "scatter"
	KindBox     Kind = "box"
	KindHeatmap Kind = "heatmap"
)

// TrendMethod selects the trend line drawn over a scatter
type TrendMethod string

const (
	TrendNone   TrendMethod = "none"
	TrendOLS    TrendMethod = "ols"
	TrendLowess TrendMethod = "lowess"
)

// Spec describes one chart: which columns go on which axis, how points are
// coloured and which trend line is drawn. For box charts X is the grouping
// column; heatmaps use Variables.
type Spec struct {
	ID        string      `json:"id"`
	Kind      Kind        `json:"kind"`
	Title     string      `json:"title"`
	X         string      `json:"x,omitempty"`
	Y         string      `json:"y,omitempty"`
	XLabel    string      `json:"x_label,omitempty"`
	YLabel    string      `json:"y_label,omitempty"`
	Color     string      `json:"color,omitempty"`
	Hover     []string    `json:"hover,omitempty"`
	Trend     TrendMethod `json:"trend,omitempty"`
	Variables []string    `json:"variables,omitempty"`
}

// Explorer is the user-chosen scatter of the free exploration panel
type Explorer struct {
	X     string `json:"x" yaml:"x"`
	Y     string `json:"y" yaml:"y"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// DefaultExplorer plots usage hours against the nomophobia score
func DefaultExplorer() Explorer {
	return Explorer{X: dataset.ColHorasUso, Y: dataset.ColNomofobia}
}

// Build returns the dashboard's chart specs. Group box plots are only included
// when the test they illustrate could be computed.
func Build(groups stats.GroupComparison, explorer Explorer, matrixVars []string) []Spec {
	specs := []Spec{{
		ID:     "usage-vs-nomophobia",
		Kind:   KindScatter,
		Title:  "Usage hours vs nomophobia",
		X:      dataset.ColHorasUso,
		Y:      dataset.ColNomofobia,
		XLabel: "Daily usage hours (average)",
		YLabel: "Nomophobia score",
		Color:  dataset.ColNomofobiaFlag,
		Hover:  []string{dataset.ColSexo, dataset.ColEstrato, dataset.ColAnsiedadSocial, dataset.ColAutoestima},
		Trend:  TrendOLS,
	}}

	if groups.MannWhitney.Available {
		specs = append(specs, Spec{
			ID:     "usage-by-flag",
			Kind:   KindBox,
			Title:  "Usage hours by nomophobia (yes/no)",
			X:      dataset.ColNomofobiaFlag,
			Y:      dataset.ColHorasUso,
			XLabel: "Nomophobia (yes/no)",
			YLabel: "Usage hours",
			Color:  dataset.ColNomofobiaFlag,
		})
	}
	if groups.KruskalWallis.Available {
		specs = append(specs, Spec{
			ID:     "nomophobia-by-stratum",
			Kind:   KindBox,
			Title:  "Nomophobia by socio-economic stratum",
			X:      dataset.ColEstrato,
			Y:      dataset.ColNomofobia,
			XLabel: "Stratum",
			YLabel: "Nomophobia score",
			Color:  dataset.ColEstrato,
		})
	}

	specs = append(specs, Spec{
		ID:     "explorer",
		Kind:   KindScatter,
		Title:  "Explorer: " + explorer.X + " vs " + explorer.Y,
		X:      explorer.X,
		Y:      explorer.Y,
		XLabel: recommend.Label(explorer.X),
		YLabel: recommend.Label(explorer.Y),
		Color:  explorer.Color,
		Hover:  []string{dataset.ColSexo, dataset.ColEstrato, dataset.ColNomofobiaFlag},
		Trend:  TrendLowess,
	})

	if len(matrixVars) > 0 {
		specs = append(specs, Spec{
			ID:        "correlation-heatmap",
			Kind:      KindHeatmap,
			Title:     "Spearman correlation matrix",
			Variables: append([]string(nil), matrixVars...),
		})
	}

	return specs
}
