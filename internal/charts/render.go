package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"gonomo/domain/dataset"
)

const (
	chartWidth    = "100%"
	chartHeight   = "480px"
	heatmapHeight = "560px"
	pageTitle     = "Nomophobia survey charts"
)

var palette = []string{"#5470c6", "#ee6666", "#91cc75", "#fac858", "#73c0de", "#3ba272", "#fc8452", "#9a60b4"}

// Render resolves every spec against table and writes a single HTML page with
// one chart per spec. A spec that cannot be resolved is rendered as an empty
// chart whose subtitle carries the reason.
func Render(w io.Writer, specs []Spec, table *dataset.Table) error {
	page := components.NewPage()
	page.PageTitle = pageTitle

	for _, spec := range specs {
		fig, err := Resolve(spec, table)
		if err != nil {
			page.AddCharts(emptyChart(spec, err.Error()))
			continue
		}
		chart, err := renderFigure(fig)
		if err != nil {
			return err
		}
		page.AddCharts(chart)
	}

	return page.Render(w)
}

func renderFigure(fig Figure) (components.Charter, error) {
	switch fig.Spec.Kind {
	case KindScatter:
		return scatterChart(fig), nil
	case KindBox:
		return boxChart(fig), nil
	case KindHeatmap:
		return heatmapChart(fig), nil
	}
	return nil, fmt.Errorf("unknown chart kind %q", fig.Spec.Kind)
}

func baseOptions(spec Spec, height string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: pageTitle, Width: chartWidth, Height: height}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "30"}),
	}
}

func scatterChart(fig Figure) *charts.Scatter {
	spec := fig.Spec
	sc := charts.NewScatter()
	sc.SetGlobalOptions(append(baseOptions(spec, chartHeight),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XLabel, Type: "value", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YLabel, Type: "value"}),
	)...)

	trends := charts.NewLine()
	hasTrend := false
	for i, s := range fig.Series {
		colour := palette[i%len(palette)]
		name := seriesName(spec, s.Group)

		data := make([]opts.ScatterData, len(s.Points))
		for j, p := range s.Points {
			data[j] = opts.ScatterData{Name: s.Hover[j], Value: []interface{}{p.X, p.Y}}
		}
		sc.AddSeries(name, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: colour}))

		if len(s.Trend) == 0 {
			continue
		}
		line := make([]opts.LineData, len(s.Trend))
		for j, p := range s.Trend {
			line[j] = opts.LineData{Value: []interface{}{p.X, p.Y}}
		}
		trends.AddSeries(name+" ("+string(spec.Trend)+")", line,
			charts.WithLineStyleOpts(opts.LineStyle{Color: colour, Width: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: colour}),
		)
		hasTrend = true
	}
	if hasTrend {
		sc.Overlap(trends)
	}
	return sc
}

func boxChart(fig Figure) *charts.BoxPlot {
	spec := fig.Spec
	bp := charts.NewBoxPlot()
	bp.SetGlobalOptions(append(baseOptions(spec, chartHeight),
		charts.WithXAxisOpts(opts.XAxis{Name: spec.XLabel, Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: spec.YLabel, Type: "value"}),
	)...)

	groups := make([]string, len(fig.Boxes))
	data := make([]opts.BoxPlotData, len(fig.Boxes))
	for i, b := range fig.Boxes {
		s := b.Summary
		groups[i] = b.Group
		data[i] = opts.BoxPlotData{
			Name:  fmt.Sprintf("%s (n=%d)", b.Group, s.Count),
			Value: []float64{s.Min.Float(), s.Q1.Float(), s.Median.Float(), s.Q3.Float(), s.Max.Float()},
		}
	}
	bp.SetXAxis(groups).AddSeries(spec.Y, data)
	return bp
}

func heatmapChart(fig Figure) *charts.HeatMap {
	spec := fig.Spec
	m := fig.Matrix

	data := make([]opts.HeatMapData, 0, len(m.Variables)*len(m.Variables))
	for i := range m.Variables {
		for j := range m.Variables {
			v := m.Values[i][j]
			if !v.Defined() {
				data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, "-"}})
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, math.Round(v.Float()*100) / 100}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(append(baseOptions(spec, heatmapHeight),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category", Data: m.Variables,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Rotate: 30, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category", Data: m.Variables,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true), Min: -1, Max: 1,
			InRange: &opts.VisualMapInRange{Color: []string{"#313695", "#f7f7f7", "#a50026"}},
			Orient:  "horizontal", Left: "center", Bottom: "2%",
		}),
	)...)
	hm.AddSeries("Spearman rho", data, charts.WithLabelOpts(opts.Label{
		Show: opts.Bool(true), Position: "inside",
	}))
	return hm
}

func emptyChart(spec Spec, reason string) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: pageTitle, Width: chartWidth, Height: "200px"}),
		charts.WithTitleOpts(opts.Title{Title: spec.Title, Subtitle: "Unavailable: " + reason}),
	)
	return sc
}

func seriesName(spec Spec, group string) string {
	switch {
	case group != "":
		return group
	case spec.Color != "":
		return "(missing " + spec.Color + ")"
	default:
		return spec.Y
	}
}
