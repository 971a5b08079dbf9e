package analysis

import (
	"math"

	mfstats "github.com/montanaflynn/stats"

	"gonomo/domain/core"
	"gonomo/domain/dataset"
	"gonomo/domain/stats"
)

// Summarize computes the descriptive block for a (filtered) table: a summary
// per declared numeric column, the share of "Sí" answers and the headline KPIs.
// Missing values are excluded from every statistic; a missing or empty column
// yields an unavailable summary rather than an error.
func Summarize(table *dataset.Table) stats.Descriptive {
	out := stats.Descriptive{Rows: table.Len()}

	for _, column := range dataset.SurveySchema().Numeric {
		out.Columns = append(out.Columns, SummarizeColumn(table, column))
	}

	yes := ProportionOf(table, dataset.ColNomofobiaFlag, dataset.LabelYes)
	out.Proportions = append(out.Proportions, yes)

	out.KPIs = stats.KPIs{
		Participants:  table.Len(),
		MeanHorasUso:  meanOf(table, dataset.ColHorasUso),
		MeanNomofobia: meanOf(table, dataset.ColNomofobia),
		PercentYes:    yes.Percent,
	}
	return out
}

// SummarizeColumn computes count, mean, sample standard deviation, min,
// quartiles and max over the non-missing values of one numeric column
func SummarizeColumn(table *dataset.Table, column string) stats.NumericSummary {
	summary := stats.NumericSummary{
		Column: column,
		Mean:   stats.Undefined(),
		Std:    stats.Undefined(),
		Min:    stats.Undefined(),
		Q1:     stats.Undefined(),
		Median: stats.Undefined(),
		Q3:     stats.Undefined(),
		Max:    stats.Undefined(),
	}

	raw, err := table.Numeric(column)
	if err != nil {
		summary.Availability = stats.Unavailable(err)
		return summary
	}
	data := present(raw)
	summary.Count = len(data)
	if len(data) == 0 {
		summary.Availability = stats.Unavailable(core.NewInsufficientDataError("%s has no non-missing values", column))
		return summary
	}

	mean, _ := mfstats.Mean(data)
	std, _ := mfstats.StandardDeviationSample(data)
	min, _ := mfstats.Min(data)
	max, _ := mfstats.Max(data)
	median, _ := mfstats.Median(data)
	q1, q3 := quartiles(data, median)

	summary.Mean = stats.Number(mean)
	summary.Std = stats.Number(std)
	summary.Min = stats.Number(min)
	summary.Q1 = stats.Number(q1)
	summary.Median = stats.Number(median)
	summary.Q3 = stats.Number(q3)
	summary.Max = stats.Number(max)
	summary.Availability = stats.Ok()
	return summary
}

// quartiles returns the lower and upper quartile as the medians of the lower
// and upper halves; a single observation is its own quartiles
func quartiles(data []float64, median float64) (float64, float64) {
	if len(data) < 2 {
		return median, median
	}
	q, err := mfstats.Quartile(data)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	return q.Q1, q.Q3
}

// ProportionOf computes the share of rows equal to label among the
// non-missing values of column. An empty or missing column reports 0%.
func ProportionOf(table *dataset.Table, column, label string) stats.Proportion {
	p := stats.Proportion{Column: column, Label: label}

	values, err := table.Labels(column)
	if err != nil {
		p.Availability = stats.Unavailable(err)
		return p
	}
	for _, v := range values {
		if v == "" {
			continue
		}
		p.Total++
		if v == label {
			p.Matches++
		}
	}
	if p.Total == 0 {
		p.Availability = stats.Unavailable(core.NewInsufficientDataError("%s has no non-missing values", column))
		return p
	}

	p.Percent = 100 * float64(p.Matches) / float64(p.Total)
	p.Availability = stats.Ok()
	return p
}

func meanOf(table *dataset.Table, column string) stats.Number {
	raw, err := table.Numeric(column)
	if err != nil {
		return stats.Undefined()
	}
	mean, err := mfstats.Mean(present(raw))
	if err != nil {
		return stats.Undefined()
	}
	return stats.Number(mean)
}

// present drops missing (NaN) values
func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
