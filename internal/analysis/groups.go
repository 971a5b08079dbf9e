package analysis

import (
	"errors"
	"fmt"

	"gonomo/adapters/stats/nonparam"
	"gonomo/domain/core"
	"gonomo/domain/dataset"
	"gonomo/domain/stats"
)

// CompareGroups runs the study's group comparisons: usage hours between
// "Sí" and "No" respondents, and the nomophobia score across strata followed
// by Dunn's post-hoc test when warranted
func CompareGroups(table *dataset.Table, opts Options) stats.GroupComparison {
	mw := MannWhitney(table, dataset.ColHorasUso, dataset.ColNomofobiaFlag, dataset.LabelYes, dataset.LabelNo, opts)
	kw := KruskalWallis(table, dataset.ColNomofobia, dataset.ColEstrato, opts)
	return stats.GroupComparison{
		MannWhitney:   mw,
		KruskalWallis: kw,
		Posthoc:       Posthoc(table, dataset.ColNomofobia, dataset.ColEstrato, kw, opts),
	}
}

// MannWhitney compares metric between the rows labelled a and b in groupCol
// with a two-sided Mann–Whitney U test
func MannWhitney(table *dataset.Table, metric, groupCol, a, b string, opts Options) stats.TestResult {
	r := stats.TestResult{
		Test:          stats.TestMannWhitney,
		Metric:        metric,
		GroupBy:       groupCol,
		StatisticName: "U",
		Statistic:     stats.Undefined(),
		PValue:        stats.Undefined(),
		Alpha:         opts.alpha(),
	}

	groups, err := groupValues(table, metric, groupCol)
	if err != nil {
		r.Availability = stats.Unavailable(err)
		return r
	}
	xs, ys := valuesOf(groups, a), valuesOf(groups, b)
	r.Groups = []stats.GroupSize{{Group: a, N: len(xs)}, {Group: b, N: len(ys)}}

	res, err := nonparam.MannWhitney(xs, ys)
	if err != nil {
		r.Availability = stats.Unavailable(err)
		return r
	}

	r.Statistic = stats.Number(res.U)
	r.PValue = stats.Number(res.P)
	r.Availability = stats.Ok()
	r.Decide()
	return r
}

// KruskalWallis compares metric across every label of groupCol
func KruskalWallis(table *dataset.Table, metric, groupCol string, opts Options) stats.TestResult {
	r := stats.TestResult{
		Test:          stats.TestKruskalWallis,
		Metric:        metric,
		GroupBy:       groupCol,
		StatisticName: "H",
		Statistic:     stats.Undefined(),
		PValue:        stats.Undefined(),
		Alpha:         opts.alpha(),
	}

	groups, err := groupValues(table, metric, groupCol)
	if err != nil {
		r.Availability = stats.Unavailable(err)
		return r
	}

	res, err := nonparam.KruskalWallis(groups)
	for i, name := range res.Groups {
		r.Groups = append(r.Groups, stats.GroupSize{Group: name, N: res.Sizes[i]})
	}
	if err != nil {
		r.Availability = stats.Unavailable(err)
		return r
	}

	r.Statistic = stats.Number(res.H)
	r.PValue = stats.Number(res.P)
	r.Availability = stats.Ok()
	r.Decide()
	return r
}

// errPosthocNotWarranted marks a post-hoc test skipped because the omnibus
// test gave no reason to run it
var errPosthocNotWarranted = errors.New("post-hoc not warranted")

// Posthoc runs Dunn's test on metric across the labels of groupCol. It only
// runs when the omnibus result is significant and spans at least three groups;
// otherwise the result is unavailable with the reason.
func Posthoc(table *dataset.Table, metric, groupCol string, omnibus stats.TestResult, opts Options) stats.PosthocResult {
	p := stats.PosthocResult{
		Test:       stats.TestDunn,
		Metric:     metric,
		GroupBy:    groupCol,
		Correction: opts.Correction,
		Alpha:      opts.alpha(),
	}
	if p.Correction == "" {
		p.Correction = stats.CorrectionBonferroni
	}

	switch {
	case !omnibus.Available:
		p.Availability = stats.Unavailable(fmt.Errorf("%w: omnibus test unavailable (%s)", errPosthocNotWarranted, omnibus.Reason))
		return p
	case !omnibus.Significant:
		p.Availability = stats.Unavailable(fmt.Errorf("%w: omnibus p=%s is not below %.2f",
			errPosthocNotWarranted, omnibus.PValue.Format(4), omnibus.Alpha))
		return p
	case len(omnibus.Groups) < 3:
		p.Availability = stats.Unavailable(fmt.Errorf("%w: %d groups, pairwise comparison needs at least 3",
			errPosthocNotWarranted, len(omnibus.Groups)))
		return p
	}

	groups, err := groupValues(table, metric, groupCol)
	if err != nil {
		p.Availability = stats.Unavailable(err)
		return p
	}

	res, err := nonparam.Dunn(groups, p.Correction)
	if err != nil {
		p.Availability = stats.Unavailable(err)
		return p
	}

	k := len(res.Groups)
	p.Groups = res.Groups
	p.Matrix = make([][]stats.Number, k)
	for i := range p.Matrix {
		p.Matrix[i] = make([]stats.Number, k)
		for j := range p.Matrix[i] {
			p.Matrix[i][j] = stats.Undefined()
		}
		p.Matrix[i][i] = 1
	}

	for _, pair := range res.Pairs {
		cmp := stats.PairComparison{
			GroupA:    res.Groups[pair.A],
			GroupB:    res.Groups[pair.B],
			Z:         stats.Number(pair.Z),
			PRaw:      stats.Number(pair.P),
			PAdjusted: stats.Number(pair.PAdjusted),
		}
		if pair.Err != nil {
			cmp.Availability = stats.Unavailable(pair.Err)
		} else {
			cmp.Availability = stats.Ok()
			cmp.Significant = pair.PAdjusted < p.Alpha
			p.Matrix[pair.A][pair.B] = cmp.PAdjusted
			p.Matrix[pair.B][pair.A] = cmp.PAdjusted
		}
		p.Pairs = append(p.Pairs, cmp)
	}

	p.Availability = stats.Ok()
	return p
}

// groupValues splits metric by the non-missing labels of groupCol. Groups are
// ordered like the filter options: numerically when every label is a number.
func groupValues(table *dataset.Table, metric, groupCol string) ([]nonparam.Group, error) {
	values, err := table.Numeric(metric)
	if err != nil {
		return nil, err
	}
	labels, err := table.Labels(groupCol)
	if err != nil {
		return nil, err
	}

	byLabel := make(map[string][]float64)
	var names []string
	for i, label := range labels {
		if label == "" {
			continue
		}
		if _, ok := byLabel[label]; !ok {
			names = append(names, label)
		}
		byLabel[label] = append(byLabel[label], values[i])
	}
	if len(names) == 0 {
		return nil, core.NewInsufficientDataError("no labelled rows in %s", groupCol)
	}

	dataset.SortLabels(names)
	groups := make([]nonparam.Group, len(names))
	for i, name := range names {
		groups[i] = nonparam.Group{Name: name, Values: byLabel[name]}
	}
	return groups, nil
}

func valuesOf(groups []nonparam.Group, name string) []float64 {
	for _, g := range groups {
		if g.Name == name {
			return present(g.Values)
		}
	}
	return nil
}
