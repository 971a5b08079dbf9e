package analysis

import (
	"math"

	"gonomo/adapters/stats/nonparam"
	"gonomo/domain/core"
	"gonomo/domain/dataset"
	"gonomo/domain/stats"
)

// Correlate computes Spearman's rho between primary and each of others, in the
// order given. Each pair uses only the rows where both values are present.
func Correlate(table *dataset.Table, primary string, others []string, opts Options) []stats.Correlation {
	out := make([]stats.Correlation, 0, len(others))
	for _, variable := range others {
		out = append(out, correlatePair(table, primary, variable, opts.alpha()))
	}
	return out
}

func correlatePair(table *dataset.Table, primary, variable string, alpha float64) stats.Correlation {
	c := stats.Correlation{
		Primary:  primary,
		Variable: variable,
		Rho:      stats.Undefined(),
		PValue:   stats.Undefined(),
		Alpha:    alpha,
	}

	x, err := table.Numeric(primary)
	if err != nil {
		c.Availability = stats.Unavailable(err)
		return c
	}
	y, err := table.Numeric(variable)
	if err != nil {
		c.Availability = stats.Unavailable(err)
		return c
	}

	res, err := nonparam.Spearman(x, y)
	c.N = res.N
	c.Method = res.Method
	if err != nil {
		c.Availability = stats.Unavailable(err)
		return c
	}

	c.Rho = stats.Number(res.Rho)
	c.PValue = stats.Number(res.P)
	if math.IsNaN(res.P) {
		c.Availability = stats.Unavailable(core.NewInsufficientDataError("p-value undefined for %d pairs", res.N))
		return c
	}

	c.Availability = stats.Ok()
	c.Significant = res.P < alpha
	return c
}

// CorrelationMatrix computes the symmetric Spearman matrix over vars. The
// diagonal is 1 for every present column; cells that cannot be computed, and
// every cell of a missing column, are undefined.
func CorrelationMatrix(table *dataset.Table, vars []string) stats.CorrelationMatrix {
	k := len(vars)
	m := stats.CorrelationMatrix{
		Variables: append([]string(nil), vars...),
		Values:    make([][]stats.Number, k),
		N:         make([][]int, k),
	}

	columns := make([][]float64, k)
	for i, v := range vars {
		m.Values[i] = make([]stats.Number, k)
		m.N[i] = make([]int, k)
		for j := range m.Values[i] {
			m.Values[i][j] = stats.Undefined()
		}
		if col, err := table.Numeric(v); err == nil {
			columns[i] = col
		}
	}

	for i := 0; i < k; i++ {
		if columns[i] == nil {
			continue
		}
		m.Values[i][i] = 1
		m.N[i][i] = len(present(columns[i]))
		for j := i + 1; j < k; j++ {
			if columns[j] == nil {
				continue
			}
			res, err := nonparam.Spearman(columns[i], columns[j])
			m.N[i][j], m.N[j][i] = res.N, res.N
			if err != nil {
				continue
			}
			m.Values[i][j] = stats.Number(res.Rho)
			m.Values[j][i] = stats.Number(res.Rho)
		}
	}
	return m
}
