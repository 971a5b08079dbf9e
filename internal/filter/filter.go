// Package filter restricts an observation table to the rows matching a set of
// categorical inclusion filters.
package filter

import (
	"fmt"

	"gonomo/domain/dataset"
)

// Apply returns a new table holding the rows of table whose value in every
// constrained column belongs to that column's allowed set. Columns with an
// empty set are not filtered on; a missing value never matches an active
// constraint. The input table is not modified.
//
// A constraint on a column the source did not provide cannot be satisfied, so
// it yields an empty table. Each such case is reported in the returned notes.
func Apply(table *dataset.Table, spec dataset.FilterSpec) (*dataset.Table, []string) {
	var notes []string

	keep := make([]bool, table.Len())
	for i := range keep {
		keep[i] = true
	}

	for _, column := range constrainedColumns(spec) {
		allowed := spec.Constraints()[column]
		values, err := table.Labels(column)
		if err != nil {
			notes = append(notes, fmt.Sprintf("filter on %s matches no rows: %v", column, err))
			for i := range keep {
				keep[i] = false
			}
			continue
		}

		set := make(map[string]struct{}, len(allowed))
		for _, v := range allowed {
			set[v] = struct{}{}
		}
		for i, v := range values {
			if v == "" {
				keep[i] = false
				continue
			}
			if _, ok := set[v]; !ok {
				keep[i] = false
			}
		}
	}

	rows := make([]int, 0, len(keep))
	for i, k := range keep {
		if k {
			rows = append(rows, i)
		}
	}
	return table.Subset(rows), notes
}

// constrainedColumns lists the constrained columns in a fixed order so that
// notes come out deterministically
func constrainedColumns(spec dataset.FilterSpec) []string {
	constraints := spec.Constraints()
	out := make([]string, 0, len(constraints))
	for _, col := range []string{dataset.ColSexo, dataset.ColEstrato, dataset.ColNomofobiaFlag} {
		if _, ok := constraints[col]; ok {
			out = append(out, col)
		}
	}
	return out
}

// Options returns the distinct non-missing values of each filterable column, in
// first-seen order. Strata are sorted, numerically when every label is a number.
// Selecting every option is equivalent to an unconstrained spec.
func Options(table *dataset.Table) dataset.FilterSpec {
	opts := dataset.FilterSpec{
		Sexo:      distinct(table, dataset.ColSexo),
		Estrato:   distinct(table, dataset.ColEstrato),
		Nomofobia: distinct(table, dataset.ColNomofobiaFlag),
	}
	dataset.SortLabels(opts.Estrato)
	return opts
}

func distinct(table *dataset.Table, column string) []string {
	values, err := table.Labels(column)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
