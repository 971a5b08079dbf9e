package dataset

import (
	"fmt"
	"math"
	"strconv"

	"gonomo/domain/core"
)

// Column holds one column of the observation table.
// Numeric cells use NaN for missing; label cells use "" for missing.
type Column struct {
	Name    string
	Kind    ColumnKind
	Numbers []float64
	Labels  []string
}

// Table is the normalized, immutable observation table every computation reads.
// Tables are built once by the loader (or by Subset) and never modified afterwards.
type Table struct {
	source      string
	rows        int
	columns     []*Column
	index       map[string]int
	unavailable []string
}

// NewTable creates an empty table expecting the given number of rows
func NewTable(source string, rows int) *Table {
	return &Table{
		source: source,
		rows:   rows,
		index:  make(map[string]int),
	}
}

// AddNumeric appends a numeric column
func (t *Table) AddNumeric(name string, values []float64) error {
	if len(values) != t.rows {
		return fmt.Errorf("column %s has %d values, expected %d", name, len(values), t.rows)
	}
	return t.add(&Column{Name: name, Kind: KindNumeric, Numbers: values})
}

// AddLabels appends a categorical or free-text column
func (t *Table) AddLabels(name string, kind ColumnKind, values []string) error {
	if kind == KindNumeric {
		return fmt.Errorf("column %s: labels cannot be stored as %s", name, kind)
	}
	if len(values) != t.rows {
		return fmt.Errorf("column %s has %d values, expected %d", name, len(values), t.rows)
	}
	return t.add(&Column{Name: name, Kind: kind, Labels: values})
}

func (t *Table) add(col *Column) error {
	if _, exists := t.index[col.Name]; exists {
		return fmt.Errorf("duplicate column %s", col.Name)
	}
	t.index[col.Name] = len(t.columns)
	t.columns = append(t.columns, col)
	return nil
}

// MarkUnavailable records a declared column that the source did not provide
func (t *Table) MarkUnavailable(name string) {
	for _, n := range t.unavailable {
		if n == name {
			return
		}
	}
	t.unavailable = append(t.unavailable, name)
}

// Source returns the identifier of the source the table was read from
func (t *Table) Source() string {
	return t.source
}

// Len returns the number of rows
func (t *Table) Len() int {
	return t.rows
}

// Columns returns column names in source order
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Unavailable returns declared columns absent from the source
func (t *Table) Unavailable() []string {
	return append([]string(nil), t.unavailable...)
}

// Has reports whether the column is present
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Kind returns the kind of a present column
func (t *Table) Kind(name string) (ColumnKind, bool) {
	i, ok := t.index[name]
	if !ok {
		return "", false
	}
	return t.columns[i].Kind, true
}

// Numeric returns a copy of a numeric column
func (t *Table) Numeric(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, core.NewMissingColumnError(name)
	}
	col := t.columns[i]
	if col.Kind != KindNumeric {
		return nil, fmt.Errorf("column %s is %s, not numeric", name, col.Kind)
	}
	return append([]float64(nil), col.Numbers...), nil
}

// Labels returns a copy of a categorical or text column
func (t *Table) Labels(name string) ([]string, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, core.NewMissingColumnError(name)
	}
	col := t.columns[i]
	if col.Kind == KindNumeric {
		return nil, fmt.Errorf("column %s is numeric, not categorical", name)
	}
	return append([]string(nil), col.Labels...), nil
}

// Cell renders a single cell as text; missing cells render as ""
func (t *Table) Cell(name string, row int) string {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= t.rows {
		return ""
	}
	col := t.columns[i]
	if col.Kind == KindNumeric {
		v := col.Numbers[row]
		if math.IsNaN(v) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return col.Labels[row]
}

// Subset returns a new table containing the given rows, in the given order.
// The receiver is not modified.
func (t *Table) Subset(rows []int) *Table {
	out := NewTable(t.source, len(rows))
	out.unavailable = t.Unavailable()
	for _, col := range t.columns {
		c := &Column{Name: col.Name, Kind: col.Kind}
		if col.Kind == KindNumeric {
			c.Numbers = make([]float64, len(rows))
			for j, r := range rows {
				c.Numbers[j] = col.Numbers[r]
			}
		} else {
			c.Labels = make([]string, len(rows))
			for j, r := range rows {
				c.Labels[j] = col.Labels[r]
			}
		}
		out.index[c.Name] = len(out.columns)
		out.columns = append(out.columns, c)
	}
	return out
}
