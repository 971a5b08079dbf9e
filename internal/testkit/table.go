package testkit

import (
	"gonomo/domain/dataset"
)

// SurveyTable builds a normalized table directly from respondents, bypassing
// file encoding. Labels are stored trimmed, as the loader would.
func SurveyTable(respondents []Respondent) *dataset.Table {
	n := len(respondents)
	t := dataset.NewTable("testkit", n)

	sexo := make([]string, n)
	estrato := make([]string, n)
	flag := make([]string, n)
	numeric := map[string][]float64{}
	for _, col := range dataset.SurveySchema().Numeric {
		numeric[col] = make([]float64, n)
	}

	for i, r := range respondents {
		sexo[i] = r.Sexo
		estrato[i] = r.Estrato
		flag[i] = r.Flag
		numeric[dataset.ColEdad][i] = r.Edad
		numeric[dataset.ColHorasUso][i] = r.HorasUso
		numeric[dataset.ColNomofobia][i] = r.Nomofobia
		numeric[dataset.ColAnsiedadSocial][i] = r.AnsiedadSocial
		numeric[dataset.ColAutoestima][i] = r.Autoestima
		numeric[dataset.ColMalUso][i] = r.MalUso
	}

	mustAdd(t.AddLabels(dataset.ColSexo, dataset.KindCategorical, sexo))
	mustAdd(t.AddLabels(dataset.ColEstrato, dataset.KindCategorical, estrato))
	mustAdd(t.AddLabels(dataset.ColNomofobiaFlag, dataset.KindCategorical, flag))
	for _, col := range dataset.SurveySchema().Numeric {
		mustAdd(t.AddNumeric(col, numeric[col]))
	}
	return t
}

// TableBuilder assembles small hand-written tables for tests
type TableBuilder struct {
	rows    int
	numeric map[string][]float64
	labels  map[string][]string
	order   []string
}

// NewTableBuilder starts a table with n rows
func NewTableBuilder(n int) *TableBuilder {
	return &TableBuilder{rows: n, numeric: map[string][]float64{}, labels: map[string][]string{}}
}

// Numeric adds a numeric column
func (b *TableBuilder) Numeric(name string, values ...float64) *TableBuilder {
	b.numeric[name] = values
	b.order = append(b.order, name)
	return b
}

// Labels adds a categorical column
func (b *TableBuilder) Labels(name string, values ...string) *TableBuilder {
	b.labels[name] = values
	b.order = append(b.order, name)
	return b
}

// Build returns the table; it panics on length mismatches
func (b *TableBuilder) Build() *dataset.Table {
	t := dataset.NewTable("builder", b.rows)
	for _, name := range b.order {
		if v, ok := b.numeric[name]; ok {
			mustAdd(t.AddNumeric(name, v))
			continue
		}
		mustAdd(t.AddLabels(name, dataset.KindCategorical, b.labels[name]))
	}
	schema := dataset.SurveySchema()
	for _, col := range schema.Declared() {
		if !t.Has(col) {
			t.MarkUnavailable(col)
		}
	}
	return t
}

func mustAdd(err error) {
	if err != nil {
		panic(err)
	}
}
