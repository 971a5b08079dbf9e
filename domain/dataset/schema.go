package dataset

// Survey column names as they appear (after trimming) in the source sheet.
const (
	ColSexo          = "Sexo"
	ColEstrato       = "Estrato"
	ColNomofobiaFlag = "Nomofobia?"

	ColHorasUso       = "Horas_Uso"
	ColNomofobia      = "Nomofobia"
	ColAnsiedadSocial = "Ansiedad_social"
	ColAutoestima     = "Autoestima"
	ColEdad           = "Edad"
	ColMalUso         = "Mal_uso"
)

// Labels of the binary nomophobia flag.
const (
	LabelYes = "Sí"
	LabelNo  = "No"
)

// ColumnKind describes how a column's cells are coerced on load
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
	KindText        ColumnKind = "text"
)

// Schema declares the columns the pipeline expects
type Schema struct {
	Numeric     []string `json:"numeric" yaml:"numeric"`
	Categorical []string `json:"categorical" yaml:"categorical"`
}

// SurveySchema returns the nomophobia study schema
func SurveySchema() Schema {
	return Schema{
		Numeric: []string{
			ColEdad,
			ColHorasUso,
			ColNomofobia,
			ColAnsiedadSocial,
			ColAutoestima,
			ColMalUso,
		},
		Categorical: []string{
			ColSexo,
			ColEstrato,
			ColNomofobiaFlag,
		},
	}
}

// KindOf returns the declared kind of a column, or false when undeclared
func (s Schema) KindOf(name string) (ColumnKind, bool) {
	for _, c := range s.Numeric {
		if c == name {
			return KindNumeric, true
		}
	}
	for _, c := range s.Categorical {
		if c == name {
			return KindCategorical, true
		}
	}
	return "", false
}

// Declared returns every declared column, numeric first
func (s Schema) Declared() []string {
	out := make([]string, 0, len(s.Numeric)+len(s.Categorical))
	out = append(out, s.Numeric...)
	return append(out, s.Categorical...)
}
