package recommend

import "gonomo/domain/dataset"

// columnLabels maps survey columns to the wording used in findings and charts
var columnLabels = map[string]string{
	dataset.ColHorasUso:       "daily usage hours",
	dataset.ColNomofobia:      "nomophobia score",
	dataset.ColAnsiedadSocial: "social anxiety",
	dataset.ColAutoestima:     "self-esteem",
	dataset.ColMalUso:         "problematic use",
	dataset.ColEdad:           "age",
	dataset.ColSexo:           "sex",
	dataset.ColEstrato:        "socio-economic stratum",
	dataset.ColNomofobiaFlag:  "nomophobia (yes/no)",
}

// Label returns the reader-facing name of a column; unknown columns keep their name
func Label(column string) string {
	if l, ok := columnLabels[column]; ok {
		return l
	}
	return column
}
