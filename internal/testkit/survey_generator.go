package testkit

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"github.com/xuri/excelize/v2"

	"gonomo/domain/dataset"
)

// SurveyGeneratorConfig configures the synthetic nomophobia survey
type SurveyGeneratorConfig struct {
	Respondents       int      `json:"respondents" yaml:"respondents"`
	YesShare          float64  `json:"yes_share" yaml:"yes_share"`                   // exact share of "Sí" flags
	Strata            []string `json:"strata" yaml:"strata"`                         // Estrato labels, assigned round-robin
	MissingAutoestima float64  `json:"missing_autoestima" yaml:"missing_autoestima"` // exact share of blank Autoestima cells
	StratumShift      float64  `json:"stratum_shift" yaml:"stratum_shift"`           // Nomofobia points added per stratum index
	Seed              int64    `json:"seed" yaml:"seed"`
}

// DefaultSurveyConfig returns defaults resembling the study sample
func DefaultSurveyConfig() SurveyGeneratorConfig {
	return SurveyGeneratorConfig{
		Respondents: 120,
		YesShare:    0.6,
		Strata:      []string{"1", "2", "3", "4", "5", "6"},
		Seed:        42,
	}
}

// Respondent is one generated survey row. NaN marks a blank numeric cell.
type Respondent struct {
	Sexo           string
	Estrato        string
	Flag           string
	Edad           float64
	HorasUso       float64
	Nomofobia      float64
	AnsiedadSocial float64
	Autoestima     float64
	MalUso         float64
}

// SurveyGenerator generates deterministic survey samples
type SurveyGenerator struct {
	config SurveyGeneratorConfig
	rng    *rand.Rand
}

// NewSurveyGenerator creates a new survey generator
func NewSurveyGenerator(config SurveyGeneratorConfig) *SurveyGenerator {
	if len(config.Strata) == 0 {
		config.Strata = DefaultSurveyConfig().Strata
	}
	return &SurveyGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate produces the configured number of respondents
func (g *SurveyGenerator) Generate() []Respondent {
	n := g.config.Respondents
	yes := g.pickExactly(n, g.config.YesShare)
	missing := g.pickExactly(n, g.config.MissingAutoestima)

	out := make([]Respondent, n)
	for i := 0; i < n; i++ {
		stratumIdx := i % len(g.config.Strata)
		hours := math.Round((1+g.rng.Float64()*9)*10) / 10
		nomo := clamp(20+hours*9+g.rng.NormFloat64()*8+float64(stratumIdx)*g.config.StratumShift, 20, 140)
		anxiety := clamp(10+nomo*0.3+g.rng.NormFloat64()*6, 0, 80)
		esteem := clamp(40-nomo*0.12+g.rng.NormFloat64()*3, 10, 40)
		misuse := clamp(5+hours*2.5+g.rng.NormFloat64()*4, 0, 50)

		sexo := "Femenino"
		if g.rng.Intn(2) == 1 {
			sexo = "Masculino"
		}
		flag := dataset.LabelNo
		if yes[i] {
			flag = dataset.LabelYes
		}
		if missing[i] {
			esteem = math.NaN()
		}

		out[i] = Respondent{
			Sexo:           sexo,
			Estrato:        g.config.Strata[stratumIdx],
			Flag:           flag,
			Edad:           float64(18 + g.rng.Intn(8)),
			HorasUso:       hours,
			Nomofobia:      math.Round(nomo),
			AnsiedadSocial: math.Round(anxiety),
			Autoestima:     roundOrNaN(esteem),
			MalUso:         math.Round(misuse),
		}
	}
	return out
}

// pickExactly marks round(share*n) random positions
func (g *SurveyGenerator) pickExactly(n int, share float64) []bool {
	marked := make([]bool, n)
	count := int(math.Round(share * float64(n)))
	for _, idx := range g.rng.Perm(n)[:count] {
		marked[idx] = true
	}
	return marked
}

// SurveyHeaders returns the sheet header row, with the padding the real
// spreadsheet carries on some headers
func SurveyHeaders() []string {
	return []string{
		" Sexo",
		"Edad",
		"Estrato ",
		"Horas_Uso",
		"Nomofobia",
		"Nomofobia? ",
		"Ansiedad_social",
		"Autoestima",
		"Mal_uso",
	}
}

// Cells renders a respondent in SurveyHeaders order; blank cells are nil
func (r Respondent) Cells() []interface{} {
	return []interface{}{
		" " + r.Sexo + " ",
		numberOrNil(r.Edad),
		r.Estrato,
		numberOrNil(r.HorasUso),
		numberOrNil(r.Nomofobia),
		r.Flag + " ",
		numberOrNil(r.AnsiedadSocial),
		numberOrNil(r.Autoestima),
		numberOrNil(r.MalUso),
	}
}

// Strings renders a respondent as CSV fields
func (r Respondent) Strings() []string {
	cells := r.Cells()
	out := make([]string, len(cells))
	for i, c := range cells {
		switch v := c.(type) {
		case nil:
			out[i] = ""
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// WriteXLSX saves respondents to an Excel workbook with a single sheet
func WriteXLSX(path string, respondents []Respondent) error {
	f, err := buildWorkbook(SurveyHeaders(), rowsOf(respondents))
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// XLSXBytes encodes respondents as an in-memory workbook
func XLSXBytes(respondents []Respondent) ([]byte, error) {
	return WorkbookBytes(SurveyHeaders(), rowsOf(respondents))
}

// WorkbookBytes encodes arbitrary headers and rows as an in-memory workbook
func WorkbookBytes(headers []string, rows [][]interface{}) ([]byte, error) {
	f, err := buildWorkbook(headers, rows)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteCSV writes respondents as CSV with a header row
func WriteCSV(w io.Writer, respondents []Respondent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SurveyHeaders()); err != nil {
		return err
	}
	for _, r := range respondents {
		if err := cw.Write(r.Strings()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVBytes encodes respondents as CSV
func CSVBytes(respondents []Respondent) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, respondents); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildWorkbook(headers []string, rows [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sheet1"

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			f.Close()
			return nil, err
		}
	}

	for r, row := range rows {
		for c, v := range row {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				f.Close()
				return nil, err
			}
		}
	}
	return f, nil
}

func rowsOf(respondents []Respondent) [][]interface{} {
	rows := make([][]interface{}, len(respondents))
	for i, r := range respondents {
		rows[i] = r.Cells()
	}
	return rows
}

func numberOrNil(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func roundOrNaN(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
