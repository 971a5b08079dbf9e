package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// DefaultAlpha is the significance level every decision uses unless configured otherwise
const DefaultAlpha = 0.05

// ============================================================================
// PRIMITIVES
// ============================================================================

// Number is a statistic that may be undefined. NaN means undefined and
// serializes as JSON null so that undefined is never mistaken for zero.
type Number float64

// Undefined returns the undefined Number
func Undefined() Number {
	return Number(math.NaN())
}

// Defined reports whether the number carries a finite value
func (n Number) Defined() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Float returns the underlying value
func (n Number) Float() float64 {
	return float64(n)
}

// Format renders the number with the given precision, or "n/a"
func (n Number) Format(prec int) string {
	if !n.Defined() {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", prec, float64(n))
}

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(n))
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		*n = Undefined()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Availability tells whether a computation ran. Unavailable results carry the reason
// and must not be read as statistics.
type Availability struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Ok marks a computation as available
func Ok() Availability {
	return Availability{Available: true}
}

// Unavailable marks a computation as skipped for the given reason
func Unavailable(err error) Availability {
	if err == nil {
		return Availability{Reason: "unavailable"}
	}
	return Availability{Reason: err.Error()}
}

// TestKind names a statistical procedure
type TestKind string

const (
	TestSpearman      TestKind = "spearman"
	TestMannWhitney   TestKind = "mann_whitney_u"
	TestKruskalWallis TestKind = "kruskal_wallis"
	TestDunn          TestKind = "dunn"
)

// Correction is the multiple-comparison correction applied to post-hoc p-values
type Correction string

const (
	CorrectionBonferroni Correction = "bonferroni"
	CorrectionNone       Correction = "none"
)

// ParseCorrection validates a correction name; "" selects bonferroni
func ParseCorrection(s string) (Correction, error) {
	switch Correction(strings.ToLower(strings.TrimSpace(s))) {
	case "", CorrectionBonferroni:
		return CorrectionBonferroni, nil
	case CorrectionNone:
		return CorrectionNone, nil
	}
	return "", fmt.Errorf("unknown correction %q (want bonferroni or none)", s)
}

// ============================================================================
// RESULT RECORDS
// ============================================================================

// GroupSize is the number of usable observations in one group
type GroupSize struct {
	Group string `json:"group"`
	N     int    `json:"n"`
}

// TestResult is the unit record of one hypothesis test
type TestResult struct {
	Test          TestKind    `json:"test"`
	Metric        string      `json:"metric"`
	GroupBy       string      `json:"group_by"`
	StatisticName string      `json:"statistic_name"`
	Statistic     Number      `json:"statistic"`
	PValue        Number      `json:"p_value"`
	Groups        []GroupSize `json:"groups,omitempty"`
	Alpha         float64     `json:"alpha"`
	Significant   bool        `json:"significant"`
	Availability
}

// Decide sets Significant from the p-value and alpha
func (r *TestResult) Decide() {
	r.Significant = r.Available && r.PValue.Defined() && r.PValue.Float() < r.Alpha
}

// Correlation is one Spearman association between a primary and another variable
type Correlation struct {
	Primary     string  `json:"primary"`
	Variable    string  `json:"variable"`
	Rho         Number  `json:"rho"`
	PValue      Number  `json:"p_value"`
	N           int     `json:"n"`
	Method      string  `json:"method,omitempty"`
	Alpha       float64 `json:"alpha"`
	Significant bool    `json:"significant"`
	Availability
}

// Direction returns "positive", "negative" or "none" from the sign of rho
func (c Correlation) Direction() string {
	switch {
	case !c.Rho.Defined() || c.Rho == 0:
		return "none"
	case c.Rho > 0:
		return "positive"
	default:
		return "negative"
	}
}

// Interpretation renders the direction and significance, e.g. "positive, significant"
func (c Correlation) Interpretation() string {
	if !c.Available {
		return "insufficient data"
	}
	sig := "not significant"
	if c.Significant {
		sig = "significant"
	}
	return c.Direction() + ", " + sig
}

// CorrelationMatrix is a square symmetric Spearman matrix.
// Undefined cells are NaN; the diagonal is 1.
type CorrelationMatrix struct {
	Variables []string   `json:"variables"`
	Values    [][]Number `json:"values"`
	N         [][]int    `json:"n"`
}

// At returns the coefficient for a pair of variables
func (m CorrelationMatrix) At(a, b string) (Number, bool) {
	i, j := m.indexOf(a), m.indexOf(b)
	if i < 0 || j < 0 {
		return Undefined(), false
	}
	return m.Values[i][j], true
}

func (m CorrelationMatrix) indexOf(v string) int {
	for i, name := range m.Variables {
		if name == v {
			return i
		}
	}
	return -1
}

// PairComparison is one post-hoc comparison between two groups
type PairComparison struct {
	GroupA      string `json:"group_a"`
	GroupB      string `json:"group_b"`
	Z           Number `json:"z"`
	PRaw        Number `json:"p_raw"`
	PAdjusted   Number `json:"p_adjusted"`
	Significant bool   `json:"significant"`
	Availability
}

// PosthocResult holds Dunn's pairwise comparisons. Matrix holds adjusted
// p-values indexed like Groups, with 1 on the diagonal and NaN for omitted pairs.
type PosthocResult struct {
	Test       TestKind         `json:"test"`
	Metric     string           `json:"metric"`
	GroupBy    string           `json:"group_by"`
	Correction Correction       `json:"correction"`
	Groups     []string         `json:"groups"`
	Matrix     [][]Number       `json:"matrix"`
	Pairs      []PairComparison `json:"pairs"`
	Alpha      float64          `json:"alpha"`
	Availability
}

// Adjusted returns the adjusted p-value for a pair of groups
func (p PosthocResult) Adjusted(a, b string) (Number, bool) {
	i, j := -1, -1
	for k, g := range p.Groups {
		if g == a {
			i = k
		}
		if g == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return Undefined(), false
	}
	return p.Matrix[i][j], true
}

// NumericSummary is the five-number-plus-mean summary of one numeric column
type NumericSummary struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Number `json:"mean"`
	Std    Number `json:"std"`
	Min    Number `json:"min"`
	Q1     Number `json:"q1"`
	Median Number `json:"median"`
	Q3     Number `json:"q3"`
	Max    Number `json:"max"`
	Availability
}

// Proportion is the share of a label among non-missing values of a column
type Proportion struct {
	Column  string  `json:"column"`
	Label   string  `json:"label"`
	Matches int     `json:"matches"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
	Availability
}

// KPIs are the headline indicators shown above every other result
type KPIs struct {
	Participants  int     `json:"participants"`
	MeanHorasUso  Number  `json:"mean_horas_uso"`
	MeanNomofobia Number  `json:"mean_nomofobia"`
	PercentYes    float64 `json:"percent_yes"`
}

// Descriptive is the output of the descriptive summarizer
type Descriptive struct {
	Rows        int              `json:"rows"`
	Columns     []NumericSummary `json:"columns"`
	Proportions []Proportion     `json:"proportions"`
	KPIs        KPIs             `json:"kpis"`
}

// Summary returns the summary of one column
func (d Descriptive) Summary(column string) (NumericSummary, bool) {
	for _, s := range d.Columns {
		if s.Column == column {
			return s, true
		}
	}
	return NumericSummary{}, false
}

// GroupComparison bundles the two-group, multi-group and post-hoc results
type GroupComparison struct {
	MannWhitney   TestResult    `json:"mann_whitney"`
	KruskalWallis TestResult    `json:"kruskal_wallis"`
	Posthoc       PosthocResult `json:"posthoc"`
}
