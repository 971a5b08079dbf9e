package excel

import (
	"math"
	"strconv"
	"strings"
)

// CoerceNumeric parses a cell as a number. Cells that do not parse become NaN
// (missing); the row is kept.
func CoerceNumeric(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return math.NaN()
	}

	if strings.Contains(s, ",") {
		var ok bool
		if s, ok = decimalComma(s); !ok {
			return math.NaN()
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}

// decimalComma rewrites "3,5" or "-12,75" to use a decimal point. A comma is
// only read as a decimal separator when it is the sole separator and is
// followed by one or two digits; "1,234" and "1.234,5" are rejected.
func decimalComma(s string) (string, bool) {
	if strings.Contains(s, ".") || strings.Count(s, ",") != 1 {
		return "", false
	}
	i := strings.IndexByte(s, ',')
	frac := s[i+1:]
	if len(frac) < 1 || len(frac) > 2 {
		return "", false
	}
	for _, c := range frac {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return s[:i] + "." + frac, true
}
