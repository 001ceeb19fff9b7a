package pipeline

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber parses a human-entered numeric cell. The tabular store
// round-trips numbers through display strings, so thousands separators must
// be tolerated ("6,000" -> 6000). Blank or unparseable cells coerce to zero.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// FormatNumber renders a float the way the import files expect: no exponent,
// no trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
