package tabular

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal coerces a cell with '.' as the decimal point. Surrounding
// whitespace is ignored. The second result is false when the cell is empty
// or not a number; what that means is the caller's policy.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseLocaleDecimal coerces a cell written with '.' as the thousands
// separator and ',' as the decimal separator ("1.234,50" -> 1234.50).
func ParseLocaleDecimal(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return ParseDecimal(s)
}

// FormatLocaleDecimal is the inverse of ParseLocaleDecimal without grouping:
// the decimal point is written as ','.
func FormatLocaleDecimal(d decimal.Decimal) string {
	return strings.Replace(d.String(), ".", ",", 1)
}

// LocaleDecimal coerces a measure cell of t. Delimited exports use the
// locale rule of ParseLocaleDecimal. Workbook numeric cells are stored with
// '.' as the decimal point and parse as-is; text cells in a workbook fall
// back to the locale rule.
func (t *Table) LocaleDecimal(s string) (decimal.Decimal, bool) {
	if t.Source == SourceWorkbook {
		if d, ok := ParseDecimal(s); ok {
			return d, true
		}
	}
	return ParseLocaleDecimal(s)
}
