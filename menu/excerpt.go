package menu

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/warp/menu-engine/tabular"
)

// DefaultExcerptSize is how many products per ranking go to the advisor.
const DefaultExcerptSize = 15

// Excerpt picks the top n items by profitability followed by the top n by
// popularity, each sorted descending, dropping products already picked.
func Excerpt(items []MenuItem, n int) []MenuItem {
	if n <= 0 {
		n = DefaultExcerptSize
	}

	seen := make(map[string]bool)
	var out []MenuItem
	for _, key := range []SortKey{ByProfitability, ByPopularity} {
		ranked := SortBy(items, key)
		if len(ranked) > n {
			ranked = ranked[:n]
		}
		for _, it := range ranked {
			k := excerptKey(it)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, it)
		}
	}
	return out
}

// excerptKey identifies a whole row. Decimals hold a pointer, so MenuItem
// values themselves are not usable as map keys.
func excerptKey(it MenuItem) string {
	return it.ProductName + "|" + it.Popularity.String() + "|" + it.Profitability.String()
}

var delimitedHeader = []string{
	"product_name",
	"popularity",
	"sale_price",
	"production_cost",
	"revenue_total",
	"profitability",
	"classification",
}

// WriteDelimited serializes items as ';' separated text with ',' as the
// decimal separator, the convention of the exports themselves.
func WriteDelimited(w io.Writer, items []MenuItem) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(delimitedHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, it := range items {
		record := []string{
			it.ProductName,
			tabular.FormatLocaleDecimal(it.Popularity),
			tabular.FormatLocaleDecimal(it.SalePrice.Round(2)),
			tabular.FormatLocaleDecimal(it.ProductionCost.Round(2)),
			tabular.FormatLocaleDecimal(it.RevenueTotal.Round(2)),
			tabular.FormatLocaleDecimal(it.Profitability.Round(2)),
			it.Classification.Label(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write %s: %w", it.ProductName, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
