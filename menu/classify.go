/*
classify.go - MenuClassifier: join, derive, threshold, label

ALGORITHM:
  1. Inner join sales and costs on canonical product name. Products missing
     from either side are dropped silently.
  2. Keep rows with popularity > 0.
  3. profitability = sale price - production cost.
  4. Optionally drop negative profitability (Options.ExcludeNegativeProfitability).
  5. Means of popularity and profitability over the rows that survived 2-4.
  6. Quadrant per row, thresholds inclusive on the high side:

                      profitability >= mean    profitability < mean
     popularity >= mean       Star                   Workhorse
     popularity <  mean       Puzzle                 Dog

  Means are recomputed on every call from the filtered set. Rows removed by
  a filter never influence them.

ORDERING:
  Items follow the order of the sales table. Callers that need a stable
  presentation order sort explicitly (see SortBy).
*/
package menu

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Matrix is the classified menu plus the thresholds used to classify it.
type Matrix struct {
	Items             []MenuItem
	PopularityMean    decimal.Decimal
	ProfitabilityMean decimal.Decimal
	Status            Status
	Joined            int // rows produced by the join, before filtering
}

// Err returns ErrNoOverlap or ErrUnclassifiable for the matching status.
func (m Matrix) Err() error { return statusErr(m.Status) }

// Counts returns the number of items per quadrant. Every quadrant is present.
func (m Matrix) Counts() map[Classification]int {
	counts := make(map[Classification]int, 4)
	for _, c := range Classifications() {
		counts[c] = 0
	}
	for _, it := range m.Items {
		counts[it.Classification]++
	}
	return counts
}

// Classify joins sales with costs and assigns every joined product a quadrant.
func Classify(sales []SalesRow, costs []CostRow, opts Options) Matrix {
	costByName := make(map[string]decimal.Decimal, len(costs))
	for _, c := range costs {
		costByName[c.ProductName] = c.ProductionCost
	}

	m := Matrix{}
	items := make([]MenuItem, 0, len(sales))

	for _, s := range sales {
		cost, ok := costByName[s.ProductName]
		if !ok {
			continue
		}
		m.Joined++

		if !s.Popularity.IsPositive() {
			continue
		}

		profit := s.SalePrice.Sub(cost)
		if opts.ExcludeNegativeProfitability && profit.IsNegative() {
			continue
		}

		items = append(items, MenuItem{
			ProductName:    s.ProductName,
			Popularity:     s.Popularity,
			SalePrice:      s.SalePrice,
			ProductionCost: cost,
			RevenueTotal:   s.RevenueTotal,
			Profitability:  profit,
		})
	}

	switch {
	case m.Joined == 0:
		m.Status = StatusNoOverlap
		return m
	case len(items) == 0:
		m.Status = StatusUnclassifiable
		return m
	}

	m.PopularityMean, m.ProfitabilityMean = means(items)
	for i := range items {
		items[i].Classification = classify(
			items[i].Popularity, items[i].Profitability,
			m.PopularityMean, m.ProfitabilityMean,
		)
	}

	m.Items = items
	m.Status = StatusOK
	return m
}

func means(items []MenuItem) (popularity, profitability decimal.Decimal) {
	n := decimal.NewFromInt(int64(len(items)))
	for _, it := range items {
		popularity = popularity.Add(it.Popularity)
		profitability = profitability.Add(it.Profitability)
	}
	return popularity.Div(n), profitability.Div(n)
}

// =============================================================================
// ORDERING
// =============================================================================

// SortKey selects the metric used by SortBy.
type SortKey string

const (
	ByProfitability SortKey = "profitability"
	ByPopularity    SortKey = "popularity"
	ByName          SortKey = "name"
)

// SortBy returns a copy of items ordered by key, metrics descending and names
// ascending. Ties keep their original relative order.
func SortBy(items []MenuItem, key SortKey) []MenuItem {
	out := make([]MenuItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		switch key {
		case ByPopularity:
			return out[i].Popularity.GreaterThan(out[j].Popularity)
		case ByName:
			return out[i].ProductName < out[j].ProductName
		default:
			return out[i].Profitability.GreaterThan(out[j].Profitability)
		}
	})
	return out
}
