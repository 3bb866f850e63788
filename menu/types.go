/*
Package menu implements menu engineering over point-of-sale exports.

PURPOSE:
  Two exports come out of the point-of-sale platform: a sales-by-product
  report and a bill-of-materials (cost) report. This package normalizes each
  one into a table keyed by canonical product name, inner-joins them, derives
  profitability and classifies every product into one of four quadrants.

PIPELINE:
  sales export ──> SalesNormalizer ──┐
                                     ├──> Classify ──> Matrix
  cost export  ──> CostNormalizer  ──┘

KEY CONCEPTS IN THIS FILE (types.go):
  - CostRow:        product -> total production cost
  - SalesRow:       product -> popularity, revenue, sale price
  - MenuItem:       joined, derived and classified row
  - Classification: Star, Workhorse, Puzzle, Dog

DESIGN PRINCIPLES:
  1. Pure: every stage is a function of its inputs, nothing is mutated in place
  2. Precision: all quantities are decimal.Decimal
  3. Non-fatal: structural problems surface as a Status, never a panic or
     an error crossing the normalizer boundary

SEE ALSO:
  - cost.go, sales.go: Normalizers
  - classify.go:       Join and quadrant classification
  - analyzer.go:       Cached end-to-end facade
*/
package menu

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// COST
// =============================================================================

// CostRow is the total production cost of one product: the sum of every
// recipe component that shares its canonical name.
type CostRow struct {
	ProductName    string
	ProductionCost decimal.Decimal
}

// =============================================================================
// SALES
// =============================================================================

// SalesRow is one product line of the sales report with its derived metrics.
type SalesRow struct {
	ProductName        string
	StoreSalesCount    decimal.Decimal
	DeliverySalesCount decimal.Decimal
	StoreRevenue       decimal.Decimal
	DeliveryRevenue    decimal.Decimal

	Popularity   decimal.Decimal // store + delivery units
	RevenueTotal decimal.Decimal // store + delivery revenue
	SalePrice    decimal.Decimal // revenue / units, 0 when nothing sold
}

// NewSalesRow builds a row and derives popularity, revenue and sale price.
func NewSalesRow(name string, storeCount, deliveryCount, storeRevenue, deliveryRevenue decimal.Decimal) SalesRow {
	r := SalesRow{
		ProductName:        name,
		StoreSalesCount:    storeCount,
		DeliverySalesCount: deliveryCount,
		StoreRevenue:       storeRevenue,
		DeliveryRevenue:    deliveryRevenue,
	}
	r.derive()
	return r
}

func (r *SalesRow) derive() {
	r.Popularity = r.StoreSalesCount.Add(r.DeliverySalesCount)
	r.RevenueTotal = r.StoreRevenue.Add(r.DeliveryRevenue)
	r.SalePrice = decimal.Zero
	if r.Popularity.IsPositive() {
		r.SalePrice = r.RevenueTotal.Div(r.Popularity)
	}
}

// merge folds another line for the same product into r.
func (r *SalesRow) merge(o SalesRow) {
	r.StoreSalesCount = r.StoreSalesCount.Add(o.StoreSalesCount)
	r.DeliverySalesCount = r.DeliverySalesCount.Add(o.DeliverySalesCount)
	r.StoreRevenue = r.StoreRevenue.Add(o.StoreRevenue)
	r.DeliveryRevenue = r.DeliveryRevenue.Add(o.DeliveryRevenue)
	r.derive()
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

type Classification string

const (
	Star      Classification = "star"      // popular and profitable
	Workhorse Classification = "workhorse" // popular, below-average margin
	Puzzle    Classification = "puzzle"    // profitable, rarely ordered
	Dog       Classification = "dog"       // neither
)

// Classifications lists the quadrants in display order.
func Classifications() []Classification {
	return []Classification{Star, Workhorse, Puzzle, Dog}
}

// Label is the dashboard label the restaurant owners know the quadrant by.
func (c Classification) Label() string {
	switch c {
	case Star:
		return "Estrela"
	case Workhorse:
		return "Burro de Carga"
	case Puzzle:
		return "Quebra-cabeça"
	case Dog:
		return "Cão"
	default:
		return string(c)
	}
}

// classify places one product using inclusive thresholds on the high side.
func classify(popularity, profitability, popularityMean, profitabilityMean decimal.Decimal) Classification {
	popular := popularity.GreaterThanOrEqual(popularityMean)
	profitable := profitability.GreaterThanOrEqual(profitabilityMean)
	switch {
	case popular && profitable:
		return Star
	case popular:
		return Workhorse
	case profitable:
		return Puzzle
	default:
		return Dog
	}
}

// =============================================================================
// MENU ITEM
// =============================================================================

// MenuItem is a product present in both exports, with its quadrant.
type MenuItem struct {
	ProductName    string
	Popularity     decimal.Decimal
	SalePrice      decimal.Decimal
	ProductionCost decimal.Decimal
	RevenueTotal   decimal.Decimal
	Profitability  decimal.Decimal // sale price - production cost, per unit
	Classification Classification
}
