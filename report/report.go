/*
Package report renders a classified menu for people and programs.

FORMATS:
  table  Human-readable grid (go-pretty), thresholds and counts below it
  csv    ';' delimited with ',' decimals, same as the advisor excerpt
  json   Document, also the body of POST /api/analyze
  xlsx   Workbook with a "Matriz" sheet and a "Resumo" sheet

  Items are sorted by profitability (descending) in every format. The matrix
  itself keeps join order; sorting is a presentation concern.
*/
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/shopspring/decimal"
	"github.com/warp/menu-engine/menu"
)

// Format names an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, csv, json or xlsx)", s)
	}
}

// Write renders an analysis in the given format.
func Write(w io.Writer, a menu.Analysis, f Format) error {
	switch f {
	case FormatCSV:
		return menu.WriteDelimited(w, sorted(a.Matrix))
	case FormatJSON:
		return WriteJSON(w, a)
	case FormatXLSX:
		return WriteXLSX(w, a.Matrix)
	default:
		return WriteTable(w, a.Matrix)
	}
}

func sorted(m menu.Matrix) []menu.MenuItem {
	return menu.SortBy(m.Items, menu.ByProfitability)
}

// =============================================================================
// JSON DOCUMENT
// =============================================================================

// Document is the JSON shape of an analysis.
type Document struct {
	RunID             string          `json:"run_id"`
	Status            menu.Status     `json:"status"`
	Message           string          `json:"message,omitempty"`
	Items             []ItemDTO       `json:"items"`
	PopularityMean    decimal.Decimal `json:"popularity_mean"`
	ProfitabilityMean decimal.Decimal `json:"profitability_mean"`
	Counts            map[string]int  `json:"counts"`
	Sales             SourceDTO       `json:"sales"`
	Costs             SourceDTO       `json:"costs"`
}

// ItemDTO is one classified product.
type ItemDTO struct {
	ProductName    string          `json:"product_name"`
	Popularity     decimal.Decimal `json:"popularity"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	ProductionCost decimal.Decimal `json:"production_cost"`
	RevenueTotal   decimal.Decimal `json:"revenue_total"`
	Profitability  decimal.Decimal `json:"profitability"`
	Classification string          `json:"classification"`
	Label          string          `json:"label"`
}

// SourceDTO summarizes how one export was normalized.
type SourceDTO struct {
	Status   menu.Status `json:"status"`
	Error    string      `json:"error,omitempty"`
	Products int         `json:"products"`
	Skipped  int         `json:"skipped,omitempty"`
	Zeroed   int         `json:"zeroed,omitempty"`
	Merged   int         `json:"merged,omitempty"`
}

// NewDocument converts an analysis into its JSON shape.
func NewDocument(a menu.Analysis) Document {
	doc := Document{
		RunID:             a.RunID,
		Status:            a.Status,
		Items:             make([]ItemDTO, 0, len(a.Matrix.Items)),
		PopularityMean:    a.Matrix.PopularityMean,
		ProfitabilityMean: a.Matrix.ProfitabilityMean,
		Counts:            Counts(a.Matrix),
		Sales: SourceDTO{
			Status:   a.Sales.Status,
			Error:    errString(a.Sales.Err),
			Products: len(a.Sales.Rows),
			Skipped:  a.Sales.Skipped,
			Zeroed:   a.Sales.Zeroed,
			Merged:   a.Sales.Merged,
		},
		Costs: SourceDTO{
			Status:   a.Costs.Status,
			Error:    errString(a.Costs.Err),
			Products: len(a.Costs.Rows),
			Skipped:  a.Costs.Skipped,
		},
	}
	if err := a.Err(); err != nil {
		doc.Message = err.Error()
	}
	for _, it := range sorted(a.Matrix) {
		doc.Items = append(doc.Items, ItemDTO{
			ProductName:    it.ProductName,
			Popularity:     it.Popularity,
			SalePrice:      it.SalePrice,
			ProductionCost: it.ProductionCost,
			RevenueTotal:   it.RevenueTotal,
			Profitability:  it.Profitability,
			Classification: string(it.Classification),
			Label:          it.Classification.Label(),
		})
	}
	return doc
}

// Counts returns per-quadrant counts keyed by quadrant name, plus "total".
func Counts(m menu.Matrix) map[string]int {
	out := map[string]int{"total": len(m.Items)}
	for c, n := range m.Counts() {
		out[string(c)] = n
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// WriteJSON writes the analysis as an indented Document.
func WriteJSON(w io.Writer, a menu.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(a))
}

// =============================================================================
// TABLE
// =============================================================================

// WriteTable renders the matrix as a text grid followed by its thresholds.
func WriteTable(w io.Writer, m menu.Matrix) error {
	if len(m.Items) == 0 {
		_, err := fmt.Fprintln(w, "(0 products)")
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Product", "Popularity", "Price", "Cost", "Profitability", "Quadrant"})

	for _, it := range sorted(m) {
		t.AppendRow(table.Row{
			it.ProductName,
			it.Popularity.String(),
			it.SalePrice.StringFixed(2),
			it.ProductionCost.StringFixed(2),
			it.Profitability.StringFixed(2),
			it.Classification.Label(),
		})
	}

	counts := m.Counts()
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d products", len(m.Items)),
		"mean " + m.PopularityMean.StringFixed(2),
		"", "",
		"mean " + m.ProfitabilityMean.StringFixed(2),
		fmt.Sprintf("%d/%d/%d/%d", counts[menu.Star], counts[menu.Workhorse], counts[menu.Puzzle], counts[menu.Dog]),
	})
	t.Render()
	return nil
}
