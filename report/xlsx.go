package report

import (
	"fmt"
	"io"

	"github.com/warp/menu-engine/menu"
	"github.com/xuri/excelize/v2"
)

const (
	matrixSheet  = "Matriz"
	summarySheet = "Resumo"
)

// WriteXLSX writes the matrix as a workbook. Numbers are stored as numbers so
// the sheet can be charted directly.
func WriteXLSX(w io.Writer, m menu.Matrix) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), matrixSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{"Produto", "Popularidade", "Preço de venda", "Custo de produção", "Receita total", "Lucratividade", "Classificação"}
	if err := f.SetSheetRow(matrixSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, it := range sorted(m) {
		row := []any{
			it.ProductName,
			it.Popularity.InexactFloat64(),
			it.SalePrice.Round(2).InexactFloat64(),
			it.ProductionCost.Round(2).InexactFloat64(),
			it.RevenueTotal.Round(2).InexactFloat64(),
			it.Profitability.Round(2).InexactFloat64(),
			it.Classification.Label(),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(matrixSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	counts := m.Counts()
	summary := [][]any{
		{"Popularidade média", m.PopularityMean.Round(4).InexactFloat64()},
		{"Lucratividade média", m.ProfitabilityMean.Round(4).InexactFloat64()},
		{"Total", len(m.Items)},
	}
	for _, c := range menu.Classifications() {
		summary = append(summary, []any{c.Label(), counts[c]})
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	return f.Write(w)
}
