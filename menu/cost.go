/*
cost.go - CostNormalizer: bill-of-materials export -> production cost per product

STEPS:
  1. Read the export (';' delimited, Latin-1)
  2. Bind headers: product column + cost column ("valor_custo" or "valor custo")
  3. Coerce each component cost; unparseable or negative cells DROP the row
  4. Canonicalize the product name (see names.go)
  5. Sum component costs per canonical name

  A dropped row contributes nothing to its product's total. Zero-filling
  would silently understate the cost of a recipe.

OUTPUT ORDER:
  Rows are sorted by canonical product name.
*/
package menu

import (
	"io"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/menu-engine/tabular"
)

// CostTable is the outcome of normalizing a cost export.
type CostTable struct {
	Rows    []CostRow
	Status  Status
	Err     error
	Skipped int // component rows dropped by coercion or an empty name
}

// CostNormalizer turns a bill-of-materials export into CostRows.
type CostNormalizer struct {
	schema tabular.Schema
	read   tabular.ReadOptions
	opts   Options
	logger *slog.Logger
}

// NewCostNormalizer creates a normalizer. A schema with no fields means
// CostSchema(); a nil logger means slog.Default().
func NewCostNormalizer(schema tabular.Schema, opts Options, logger *slog.Logger) *CostNormalizer {
	if len(schema.Fields) == 0 {
		schema = CostSchema()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CostNormalizer{
		schema: schema,
		read:   tabular.DefaultReadOptions(),
		opts:   opts,
		logger: logger,
	}
}

// NormalizeCost runs the default cost normalizer over data.
func NormalizeCost(data []byte, opts Options) CostTable {
	return NewCostNormalizer(tabular.Schema{}, opts, nil).NormalizeBytes(data)
}

// Normalize drains r and normalizes its contents.
func (n *CostNormalizer) Normalize(r io.Reader) CostTable {
	table, err := tabular.ReadFrom(r, n.read)
	if err != nil {
		return n.invalid(err)
	}
	return n.normalize(table)
}

// NormalizeBytes normalizes an export already held in memory.
func (n *CostNormalizer) NormalizeBytes(data []byte) CostTable {
	table, err := tabular.Read(data, n.read)
	if err != nil {
		return n.invalid(err)
	}
	return n.normalize(table)
}

func (n *CostNormalizer) invalid(err error) CostTable {
	n.logger.Warn("cost export rejected", "schema", n.schema.Name, "error", err)
	return CostTable{Status: StatusInvalid, Err: err}
}

func (n *CostNormalizer) normalize(table *tabular.Table) CostTable {
	binding, err := n.schema.Bind(table)
	if err != nil {
		return n.invalid(err)
	}

	totals := make(map[string]decimal.Decimal)
	result := CostTable{}

	for _, row := range table.Rows {
		raw, _ := binding.Value(row, FieldComponentCost)
		cost, ok := tabular.ParseDecimal(raw)
		if !ok || cost.IsNegative() {
			result.Skipped++
			continue
		}

		name, _ := binding.Value(row, FieldProductName)
		name = CanonicalName(name, n.opts.StripTrailingDots)
		if name == "" {
			result.Skipped++
			continue
		}

		totals[name] = totals[name].Add(cost)
	}

	result.Rows = make([]CostRow, 0, len(totals))
	for name, total := range totals {
		result.Rows = append(result.Rows, CostRow{ProductName: name, ProductionCost: total})
	}
	sort.Slice(result.Rows, func(i, j int) bool {
		return result.Rows[i].ProductName < result.Rows[j].ProductName
	})

	result.Status = StatusOK
	if len(result.Rows) == 0 {
		result.Status = StatusEmpty
	}

	n.logger.Debug("cost export normalized",
		"components", table.Len(),
		"products", len(result.Rows),
		"skipped", result.Skipped,
	)
	return result
}
