/*
sales.go - SalesNormalizer: sales-by-product export -> popularity and price

STEPS:
  1. Read the export (';' delimited, Latin-1)
  2. Bind headers: "PRODUTO DE VENDA" plus four measure columns; UNIDADE
     is ignored when present
  3. Canonicalize the product name exactly like the cost side (names.go)
  4. Coerce measures with the export's locale ('.' thousands, ',' decimal);
     workbook numeric cells are read as stored. Unparseable cells and negative unit counts become ZERO: no sales is a
     legitimate value on this side
  5. Optionally merge lines sharing a canonical name (Options.AggregateDuplicateSales)
  6. Derive popularity, revenue total and sale price (0 when nothing sold)

OUTPUT ORDER:
  First appearance in the export. Merged lines keep the position of the
  first line for that product.
*/
package menu

import (
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/warp/menu-engine/tabular"
)

// SalesTable is the outcome of normalizing a sales export.
type SalesTable struct {
	Rows    []SalesRow
	Status  Status
	Err     error
	Zeroed  int      // measure cells coerced to zero
	Merged  int      // lines folded into an earlier line for the same product
	Skipped int      // lines with an empty product name
	Ignored []string // headers dropped by the schema (e.g. UNIDADE)
}

// SalesNormalizer turns a sales export into SalesRows.
type SalesNormalizer struct {
	schema tabular.Schema
	read   tabular.ReadOptions
	opts   Options
	logger *slog.Logger
}

// NewSalesNormalizer creates a normalizer. A schema with no fields means
// SalesSchema(); a nil logger means slog.Default().
func NewSalesNormalizer(schema tabular.Schema, opts Options, logger *slog.Logger) *SalesNormalizer {
	if len(schema.Fields) == 0 {
		schema = SalesSchema()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SalesNormalizer{
		schema: schema,
		read:   tabular.DefaultReadOptions(),
		opts:   opts,
		logger: logger,
	}
}

// NormalizeSales runs the default sales normalizer over data.
func NormalizeSales(data []byte, opts Options) SalesTable {
	return NewSalesNormalizer(tabular.Schema{}, opts, nil).NormalizeBytes(data)
}

// Normalize drains r and normalizes its contents.
func (n *SalesNormalizer) Normalize(r io.Reader) SalesTable {
	table, err := tabular.ReadFrom(r, n.read)
	if err != nil {
		return n.invalid(err)
	}
	return n.normalize(table)
}

// NormalizeBytes normalizes an export already held in memory.
func (n *SalesNormalizer) NormalizeBytes(data []byte) SalesTable {
	table, err := tabular.Read(data, n.read)
	if err != nil {
		return n.invalid(err)
	}
	return n.normalize(table)
}

func (n *SalesNormalizer) invalid(err error) SalesTable {
	n.logger.Warn("sales export rejected", "schema", n.schema.Name, "error", err)
	return SalesTable{Status: StatusInvalid, Err: err}
}

func (n *SalesNormalizer) normalize(table *tabular.Table) SalesTable {
	binding, err := n.schema.Bind(table)
	if err != nil {
		return n.invalid(err)
	}

	result := SalesTable{Ignored: binding.Ignored}
	index := make(map[string]int)

	measure := func(row []string, field string, count bool) decimal.Decimal {
		raw, _ := binding.Value(row, field)
		v, ok := table.LocaleDecimal(raw)
		if !ok || (count && v.IsNegative()) {
			result.Zeroed++
			return decimal.Zero
		}
		return v
	}

	for _, row := range table.Rows {
		name, _ := binding.Value(row, FieldProductName)
		name = CanonicalName(name, n.opts.StripTrailingDots)
		if name == "" {
			result.Skipped++
			continue
		}

		line := NewSalesRow(name,
			measure(row, FieldStoreSalesCount, true),
			measure(row, FieldDeliverySalesCount, true),
			measure(row, FieldStoreRevenue, false),
			measure(row, FieldDeliveryRevenue, false),
		)

		if n.opts.AggregateDuplicateSales {
			if i, seen := index[name]; seen {
				result.Rows[i].merge(line)
				result.Merged++
				continue
			}
			index[name] = len(result.Rows)
		}
		result.Rows = append(result.Rows, line)
	}

	result.Status = StatusOK
	if len(result.Rows) == 0 {
		result.Status = StatusEmpty
	}

	n.logger.Debug("sales export normalized",
		"lines", table.Len(),
		"products", len(result.Rows),
		"zeroed", result.Zeroed,
		"merged", result.Merged,
	)
	return result
}
