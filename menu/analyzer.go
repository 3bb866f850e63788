/*
analyzer.go - End-to-end facade: two exports in, classified Matrix out

PURPOSE:
  Wires both normalizers, the classifier and the memo cache together so that
  the HTTP layer and the CLI run exactly the same pipeline.

STATUS PRECEDENCE:
  1. missing_input:   either export is invalid or has no usable rows
  2. no_overlap:      both fine, no product in common
  3. unclassifiable:  products matched but none survived the filters
  4. ok

CONCURRENCY:
  An Analyzer is safe for concurrent use. Runs share nothing but the cache,
  which is internally locked and hands out copies.

USAGE:
  a, err := menu.NewAnalyzer(menu.AnalyzerConfig{Options: menu.DefaultOptions()})
  result := a.Analyze(salesBytes, costBytes)
  if err := result.Err(); err != nil {
      // errors.Is(err, menu.ErrNoOverlap) ...
  }
*/
package menu

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/warp/menu-engine/tabular"
)

// AnalyzerConfig holds the dependencies of an Analyzer. Zero-valued schemas
// fall back to SalesSchema() and CostSchema().
type AnalyzerConfig struct {
	SalesSchema tabular.Schema
	CostSchema  tabular.Schema
	Options     Options
	CacheSize   int
	Logger      *slog.Logger
}

// Analyzer runs the full pipeline with memoized normalization.
type Analyzer struct {
	sales  *SalesNormalizer
	costs  *CostNormalizer
	opts   Options
	cache  *Cache
	logger *slog.Logger
}

// Analysis is one pipeline run.
type Analysis struct {
	RunID  string
	Status Status
	Matrix Matrix
	Sales  SalesTable
	Costs  CostTable
}

// Err returns nil on success, an *InputError (errors.Is ErrMissingInput) when
// an export could not be used, or the matrix sentinel otherwise.
func (a Analysis) Err() error {
	switch a.Status {
	case StatusOK:
		return nil
	case StatusMissingInput:
		if a.Sales.Status != StatusOK {
			return &InputError{Source: "sales", Status: a.Sales.Status, Err: a.Sales.Err}
		}
		return &InputError{Source: "costs", Status: a.Costs.Status, Err: a.Costs.Err}
	default:
		return statusErr(a.Status)
	}
}

// NewAnalyzer builds an Analyzer and its cache.
func NewAnalyzer(cfg AnalyzerConfig) (*Analyzer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cache, err := NewCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Analyzer{
		sales:  NewSalesNormalizer(cfg.SalesSchema, cfg.Options, logger),
		costs:  NewCostNormalizer(cfg.CostSchema, cfg.Options, logger),
		opts:   cfg.Options,
		cache:  cache,
		logger: logger,
	}, nil
}

// Options returns the policy switches this analyzer runs with.
func (a *Analyzer) Options() Options { return a.opts }

// Schemas returns the sales and cost schemas in use.
func (a *Analyzer) Schemas() (sales, costs tabular.Schema) {
	return a.sales.schema, a.costs.schema
}

// Cache exposes the memo cache, mostly for diagnostics.
func (a *Analyzer) Cache() *Cache { return a.cache }

// NormalizeSales normalizes a sales export, consulting the cache first.
func (a *Analyzer) NormalizeSales(data []byte) SalesTable {
	k := newCacheKey(data, a.sales.schema, a.opts)
	if t, ok := a.cache.getSales(k); ok {
		return t
	}
	t := a.sales.NormalizeBytes(data)
	a.cache.putSales(k, t)
	return t
}

// NormalizeCosts normalizes a cost export, consulting the cache first.
func (a *Analyzer) NormalizeCosts(data []byte) CostTable {
	k := newCacheKey(data, a.costs.schema, a.opts)
	if t, ok := a.cache.getCosts(k); ok {
		return t
	}
	t := a.costs.NormalizeBytes(data)
	a.cache.putCosts(k, t)
	return t
}

// Analyze runs both normalizers and the classifier.
func (a *Analyzer) Analyze(sales, costs []byte) Analysis {
	run := Analysis{
		RunID: uuid.NewString(),
		Sales: a.NormalizeSales(sales),
		Costs: a.NormalizeCosts(costs),
	}
	log := a.logger.With("run_id", run.RunID)

	if run.Sales.Status != StatusOK || run.Costs.Status != StatusOK {
		run.Status = StatusMissingInput
		log.Info("analysis stopped: input unusable",
			"sales_status", run.Sales.Status,
			"costs_status", run.Costs.Status,
		)
		return run
	}

	run.Matrix = Classify(run.Sales.Rows, run.Costs.Rows, a.opts)
	run.Status = run.Matrix.Status

	log.Info("analysis finished",
		"status", run.Status,
		"sales_products", len(run.Sales.Rows),
		"cost_products", len(run.Costs.Rows),
		"joined", run.Matrix.Joined,
		"classified", len(run.Matrix.Items),
		"popularity_mean", run.Matrix.PopularityMean.String(),
		"profitability_mean", run.Matrix.ProfitabilityMean.String(),
	)
	return run
}
