/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. The analysis itself is
  rendered by report.Document so that the API and `menuctl --format json`
  produce identical bodies.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Complex response wrappers

TYPES:
  Analysis:  report.Document (see report/report.go)
  Advice:    AdviceResponse
  Samples:   SampleDTO
  Schemas:   SchemasResponse (wraps factory.SchemaJSON)
  Errors:    ErrorResponse

SEE ALSO:
  - handlers.go: Uses these types
  - factory/schema.go: SchemaJSON type
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/menu-engine/factory"
	"github.com/warp/menu-engine/menu"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// AdviceResponse carries the advisor's answer for one run.
type AdviceResponse struct {
	RunID             string          `json:"run_id"`
	Advice            string          `json:"advice"`
	Excerpt           string          `json:"excerpt"`
	PopularityMean    decimal.Decimal `json:"popularity_mean"`
	ProfitabilityMean decimal.Decimal `json:"profitability_mean"`
}

// SampleDTO describes a built-in demo dataset.
type SampleDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Expect      string `json:"expect"` // status the sample is built to produce
}

// SchemasResponse lists the column schemas the analyzer is using.
type SchemasResponse struct {
	Sales   factory.SchemaJSON `json:"sales"`
	Costs   factory.SchemaJSON `json:"costs"`
	Options OptionsDTO         `json:"options"`
}

// OptionsDTO mirrors menu.Options.
type OptionsDTO struct {
	StripTrailingDots            bool `json:"strip_trailing_dots"`
	ExcludeNegativeProfitability bool `json:"exclude_negative_profitability"`
	AggregateDuplicateSales      bool `json:"aggregate_duplicate_sales"`
}

func toOptionsDTO(o menu.Options) OptionsDTO {
	return OptionsDTO{
		StripTrailingDots:            o.StripTrailingDots,
		ExcludeNegativeProfitability: o.ExcludeNegativeProfitability,
		AggregateDuplicateSales:      o.AggregateDuplicateSales,
	}
}

// HealthResponse is returned by GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Advisor bool   `json:"advisor"`
	Sales   bool   `json:"default_sales"`
	Costs   bool   `json:"default_costs"`
}

// ErrorResponse is returned for API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
