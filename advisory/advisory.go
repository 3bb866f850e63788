/*
Package advisory is the boundary to the natural-language advisor.

PURPOSE:
  The advisor (an external multi-agent LLM service) reads a delimited excerpt
  of the classified menu and answers with free text. This package defines
  that boundary and nothing more: it does not build prompts and it does not
  interpret the answer beyond making it safe to render.

KEY CONCEPTS:
  - Brief:       What the advisor receives (excerpt + thresholds + counts)
  - Advisor:     Anything that turns a Brief into text
  - HTTPAdvisor: Rate-limited JSON-over-HTTP client for a hosted advisor
  - Sanitize:    Escapes '$' so markdown renderers don't treat it as math

SEE ALSO:
  - menu/excerpt.go: How the excerpt is selected and serialized
  - api/handlers.go: POST /api/advice
*/
package advisory

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNotConfigured is returned when no advisor endpoint is set up.
var ErrNotConfigured = errors.New("advisor not configured")

// Brief is the advisor's entire view of a run.
type Brief struct {
	RunID             string          `json:"run_id"`
	Excerpt           string          `json:"excerpt"`
	PopularityMean    decimal.Decimal `json:"popularity_mean"`
	ProfitabilityMean decimal.Decimal `json:"profitability_mean"`
	Counts            map[string]int  `json:"counts"`
}

// Advisor produces recommendations for a brief.
type Advisor interface {
	Advise(ctx context.Context, brief Brief) (string, error)
}

// AdvisorFunc adapts a function to the Advisor interface.
type AdvisorFunc func(ctx context.Context, brief Brief) (string, error)

func (f AdvisorFunc) Advise(ctx context.Context, brief Brief) (string, error) {
	return f(ctx, brief)
}

// Sanitize escapes currency symbols that markdown renderers would read as
// math delimiters. Already escaped symbols are left alone.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '$' && (i == 0 || text[i-1] != '\\') {
			b.WriteByte('\\')
		}
		b.WriteByte(text[i])
	}
	return b.String()
}
