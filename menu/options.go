package menu

import "fmt"

// Options are the policy switches that earlier versions of the exports
// tooling hard-coded differently. Each one applies to both sides of the join.
type Options struct {
	// StripTrailingDots removes trailing '.' from canonical product names
	// ("BISNAGA GARLIC." -> "BISNAGA GARLIC").
	StripTrailingDots bool

	// ExcludeNegativeProfitability drops products sold below cost before the
	// means are computed. With it on, the means only describe profitable items.
	ExcludeNegativeProfitability bool

	// AggregateDuplicateSales sums sales lines that canonicalize to the same
	// product before the join. With it off, every line joins separately.
	AggregateDuplicateSales bool
}

// DefaultOptions keeps every row and merges duplicate sales lines.
func DefaultOptions() Options {
	return Options{
		StripTrailingDots:            false,
		ExcludeNegativeProfitability: false,
		AggregateDuplicateSales:      true,
	}
}

// fingerprint identifies options that change normalized output. Used in
// cache keys.
func (o Options) fingerprint() string {
	return fmt.Sprintf("dots=%t,agg=%t", o.StripTrailingDots, o.AggregateDuplicateSales)
}
