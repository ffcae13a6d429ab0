package extract

import (
	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
)

// Default bounds on pattern searches. Both exist to keep cost bounded on
// pathological, pattern-dense documents.
const (
	// DefaultMaxTransactions caps the tokenizer output per document.
	DefaultMaxTransactions = 200
	// DefaultLedgerWindow bounds the bytes scanned after a ledger marker.
	DefaultLedgerWindow = 8000
)

// Options carries the configurable search bounds shared by all extractors.
type Options struct {
	MaxTransactions int
	LedgerWindow    int
}

// withDefaults fills zero values with the package defaults.
func (o Options) withDefaults() Options {
	if o.MaxTransactions <= 0 {
		o.MaxTransactions = DefaultMaxTransactions
	}
	if o.LedgerWindow <= 0 {
		o.LedgerWindow = DefaultLedgerWindow
	}
	return o
}

// Extractor turns raw statement text into a StatementRecord. Extractors
// never fail outright: each field independently degrades to its sentinel.
// Category totals, bank id, and confidence are attached by the dispatcher,
// not the extractor.
type Extractor interface {
	// ID returns the dialect this extractor serves, or "generic".
	ID() string
	Extract(text string) *domain.StatementRecord
}

// Registry returns the closed set of dialect-specific extractors keyed by
// dialect id. The generic extractor is deliberately absent: it is the
// dispatcher's fallback, not a dialect.
func Registry(opts Options) map[string]Extractor {
	opts = opts.withDefaults()
	return map[string]Extractor{
		"axis":  NewAxis(opts),
		"hdfc":  NewHdfc(opts),
		"icici": NewIcici(opts),
		"idfc":  NewIdfc(opts),
	}
}
