// Package dialect holds the registry of bank-specific text signatures and
// the classifier that scores statement text against them.
package dialect

import (
	"regexp"
	"strings"
)

// MatchWeight is the fixed confidence contribution of one signature match.
const MatchWeight = 10

// Dialect is a bank's text-layout signature set. The signatures are
// alternatives: occurrences are counted left to right without overlap, so
// a phrase containing two signatures still scores once. Dialects are
// created at process start and never mutated.
type Dialect struct {
	ID         string
	Signatures []string

	pattern *regexp.Regexp
}

func newDialect(id string, signatures ...string) Dialect {
	return Dialect{
		ID:         id,
		Signatures: signatures,
		pattern:    regexp.MustCompile("(?i)" + strings.Join(signatures, "|")),
	}
}

// Score counts signature occurrences in text and applies the match weight.
func (d Dialect) Score(text string) int {
	return len(d.pattern.FindAllStringIndex(text, -1)) * MatchWeight
}

// Registry is an ordered set of dialects. The slice order is the explicit
// tie-break priority: when two dialects score equally, the earlier entry
// wins. Keep this list reviewed rather than relying on insertion accident.
type Registry struct {
	dialects []Dialect
}

// NewRegistry builds the built-in dialect registry in priority order:
// axis, hdfc, icici, idfc.
func NewRegistry() *Registry {
	return &Registry{
		dialects: []Dialect{
			newDialect("axis",
				`Axis Bank`,
				`Neo Credit Card`,
				`MyZone Credit Card`,
				`Flipkart Axis Bank Credit Card`,
			),
			newDialect("hdfc",
				`HDFC Bank`,
				`HDFC Bank Credit Card Statement`,
			),
			newDialect("icici",
				`ICICI Bank`,
				`ICICI Bank Credit Card Statement`,
			),
			newDialect("idfc",
				`IDFC\s*FIRST\s*Bank`,
				`IDFC FIRST Bank Credit Card Statement`,
				`IDFC Bank`,
			),
		},
	}
}

// Dialects returns the registry contents in priority order.
func (r *Registry) Dialects() []Dialect {
	out := make([]Dialect, len(r.dialects))
	copy(out, r.dialects)
	return out
}

// Detect scores text against every dialect and returns the id with the
// strictly highest confidence along with that confidence. When nothing
// matches, Detect returns ("", 0). Pure function of the input text.
func (r *Registry) Detect(text string) (string, int) {
	best := ""
	bestScore := 0
	for _, d := range r.dialects {
		score := d.Score(text)
		// Strict inequality keeps the earlier dialect on ties.
		if score > bestScore {
			best = d.ID
			bestScore = score
		}
	}
	return best, bestScore
}
