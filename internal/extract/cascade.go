// Package extract implements the per-field extraction cascades, the
// transaction tokenizer, and the generic and bank-specific extractors that
// turn raw statement text into a StatementRecord.
package extract

import (
	"regexp"
	"strings"
)

// Strategy is one attempt at extracting a field. Apply never errors: it
// either returns a candidate or reports no match.
type Strategy struct {
	Name  string
	Apply func(text string) (string, bool)
}

// Cascade is an ordered list of strategies for one field. Strategies are
// tried in order and the first syntactically valid candidate wins; later
// strategies are not consulted. When every strategy misses, the caller
// falls back to the field's sentinel.
type Cascade struct {
	Field        string
	Validate     func(string) bool
	Canonicalize func(string) string
	Strategies   []Strategy
}

// Run executes the cascade against text.
func (c Cascade) Run(text string) (string, bool) {
	for _, s := range c.Strategies {
		candidate, ok := s.Apply(text)
		if !ok {
			continue
		}
		candidate = strings.TrimSpace(candidate)
		if c.Validate != nil && !c.Validate(candidate) {
			continue
		}
		if c.Canonicalize != nil {
			candidate = c.Canonicalize(candidate)
		}
		return candidate, true
	}
	return "", false
}

// nameDenylist is header and address vocabulary that disqualifies a
// cardholder-name candidate.
var nameDenylist = map[string]struct{}{
	"PAYMENT": {}, "STATEMENT": {}, "PAGE": {}, "CONTACT": {}, "CUSTOMER": {},
	"CREDIT": {}, "ACCOUNT": {}, "CARD": {}, "LIMIT": {}, "SUMMARY": {},
	"GST": {}, "IMPORTANT": {}, "BANK": {}, "DUPLICATE": {}, "GENERATION": {},
	"DATE": {}, "PERIOD": {}, "WELCOME": {}, "DEAR": {},
	"NR": {}, "NEAR": {}, "RD": {}, "ROAD": {}, "STREET": {}, "APT": {},
	"FLAT": {}, "PIN": {}, "PINCODE": {}, "NO": {}, "BLDG": {}, "HOUSE": {},
	"VILL": {}, "DIST": {}, "TEHSIL": {},
}

var alphaToken = regexp.MustCompile(`^[A-Za-z]+\.?$`)

// ValidName accepts candidates of 2+ purely alphabetic tokens, total
// length 3 to 60, none of which belong to the header/address denylist.
func ValidName(s string) bool {
	if len(s) < 3 || len(s) > 60 {
		return false
	}
	tokens := strings.Fields(s)
	if len(tokens) < 2 {
		return false
	}
	for _, tok := range tokens {
		if !alphaToken.MatchString(tok) {
			return false
		}
		if _, bad := nameDenylist[strings.ToUpper(strings.TrimSuffix(tok, "."))]; bad {
			return false
		}
	}
	return true
}

// ValidCardNumber accepts masked card numbers: the candidate must carry a
// masking marker (asterisks, X runs, or spaced groups) and its digit+mask
// length must land between 12 and 20.
func ValidCardNumber(s string) bool {
	masked := strings.ContainsAny(s, "*Xx")
	digits, maskChars, spaces := 0, 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '*' || r == 'X' || r == 'x':
			maskChars++
		case r == ' ':
			spaces++
		default:
			return false
		}
	}
	if !masked && (spaces == 0 || digits < 12) {
		return false
	}
	n := digits + maskChars
	return n >= 12 && n <= 20
}

var (
	validDateNumeric = regexp.MustCompile(`^\d{1,2}[/\-]\d{1,2}[/\-]\d{4}$`)
	validDateDashMon = regexp.MustCompile(`^\d{1,2}-[A-Za-z]{3}-\d{4}$`)
	validDateLongMon = regexp.MustCompile(`^[A-Za-z]+ \d{1,2}, \d{4}$`)
)

// ValidDate accepts the supported date grammars: DD/MM/YYYY (slash or
// dash separated), DD-Mon-YYYY, and "Month DD, YYYY".
func ValidDate(s string) bool {
	return validDateNumeric.MatchString(s) ||
		validDateDashMon.MatchString(s) ||
		validDateLongMon.MatchString(s)
}

var validAmount = regexp.MustCompile(`^(?:\d{1,3}(?:,\d{3})*|\d+)(?:\.\d{1,2})?$`)

// ValidAmount accepts numeric strings with optional thousands separators
// and at most two fractional digits.
func ValidAmount(s string) bool {
	return validAmount.MatchString(s)
}

// head returns at most n leading bytes of text.
func head(text string, n int) string {
	if len(text) <= n {
		return text
	}
	return text[:n]
}

// window returns at most n bytes of text starting at offset.
func window(text string, start, n int) string {
	if start < 0 {
		start = 0
	}
	if start >= len(text) {
		return ""
	}
	end := start + n
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

// searchGroup applies re to text and returns the first capture group.
func searchGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// labelStrategy builds a strategy that searches the first limit bytes of
// the document for a labeled value (capture group 1). limit <= 0 searches
// the full text.
func labelStrategy(name string, re *regexp.Regexp, limit int) Strategy {
	return Strategy{
		Name: name,
		Apply: func(text string) (string, bool) {
			if limit > 0 {
				text = head(text, limit)
			}
			return searchGroup(re, text)
		},
	}
}

// amountToken is a monetary value with its optional Dr/Cr marker, as found
// in a summary block.
type amountToken struct {
	Value  string
	Marker string // "DR", "CR", or ""
}

var amountWithMarker = regexp.MustCompile(`(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)\s*([DdCc][Rr])?`)

// findAmounts scans a text block for monetary values with optional Dr/Cr
// markers, in order of appearance, up to max entries.
func findAmounts(block string, max int) []amountToken {
	var out []amountToken
	for _, m := range amountWithMarker.FindAllStringSubmatch(block, -1) {
		out = append(out, amountToken{
			Value:  m[1],
			Marker: strings.ToUpper(m[2]),
		})
		if len(out) >= max {
			break
		}
	}
	return out
}
