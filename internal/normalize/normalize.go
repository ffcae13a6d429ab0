// Package normalize provides pure canonicalization functions for money and
// date strings matched out of statement text.
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonMoneyChars = regexp.MustCompile(`[^\d.]`)
	multiSpace    = regexp.MustCompile(`\s+`)

	dateNumeric = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`)
	dateDashMon = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3})-(\d{4})`)
	dateLongMon = regexp.MustCompile(`^([A-Za-z]+) (\d{1,2}), (\d{4})`)
)

// Money canonicalizes a monetary string to digits with exactly two
// fractional places: currency symbols and thousands separators are
// stripped, a missing fraction becomes ".00", a single fractional digit is
// zero-padded, and anything past two fractional digits is truncated.
// Empty or non-numeric input yields "0.00". Idempotent: a canonical value
// passes through unchanged.
func Money(s string) string {
	s = nonMoneyChars.ReplaceAllString(strings.TrimSpace(s), "")
	if s == "" {
		return "0.00"
	}

	whole, frac, found := strings.Cut(s, ".")
	if !found {
		return whole + ".00"
	}
	// Collapse any further decimal points left over from malformed input.
	frac = strings.ReplaceAll(frac, ".", "")
	if whole == "" {
		whole = "0"
	}
	switch {
	case len(frac) == 0:
		frac = "00"
	case len(frac) == 1:
		frac += "0"
	case len(frac) > 2:
		frac = frac[:2]
	}
	return whole + "." + frac
}

// Date reformats a recognized date string to zero-padded DD/MM/YYYY.
// Supported grammars: DD/MM/YYYY (with / or - separators), DD-Mon-YYYY,
// and "Month DD, YYYY". Unrecognized input passes through trimmed but
// otherwise unchanged; downstream consumers may still find value in the
// raw string.
func Date(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if m := dateNumeric.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%02d/%02d/%s", day, month, m[3])
	}

	if m := dateDashMon.FindStringSubmatch(s); m != nil {
		if t, err := time.Parse("2-Jan-2006", m[1]+"-"+m[2]+"-"+m[3]); err == nil {
			return t.Format("02/01/2006")
		}
		return s
	}

	if m := dateLongMon.FindStringSubmatch(s); m != nil {
		if t, err := time.Parse("January 2, 2006", m[1]+" "+m[2]+", "+m[3]); err == nil {
			return t.Format("02/01/2006")
		}
		return s
	}

	return s
}

// CollapseSpaces trims and collapses runs of whitespace to single spaces.
func CollapseSpaces(s string) string {
	return multiSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// FoldASCII strips diacritic marks so keyword matching works on
// descriptions containing accented merchant names.
func FoldASCII(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// MoneyValue parses a canonical or raw money string into a float for
// accumulation. Invalid input yields 0.
func MoneyValue(s string) float64 {
	v, err := strconv.ParseFloat(Money(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatMoney renders a float accumulated from canonical amounts back to a
// two-decimal string.
func FormatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
