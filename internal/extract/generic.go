package extract

import (
	"regexp"
	"strings"

	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
	"github.com/rumor-ml/commons.systems/cardparse/internal/normalize"
)

// Generic is the universal extractor used when no dialect matched with
// enough confidence. It accepts any statement text and never fails: every
// field independently degrades to its sentinel.
type Generic struct {
	opts Options

	name      Cascade
	card      Cascade
	stmtDate  Cascade
	dueDate   Cascade
	totalDue  Cascade
	minDue    Cascade
	creditCap Cascade
}

var (
	// The capture class excludes newlines so a label match cannot swallow
	// the following address lines.
	genericNameLabel = regexp.MustCompile(`(?i)(?:Cardholder|Card\s*Holder(?:\s*Name)?|Account\s*Name|Name)\s*[:\-][ \t]*([A-Za-z][A-Za-z .]{2,59})`)

	cardLabeled   = regexp.MustCompile(`(?i)Card\s*(?:No\.?|Number)\s*[:\-]?\s*([0-9]{4,8}[\s*Xx]{2,12}[0-9]{4})`)
	cardStarred   = regexp.MustCompile(`([0-9]{4,8}\*{2,12}[0-9]{4})`)
	cardMaskedMid = regexp.MustCompile(`([0-9]{4}[\sXx*]{2,12}[0-9]{4})`)
	cardSpaced    = regexp.MustCompile(`(\d{4}\s+\d{4}\s+\*+\s+\d{4})`)
	cardFallback  = regexp.MustCompile(`([0-9]{4,8}\*{4,10}[0-9]{4})`)

	numericDate = `\d{1,2}[/\-]\d{1,2}[/\-]\d{4}`

	stmtDateGeneration = regexp.MustCompile(`(?i)Statement\s+(?:Generation\s+)?Date\s*[:\-]\s*(` + numericDate + `)`)
	stmtDateGenerated  = regexp.MustCompile(`(?i)Generated\s+(?:on|date)\s*[:\-]\s*(` + numericDate + `)`)
	stmtDatePeriod     = regexp.MustCompile(`(?is)Statement\s+for\s+period.*?(` + numericDate + `)`)

	statementPeriod = regexp.MustCompile(`(` + numericDate + `)\s*(?:-|to|To|TO)+\s*(` + numericDate + `)`)
	anyNumericDate  = regexp.MustCompile(`(` + numericDate + `)`)

	dueDatePayment = regexp.MustCompile(`(?i)Payment\s*Due\s*Date\s*[:\-]?\s*(` + numericDate + `)`)
	dueDatePlain   = regexp.MustCompile(`(?i)Due\s*Date\s*[:\-]?\s*(` + numericDate + `)`)

	paymentSummary = regexp.MustCompile(`(?i)PAYMENT\s+SUMMARY`)

	rawAmount = `[\d,]+(?:\.\d{1,2})?`

	totalDueLabels = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Total\s+Payment\s+Due\s*[:\-]?\s*(` + rawAmount + `)`),
		regexp.MustCompile(`(?i)Total\s+Amount\s+Due\s*[:\-]?\s*(` + rawAmount + `)`),
		regexp.MustCompile(`(?i)Amount\s+Payable\s*[:\-]?\s*(` + rawAmount + `)`),
		regexp.MustCompile(`(?i)Total\s+Outstanding\s*[:\-]?\s*(` + rawAmount + `)`),
	}
	totalDueTable = regexp.MustCompile(`(?is)Previous\s+Balance.*?=\s*Total\s*Payment\s*Due\s*(` + rawAmount + `)`)

	minDueLabels = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Minimum\s+Payment\s+Due\s*[:\-]?\s*(` + rawAmount + `)`),
		regexp.MustCompile(`(?i)Minimum\s+Amount\s+Due\s*[:\-]?\s*(` + rawAmount + `)`),
	}

	creditLimitLabel = regexp.MustCompile(`(?i)(?:Credit\s*Limit|Available\s*Credit|Total\s*Limit)\s*[:\-]?\s*(` + rawAmount + `)`)
	groupedNumber    = regexp.MustCompile(`(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?)`)
)

// NewGeneric builds the generic extractor with its field cascades.
func NewGeneric(opts Options) *Generic {
	g := &Generic{opts: opts.withDefaults()}

	g.name = Cascade{
		Field:    "cardholder_name",
		Validate: ValidName,
		Strategies: []Strategy{
			{Name: "label", Apply: func(text string) (string, bool) {
				return searchGroup(genericNameLabel, head(text, 2000))
			}},
			{Name: "top-lines", Apply: scanTopName},
		},
	}

	g.card = Cascade{
		Field:        "card_number",
		Validate:     ValidCardNumber,
		Canonicalize: normalize.CollapseSpaces,
		Strategies: []Strategy{
			labelStrategy("labeled", cardLabeled, 0),
			labelStrategy("starred", cardStarred, 0),
			labelStrategy("masked", cardMaskedMid, 0),
			labelStrategy("spaced-groups", cardSpaced, 0),
			labelStrategy("fallback", cardFallback, 0),
		},
	}

	g.stmtDate = Cascade{
		Field:        "statement_date",
		Validate:     ValidDate,
		Canonicalize: normalize.Date,
		Strategies: []Strategy{
			labelStrategy("generation-label", stmtDateGeneration, 4000),
			labelStrategy("generated-label", stmtDateGenerated, 4000),
			labelStrategy("period-label", stmtDatePeriod, 4000),
			{Name: "after-period", Apply: dateAfterPeriod},
		},
	}

	g.dueDate = Cascade{
		Field:        "payment_due_date",
		Validate:     ValidDate,
		Canonicalize: normalize.Date,
		Strategies: []Strategy{
			labelStrategy("payment-due-label", dueDatePayment, 5000),
			labelStrategy("due-label", dueDatePlain, 5000),
			{Name: "payment-summary", Apply: dateInPaymentSummary},
		},
	}

	g.totalDue = Cascade{
		Field:        "total_amount_due",
		Validate:     ValidAmount,
		Canonicalize: normalize.Money,
		Strategies: append([]Strategy{
			{Name: "payment-summary", Apply: firstPositiveSummaryAmount},
		}, append(labelStrategies("label", totalDueLabels),
			labelStrategy("balance-table", totalDueTable, 0))...),
	}

	g.minDue = Cascade{
		Field:        "minimum_amount_due",
		Validate:     ValidAmount,
		Canonicalize: normalize.Money,
		Strategies: append([]Strategy{
			{Name: "payment-summary", Apply: secondSummaryAmount},
		}, labelStrategies("label", minDueLabels)...),
	}

	g.creditCap = Cascade{
		Field:        "credit_limit",
		Validate:     ValidAmount,
		Canonicalize: normalize.Money,
		Strategies: []Strategy{
			labelStrategy("label-top", creditLimitLabel, 2500),
			{Name: "largest-grouped", Apply: largestGroupedNumber},
		},
	}

	return g
}

// ID implements Extractor.
func (g *Generic) ID() string { return "generic" }

// Extract implements Extractor. Every cascade miss leaves the sentinel
// already present on the fresh record.
func (g *Generic) Extract(text string) *domain.StatementRecord {
	rec := domain.NewStatementRecord()

	if v, ok := g.name.Run(text); ok {
		rec.CardholderName = v
	}
	if v, ok := g.card.Run(text); ok {
		rec.CardNumber = v
	}
	if v, ok := g.stmtDate.Run(text); ok {
		rec.StatementDate = v
	}
	if v, ok := g.dueDate.Run(text); ok {
		rec.PaymentDueDate = v
	}
	if v, ok := g.totalDue.Run(text); ok {
		rec.TotalAmountDue = v
	}
	if v, ok := g.minDue.Run(text); ok {
		rec.MinimumAmountDue = v
	}
	if v, ok := g.creditCap.Run(text); ok {
		rec.CreditLimit = v
	}

	rec.Transactions = Tokenize(text, g.opts)
	return rec
}

// labelStrategies wraps a list of label regexes as sequential strategies.
func labelStrategies(name string, res []*regexp.Regexp) []Strategy {
	out := make([]Strategy, 0, len(res))
	for _, re := range res {
		out = append(out, labelStrategy(name, re, 0))
	}
	return out
}

// addressTokens mark a line as address-like; an uppercase line directly
// above an address line is very likely the cardholder name.
var addressTokens = map[string]struct{}{
	"NR": {}, "NEAR": {}, "RD": {}, "ROAD": {}, "STREET": {}, "APT": {},
	"FLAT": {}, "PIN": {}, "PINCODE": {}, "NO": {}, "BLDG": {}, "VILL": {},
	"DIST": {}, "TEHSIL": {},
}

var nonWord = regexp.MustCompile(`[^\w ]`)

func hasAddressToken(line string) bool {
	for _, tok := range strings.Fields(nonWord.ReplaceAllString(strings.ToUpper(line), " ")) {
		if _, ok := addressTokens[tok]; ok {
			return true
		}
	}
	return false
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// scanTopName scans the top of the document for an all-uppercase line
// that looks like a personal name. A candidate followed by an address-like
// line scores highest and is accepted immediately; otherwise the
// best-scoring candidate wins.
func scanTopName(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	limit := len(lines)
	if limit > 120 {
		limit = 120
	}

	best := ""
	bestScore := 0
	for i := 0; i < limit; i++ {
		s := strings.TrimSpace(lines[i])
		if s == "" || s != strings.ToUpper(s) {
			continue
		}
		if len(s) < 5 || len(s) > 60 {
			continue
		}
		if digitCount(s) > 3 {
			continue
		}

		tokens := strings.Fields(nonWord.ReplaceAllString(s, " "))
		nameLike := 0
		hasInitial := false
		for _, tok := range tokens {
			if len(tok) == 1 {
				hasInitial = true
			}
			if len(tok) >= 2 && len(tok) <= 18 && digitCount(tok) == 0 {
				nameLike++
			}
		}
		if nameLike < 2 {
			continue
		}

		score := 90
		if hasInitial {
			score += 5
		}
		if i+1 < len(lines) && hasAddressToken(lines[i+1]) {
			// Strong signal: accept immediately.
			return s, true
		}
		if score > bestScore {
			best, bestScore = s, score
		}
	}

	if best == "" {
		return "", false
	}
	return best, true
}

// dateAfterPeriod looks for a statement date in the 200 bytes following a
// statement period range.
func dateAfterPeriod(text string) (string, bool) {
	loc := statementPeriod.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return searchGroup(anyNumericDate, window(text, loc[1], 200))
}

// paymentSummaryBlock returns a bounded slice after a PAYMENT SUMMARY
// marker.
func paymentSummaryBlock(text string, size int) (string, bool) {
	loc := paymentSummary.FindStringIndex(text)
	if loc == nil {
		return "", false
	}
	return window(text, loc[0], size), true
}

func dateInPaymentSummary(text string) (string, bool) {
	block, ok := paymentSummaryBlock(text, 500)
	if !ok {
		return "", false
	}
	return searchGroup(anyNumericDate, block)
}

// firstPositiveSummaryAmount returns the first non-zero amount in the
// payment summary block; layouts put the total due first.
func firstPositiveSummaryAmount(text string) (string, bool) {
	block, ok := paymentSummaryBlock(text, 800)
	if !ok {
		return "", false
	}
	for _, amt := range findAmounts(block, 6) {
		if normalize.MoneyValue(amt.Value) > 0 {
			return amt.Value, true
		}
	}
	return "", false
}

// secondSummaryAmount returns the second amount in the payment summary
// block; layouts put the minimum due after the total.
func secondSummaryAmount(text string) (string, bool) {
	block, ok := paymentSummaryBlock(text, 800)
	if !ok {
		return "", false
	}
	amts := findAmounts(block, 6)
	if len(amts) < 2 {
		return "", false
	}
	return amts[1].Value, true
}

// largestGroupedNumber returns the largest thousands-grouped value near
// the top of the document when it lands in a plausible limit range.
func largestGroupedNumber(text string) (string, bool) {
	best := ""
	bestVal := 0.0
	for _, m := range groupedNumber.FindAllStringSubmatch(head(text, 4000), -1) {
		if v := normalize.MoneyValue(m[1]); v > bestVal {
			best, bestVal = m[1], v
		}
	}
	if bestVal >= 1000 && bestVal <= 50000000 {
		return best, true
	}
	return "", false
}
