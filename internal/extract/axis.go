package extract

import (
	"regexp"
	"strings"

	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
	"github.com/rumor-ml/commons.systems/cardparse/internal/normalize"
)

// Axis extracts statements in the Axis layout: statement period and dates
// packed onto one line near the top, a PAYMENT SUMMARY block carrying the
// dues, and a ledger whose every record carries an explicit Dr/Cr marker.
type Axis struct {
	opts Options
}

var (
	axisCardPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Card\s*(?:No\.?|Number)\s*[:\-]?\s*([0-9*]{4,20})`),
		regexp.MustCompile(`(\d{4,6}\*{2,}\d{4})`),
		regexp.MustCompile(`(\d{4}\*{4}\d{4})`),
	}

	axisDateChunk = regexp.MustCompile(`(` + numericDate + `).{0,80}?(` + numericDate + `).{0,80}?(` + numericDate + `)`)

	axisCreditLimit = regexp.MustCompile(`(?i)(?:Credit\s*Limit|Total\s*Limit|Available\s*Limit)\s*[:\-]?\s*(` + rawAmount + `)`)

	// Unlike the generic grammar, the direction marker is mandatory here.
	axisTxn = regexp.MustCompile(`(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})\s+([A-Za-z0-9 ,.&'/\-:()]{5,100}?)\s+(` + rawAmount + `)\s*([DdCc][Rr])\b`)
)

// NewAxis builds the Axis dialect extractor.
func NewAxis(opts Options) *Axis {
	return &Axis{opts: opts.withDefaults()}
}

// ID implements Extractor.
func (a *Axis) ID() string { return "axis" }

// Extract implements Extractor.
func (a *Axis) Extract(text string) *domain.StatementRecord {
	rec := domain.NewStatementRecord()

	if v, ok := scanTopName(text); ok && ValidName(v) {
		rec.CardholderName = v
	}

	for _, re := range axisCardPatterns {
		if v, ok := searchGroup(re, text); ok && ValidCardNumber(v) {
			rec.CardNumber = normalize.CollapseSpaces(v)
			break
		}
	}

	a.extractDates(text, rec)
	a.extractAmounts(text, rec)

	rec.Transactions = a.transactions(text)
	return rec
}

// extractDates resolves the period range, the payment due date, and the
// statement date from the packed date line near the top, with labeled
// fallbacks.
func (a *Axis) extractDates(text string, rec *domain.StatementRecord) {
	top := head(text, 4000)

	if m := statementPeriod.FindStringSubmatch(text); m != nil {
		rec.StatementPeriodStart = normalize.Date(m[1])
		rec.StatementPeriodEnd = normalize.Date(m[2])
	}

	// Period start, period end, then payment due on one line; the statement
	// date follows separately.
	if m := axisDateChunk.FindStringSubmatchIndex(top); m != nil {
		due := top[m[6]:m[7]]
		rec.PaymentDueDate = normalize.Date(due)
		if rec.StatementPeriodStart == domain.TextUnknown || rec.StatementPeriodStart == "" {
			rec.StatementPeriodStart = normalize.Date(top[m[2]:m[3]])
			rec.StatementPeriodEnd = normalize.Date(top[m[4]:m[5]])
		}
		if v, ok := searchGroup(anyNumericDate, text[m[1]:]); ok {
			rec.StatementDate = normalize.Date(v)
		}
		return
	}

	if v, ok := searchGroup(stmtDateGeneration, text); ok {
		rec.StatementDate = normalize.Date(v)
	}
	if v, ok := searchGroup(dueDatePayment, text); ok {
		rec.PaymentDueDate = normalize.Date(v)
	} else if v, ok := searchGroup(dueDatePlain, text); ok {
		rec.PaymentDueDate = normalize.Date(v)
	}
}

// extractAmounts reads the dues out of the PAYMENT SUMMARY block, falling
// back to labeled searches, and the credit limit from the top of the
// document.
func (a *Axis) extractAmounts(text string, rec *domain.StatementRecord) {
	if block, ok := paymentSummaryBlock(text, 400); ok {
		amts := findAmounts(block, 6)
		if len(amts) >= 1 {
			rec.TotalAmountDue = normalize.Money(amts[0].Value)
		}
		if len(amts) >= 2 {
			rec.MinimumAmountDue = normalize.Money(amts[1].Value)
		}
	}

	if rec.TotalAmountDue == domain.MoneyZero {
		for _, re := range totalDueLabels {
			if v, ok := searchGroup(re, text); ok {
				rec.TotalAmountDue = normalize.Money(v)
				break
			}
		}
	}
	if rec.MinimumAmountDue == domain.MoneyZero {
		for _, re := range minDueLabels {
			if v, ok := searchGroup(re, text); ok {
				rec.MinimumAmountDue = normalize.Money(v)
				break
			}
		}
	}

	if v, ok := searchGroup(axisCreditLimit, head(text, 4000)); ok {
		rec.CreditLimit = normalize.Money(v)
	} else if v, ok := searchGroup(axisCreditLimit, text); ok {
		rec.CreditLimit = normalize.Money(v)
	}
}

func (a *Axis) transactions(text string) []domain.Transaction {
	txns := make([]domain.Transaction, 0, 16)
	for _, m := range axisTxn.FindAllStringSubmatch(text, -1) {
		desc := normalize.CollapseSpaces(m[2])
		if !validDescription(desc) {
			continue
		}
		direction := domain.DirectionDebit
		if strings.EqualFold(m[4], "cr") {
			direction = domain.DirectionCredit
		}
		txns = append(txns, domain.Transaction{
			Date:        normalize.Date(m[1]),
			Description: desc,
			Amount:      normalize.Money(m[3]),
			Direction:   direction,
		})
		if len(txns) >= a.opts.MaxTransactions {
			break
		}
	}
	return dedupe(txns)
}
