package extract

import (
	"regexp"

	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
	"github.com/rumor-ml/commons.systems/cardparse/internal/normalize"
)

// Hdfc extracts statements in the HDFC layout: a partially masked card
// number in spaced groups, a "Payment Due Date / Total Dues / Minimum
// Amount Due" header row followed by the values, and an Account Summary
// section repeating the dues.
type Hdfc struct {
	opts Options
}

var (
	hdfcCard     = regexp.MustCompile(`Card\s*No\s*:\s*(\d{4}\s+\d{2}XX\s+XXXX\s+\d{4})`)
	hdfcStmtDate = regexp.MustCompile(`Statement\s+Date\s*:\s*(\d{2}/\d{2}/\d{4})`)
	hdfcDueDate  = regexp.MustCompile(`(?s)Payment\s+Due\s+Date.*?(\d{2}/\d{2}/\d{4})`)

	// Header row followed on the next line by due date, total dues, and
	// minimum due in column order.
	hdfcDuesRow = regexp.MustCompile(`(?s)Payment\s+Due\s+Date\s+Total\s+Dues\s+Minimum\s+Amount\s+Due.*?\n.*?(\d{1,2}/\d{1,2}/\d{4})\s+([\d,]+\.?\d*)\s+([\d,]+\.?\d*)`)

	hdfcTotalDues = regexp.MustCompile(`Total\s+Dues\s+([\d,]+\.\d{2})`)
	hdfcMinDue    = regexp.MustCompile(`Minimum\s+Amount\s+Due\s+([\d,]+\.\d{2})`)

	hdfcCreditLimit = regexp.MustCompile(`(?s)Credit\s+Limit.*?([\d,]+\.\d{2}|[\d,]{4,})`)
)

// NewHdfc builds the HDFC dialect extractor.
func NewHdfc(opts Options) *Hdfc {
	return &Hdfc{opts: opts.withDefaults()}
}

// ID implements Extractor.
func (h *Hdfc) ID() string { return "hdfc" }

// Extract implements Extractor.
func (h *Hdfc) Extract(text string) *domain.StatementRecord {
	rec := domain.NewStatementRecord()

	if v, ok := scanTopName(text); ok && ValidName(v) {
		rec.CardholderName = v
	}

	if v, ok := searchGroup(hdfcCard, text); ok {
		rec.CardNumber = normalize.CollapseSpaces(v)
	}

	if v, ok := searchGroup(hdfcStmtDate, text); ok {
		rec.StatementDate = normalize.Date(v)
	}
	if v, ok := searchGroup(hdfcDueDate, text); ok {
		rec.PaymentDueDate = normalize.Date(v)
	}

	// Column row first; the Account Summary repeats the dues and serves as
	// fallback when the row carries zeros.
	if m := hdfcDuesRow.FindStringSubmatch(text); m != nil {
		if m[2] != "0" {
			rec.TotalAmountDue = normalize.Money(m[2])
		}
		if m[3] != "0" {
			rec.MinimumAmountDue = normalize.Money(m[3])
		}
	}
	if rec.TotalAmountDue == domain.MoneyZero {
		if v, ok := searchGroup(hdfcTotalDues, text); ok {
			rec.TotalAmountDue = normalize.Money(v)
		}
	}
	if rec.MinimumAmountDue == domain.MoneyZero {
		if v, ok := searchGroup(hdfcMinDue, text); ok {
			rec.MinimumAmountDue = normalize.Money(v)
		}
	}

	if v, ok := searchGroup(hdfcCreditLimit, text); ok && ValidAmount(v) {
		rec.CreditLimit = normalize.Money(v)
	}

	rec.Transactions = Tokenize(text, h.opts)
	return rec
}
