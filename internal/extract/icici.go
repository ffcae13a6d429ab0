package extract

import (
	"regexp"
	"strings"

	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
	"github.com/rumor-ml/commons.systems/cardparse/internal/normalize"
)

// Icici extracts statements in the ICICI layout: long-month dates
// ("August 15, 2024"), a fully X-masked card number, and a ledger with a
// serial column between the date and the description.
type Icici struct {
	opts Options
}

var (
	iciciNameLine = regexp.MustCompile(`(?m)^\s*([A-Z. ]+?)\s+\d+\s*$`)
	iciciCard     = regexp.MustCompile(`(\d{4}X{8}\d{4})`)

	longMonthDate = `[A-Za-z]+ \d{1,2}, \d{4}`

	iciciStmtDate = regexp.MustCompile(`(?i)STATEMENT\s+DATE\s*(` + longMonthDate + `)`)
	iciciDueDate  = regexp.MustCompile(`(?i)PAYMENT\s+DUE\s+DATE\s*(` + longMonthDate + `)`)

	iciciTotalDue    = regexp.MustCompile(`Total\s+Amount\s+Due\s*(` + rawAmount + `)`)
	iciciMinDue      = regexp.MustCompile(`Minimum\s+Amount\s+Due\s*(` + rawAmount + `)`)
	iciciCreditLimit = regexp.MustCompile(`Credit\s+Limit\s*(` + rawAmount + `)`)

	// Date, serial number, description, reward points, amount, optional CR.
	iciciTxn = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s+(\d+)\s+([A-Za-z][A-Za-z0-9 /&'.\-]{2,99}?)\s+(\d{1,3})\s+(` + rawAmount + `)\s*(CR)?`)
)

// NewIcici builds the ICICI dialect extractor.
func NewIcici(opts Options) *Icici {
	return &Icici{opts: opts.withDefaults()}
}

// ID implements Extractor.
func (ic *Icici) ID() string { return "icici" }

// Extract implements Extractor.
func (ic *Icici) Extract(text string) *domain.StatementRecord {
	rec := domain.NewStatementRecord()

	// The name line carries a trailing account reference number.
	if v, ok := searchGroup(iciciNameLine, text); ok && ValidName(strings.TrimSpace(v)) {
		rec.CardholderName = strings.TrimSpace(v)
	} else if v, ok := scanTopName(text); ok && ValidName(v) {
		rec.CardholderName = v
	}

	if v, ok := searchGroup(iciciCard, text); ok {
		rec.CardNumber = v
	}

	if v, ok := searchGroup(iciciStmtDate, text); ok {
		rec.StatementDate = normalize.Date(v)
	}
	if v, ok := searchGroup(iciciDueDate, text); ok {
		rec.PaymentDueDate = normalize.Date(v)
	}

	if v, ok := searchGroup(iciciTotalDue, text); ok {
		rec.TotalAmountDue = normalize.Money(v)
	}
	if v, ok := searchGroup(iciciMinDue, text); ok {
		rec.MinimumAmountDue = normalize.Money(v)
	}
	if v, ok := searchGroup(iciciCreditLimit, text); ok {
		rec.CreditLimit = normalize.Money(v)
	}

	rec.Transactions = ic.transactions(text)
	return rec
}

func (ic *Icici) transactions(text string) []domain.Transaction {
	txns := make([]domain.Transaction, 0, 16)
	for _, m := range iciciTxn.FindAllStringSubmatch(text, -1) {
		desc := normalize.CollapseSpaces(m[3])
		if !validDescription(desc) {
			continue
		}
		direction := domain.DirectionDebit
		if m[6] != "" {
			direction = domain.DirectionCredit
		}
		txns = append(txns, domain.Transaction{
			Date:        normalize.Date(m[1]),
			Description: desc,
			Amount:      normalize.Money(m[5]),
			Direction:   direction,
		})
		if len(txns) >= ic.opts.MaxTransactions {
			break
		}
	}
	return dedupe(txns)
}
