package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
	"github.com/rumor-ml/commons.systems/cardparse/internal/normalize"
)

// Idfc extracts statements in the IDFC layout: a title-case cardholder
// name, a STATEMENT SUMMARY section whose amounts carry a currency prefix
// rendered as a leading "r", a last-four card mask, and a ledger bounded
// by YOUR TRANSACTIONS and REWARDS markers.
type Idfc struct {
	opts Options
}

var (
	idfcPeriod = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s*-\s*(\d{2}/\d{2}/\d{4})`)

	idfcTitleName = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+$`)

	idfcDueDate = regexp.MustCompile(`(?is)Payment\s+Due\s+Date.*?(\d{2}/\d{2}/\d{4})`)

	idfcSummaryMark = regexp.MustCompile(`(?i)STATEMENT\s+SUMMARY`)

	// The currency glyph survives text extraction as a lone "r" prefix.
	rupeeAmount = `r(\d+(?:,\d+)*(?:\.\d+)?)`

	idfcOpening  = regexp.MustCompile(`(?is)Opening\s*Balance.*?` + rupeeAmount)
	idfcTotalDue = regexp.MustCompile(`(?is)Total\s*Amount\s*Due.*?` + rupeeAmount)
	idfcMinDue   = regexp.MustCompile(`(?is)Minimum\s*Amount\s*Due.*?` + rupeeAmount)
	idfcRupee    = regexp.MustCompile(`(?i)` + rupeeAmount)

	idfcCard = regexp.MustCompile(`(?i)Card\s*Number:\s*XXXX\s*(\d{4})`)

	idfcTxnStart = regexp.MustCompile(`(?i)YOUR\s+TRANSACTIONS`)
	idfcTxnEnd   = regexp.MustCompile(`(?i)\bREWARDS\b|IMPORTANT\s+INFORMATION`)
	idfcTxn      = regexp.MustCompile(`(\d{2}/\d{2}/\d{4})\s+(.+?)\s+(\d+(?:,\d+)*(?:\.\d+)?)\s*(CR)?`)
)

// idfcDescSkip drops ledger header and page furniture rows.
var idfcDescSkip = []string{
	"Transaction Date", "Transactional Details", "FX Transactions",
	"Amount", "Page ", "Card Number",
}

// NewIdfc builds the IDFC dialect extractor.
func NewIdfc(opts Options) *Idfc {
	return &Idfc{opts: opts.withDefaults()}
}

// ID implements Extractor.
func (id *Idfc) ID() string { return "idfc" }

// Extract implements Extractor.
func (id *Idfc) Extract(text string) *domain.StatementRecord {
	rec := domain.NewStatementRecord()
	lines := strings.Split(text, "\n")

	if m := idfcPeriod.FindStringSubmatch(text); m != nil {
		rec.StatementPeriodStart = m[1]
		rec.StatementPeriodEnd = m[2]
		// The period end doubles as the statement date in this layout.
		rec.StatementDate = m[2]
	}

	if v, ok := id.titleCaseName(lines); ok {
		rec.CardholderName = v
	}

	if v, ok := searchGroup(idfcDueDate, text); ok {
		rec.PaymentDueDate = v
	}

	id.extractSummary(lines, rec)

	if v, ok := searchGroup(idfcCard, text); ok {
		rec.CardNumber = "XXXX" + v
	}

	rec.Transactions = id.transactions(lines)
	return rec
}

// titleCaseName scans the top lines for a title-case personal name,
// rejecting header and address vocabulary.
func (id *Idfc) titleCaseName(lines []string) (string, bool) {
	limit := len(lines)
	if limit > 80 {
		limit = 80
	}
	for i := 0; i < limit; i++ {
		s := strings.TrimSpace(lines[i])
		if len(s) < 3 || len(s) > 60 || digitCount(s) > 0 {
			continue
		}
		if !idfcTitleName.MatchString(s) {
			continue
		}
		if hasAddressToken(s) {
			continue
		}
		return s, true
	}
	return "", false
}

// extractSummary reads the STATEMENT SUMMARY section: opening balance,
// dues, and the credit and available limits picked as the two largest
// currency values in the section.
func (id *Idfc) extractSummary(lines []string, rec *domain.StatementRecord) {
	start := -1
	for i, ln := range lines {
		if idfcSummaryMark.MatchString(ln) {
			start = i
			break
		}
	}
	if start == -1 {
		return
	}
	end := start + 20
	if end > len(lines) {
		end = len(lines)
	}
	section := strings.Join(lines[start:end], "\n")

	if v, ok := searchGroup(idfcOpening, section); ok {
		rec.OpeningBalance = normalize.Money(v)
	}
	if v, ok := searchGroup(idfcTotalDue, section); ok {
		rec.TotalAmountDue = normalize.Money(v)
	}
	if v, ok := searchGroup(idfcMinDue, section); ok {
		rec.MinimumAmountDue = normalize.Money(v)
	}

	var values []float64
	seen := make(map[string]struct{})
	for _, m := range idfcRupee.FindAllStringSubmatch(section, -1) {
		canon := normalize.Money(m[1])
		if _, dup := seen[canon]; dup {
			continue
		}
		seen[canon] = struct{}{}
		values = append(values, normalize.MoneyValue(canon))
	}
	if len(values) >= 2 {
		sort.Sort(sort.Reverse(sort.Float64Slice(values)))
		rec.CreditLimit = normalize.FormatMoney(values[0])
		rec.AvailableCredit = normalize.FormatMoney(values[1])
	}
}

func (id *Idfc) transactions(lines []string) []domain.Transaction {
	start := -1
	end := len(lines)
	for i, ln := range lines {
		if start == -1 && idfcTxnStart.MatchString(ln) {
			start = i
			continue
		}
		if start != -1 && idfcTxnEnd.MatchString(ln) {
			end = i
			break
		}
	}
	if start == -1 {
		return []domain.Transaction{}
	}

	section := strings.Join(lines[start:end], "\n")
	txns := make([]domain.Transaction, 0, 16)

scan:
	for _, m := range idfcTxn.FindAllStringSubmatch(section, -1) {
		desc := normalize.CollapseSpaces(m[2])
		if len(desc) <= 2 {
			continue
		}
		for _, skip := range idfcDescSkip {
			if strings.Contains(desc, skip) {
				continue scan
			}
		}
		direction := domain.DirectionDebit
		if m[4] != "" {
			direction = domain.DirectionCredit
		}
		txns = append(txns, domain.Transaction{
			Date:        m[1],
			Description: desc,
			Amount:      normalize.Money(m[3]),
			Direction:   direction,
		})
		if len(txns) >= id.opts.MaxTransactions {
			break
		}
	}
	return dedupe(txns)
}
