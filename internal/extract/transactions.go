package extract

import (
	"regexp"
	"strings"

	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
	"github.com/rumor-ml/commons.systems/cardparse/internal/normalize"
)

// Ledger window markers. The tokenizer scans from the first start marker
// to the first end marker after it, bounded by Options.LedgerWindow; when
// no start marker exists the whole text is the window.
var (
	ledgerStart = regexp.MustCompile(`(?i)TRANSACTION\s+DETAILS|YOUR\s+TRANSACTIONS|DATE\s+TRANSACTION|Date\s+Description\s+Amount|Account\s+Transactions|Account\s+Summary`)
	ledgerEnd   = regexp.MustCompile(`(?i)\bREWARDS\b|IMPORTANT\s+INFORMATION`)
)

// txnRecord is the repeating ledger grammar: date, free-text description,
// amount, optional direction marker.
var txnRecord = regexp.MustCompile(`(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})\s+([A-Za-z][A-Za-z0-9 &'.,\-/()*:]{2,119}?)\s+(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)\s*(?:\b([Dd][Rr]|[Cc][Rr])\b)?`)

var (
	descNumericOnly = regexp.MustCompile(`^[\d\s,.]+$`)
	descHeadline    = regexp.MustCompile(`^[A-Z ]{30,}$`)
)

// descDenylist rejects ledger-header vocabulary caught by the record
// grammar.
var descDenylist = []string{"DATE", "TRANSACTION", "BALANCE", "OPENING", "CLOSING"}

// ledgerWindow locates the text slice likely to contain the transaction
// ledger.
func ledgerWindow(text string, maxBytes int) string {
	loc := ledgerStart.FindStringIndex(text)
	if loc == nil {
		return text
	}
	section := window(text, loc[0], maxBytes)
	// The end marker only terminates the window when it appears after the
	// start marker itself.
	markerLen := loc[1] - loc[0]
	if markerLen > len(section) {
		markerLen = len(section)
	}
	if end := ledgerEnd.FindStringIndex(section[markerLen:]); end != nil {
		section = section[:markerLen+end[0]]
	}
	return section
}

// validDescription applies the tokenizer's description rules: minimum
// length, not purely numeric, not a long all-caps headline, and not
// ledger-header vocabulary.
func validDescription(desc string) bool {
	if len(desc) < 3 {
		return false
	}
	if descNumericOnly.MatchString(desc) {
		return false
	}
	if descHeadline.MatchString(desc) {
		return false
	}
	upper := strings.ToUpper(desc)
	for _, word := range descDenylist {
		if strings.HasPrefix(upper, word) {
			return false
		}
	}
	return true
}

// Tokenize scans the ledger window for transaction records left to right
// without overlap, normalizes each match, caps the result, and
// deduplicates by the (date, description, amount) key preserving
// first-seen order. An unmarked direction defaults to debit.
func Tokenize(text string, opts Options) []domain.Transaction {
	opts = opts.withDefaults()
	section := ledgerWindow(text, opts.LedgerWindow)

	txns := make([]domain.Transaction, 0, 16)
	seen := make(map[string]struct{})

	for _, m := range txnRecord.FindAllStringSubmatch(section, -1) {
		desc := normalize.CollapseSpaces(m[2])
		if !validDescription(desc) {
			continue
		}

		direction := domain.DirectionDebit
		if strings.EqualFold(m[4], "cr") {
			direction = domain.DirectionCredit
		}

		txn := domain.Transaction{
			Date:        normalize.Date(m[1]),
			Description: desc,
			Amount:      normalize.Money(m[3]),
			Direction:   direction,
		}

		if _, dup := seen[txn.Key()]; dup {
			continue
		}
		seen[txn.Key()] = struct{}{}
		txns = append(txns, txn)

		if len(txns) >= opts.MaxTransactions {
			break
		}
	}

	return txns
}

// dedupe removes transactions sharing a (date, description, amount) key,
// preserving first-seen order. Used by extractors that build transaction
// lists outside Tokenize.
func dedupe(txns []domain.Transaction) []domain.Transaction {
	seen := make(map[string]struct{}, len(txns))
	out := txns[:0:0]
	for _, txn := range txns {
		if _, dup := seen[txn.Key()]; dup {
			continue
		}
		seen[txn.Key()] = struct{}{}
		out = append(out, txn)
	}
	return out
}
