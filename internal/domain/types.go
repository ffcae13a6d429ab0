// Package domain defines the normalized statement record produced by the
// extraction engine, independent of any bank's layout.
package domain

import (
	"fmt"
	"regexp"
)

// Sentinel values for fields that could not be determined. A sentinel is
// distinct from a real empty value: every record field is always populated
// with either an extracted value or its sentinel.
const (
	TextUnknown = "N/A"
	MoneyZero   = "0.00"
)

// BankUnknown is attached to records when no dialect scored above zero.
const BankUnknown = "Unknown"

// MethodNative marks records extracted from a native text layer (as opposed
// to OCR, which this engine does not perform).
const MethodNative = "Native"

// Direction is the money flow of a transaction.
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"
)

// Category is a spending category name.
type Category string

const (
	CategoryFuel           Category = "Fuel"
	CategoryFood           Category = "Food"
	CategoryShopping       Category = "Shopping"
	CategoryTravel         Category = "Travel"
	CategoryBills          Category = "Bills"
	CategoryEntertainment  Category = "Entertainment"
	CategoryOnlinePayments Category = "Online Payments"
	CategoryOther          Category = "Other"
)

// Categories is the fixed universe of category names in precedence order.
// The order is a deliberate matching priority, not alphabetical.
var Categories = []Category{
	CategoryFuel,
	CategoryFood,
	CategoryShopping,
	CategoryTravel,
	CategoryBills,
	CategoryEntertainment,
	CategoryOnlinePayments,
	CategoryOther,
}

// CategoryTotals maps category name to an accumulated decimal total.
// All categories are always present, zero-valued when unused.
type CategoryTotals map[Category]string

// NewCategoryTotals returns a fully populated totals map with every
// category at "0.00".
func NewCategoryTotals() CategoryTotals {
	totals := make(CategoryTotals, len(Categories))
	for _, c := range Categories {
		totals[c] = MoneyZero
	}
	return totals
}

// Transaction is a single ledger entry. Date is canonical DD/MM/YYYY,
// Description is whitespace-collapsed, Amount is a canonical money string.
type Transaction struct {
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Direction   Direction `json:"type"`
}

// Key returns the deduplication key. No two transactions in a record may
// share this triple.
func (t Transaction) Key() string {
	return t.Date + "|" + t.Description + "|" + t.Amount
}

// StatementRecord is the normalized output for one statement document.
// The non-omitempty fields form the core contract every extractor must
// fill; the omitempty fields are dialect-specific extras.
type StatementRecord struct {
	CardholderName       string         `json:"cardholder_name"`
	CardNumber           string         `json:"card_number"`
	StatementPeriodStart string         `json:"statement_period_start,omitempty"`
	StatementPeriodEnd   string         `json:"statement_period_end,omitempty"`
	StatementDate        string         `json:"statement_date"`
	PaymentDueDate       string         `json:"payment_due_date"`
	TotalAmountDue       string         `json:"total_amount_due"`
	MinimumAmountDue     string         `json:"minimum_amount_due"`
	OpeningBalance       string         `json:"opening_balance,omitempty"`
	CreditLimit          string         `json:"credit_limit"`
	AvailableCredit      string         `json:"available_credit,omitempty"`
	Transactions         []Transaction  `json:"transactions"`
	Categories           CategoryTotals `json:"transaction_categories"`
	BankDetected         string         `json:"bank_detected"`
	Confidence           int            `json:"confidence"`
	ExtractionMethod     string         `json:"extraction_method"`
}

// NewStatementRecord returns a record with every core field at its
// sentinel, an empty transaction list, and fully populated category totals.
func NewStatementRecord() *StatementRecord {
	return &StatementRecord{
		CardholderName:   TextUnknown,
		CardNumber:       TextUnknown,
		StatementDate:    TextUnknown,
		PaymentDueDate:   TextUnknown,
		TotalAmountDue:   MoneyZero,
		MinimumAmountDue: MoneyZero,
		CreditLimit:      MoneyZero,
		Transactions:     []Transaction{},
		Categories:       NewCategoryTotals(),
		BankDetected:     BankUnknown,
		ExtractionMethod: MethodNative,
	}
}

var moneyShape = regexp.MustCompile(`^\d+\.\d{2}$`)

// IsCanonicalMoney reports whether s is a canonical money string.
func IsCanonicalMoney(s string) bool {
	return moneyShape.MatchString(s)
}

// Validate checks the record invariants: every core field populated (real
// value or sentinel), monetary fields in canonical shape, no duplicate
// (date, description, amount) triples, and all categories present.
func (r *StatementRecord) Validate() error {
	textFields := map[string]string{
		"cardholder_name":   r.CardholderName,
		"card_number":       r.CardNumber,
		"statement_date":    r.StatementDate,
		"payment_due_date":  r.PaymentDueDate,
		"bank_detected":     r.BankDetected,
		"extraction_method": r.ExtractionMethod,
	}
	for field, v := range textFields {
		if v == "" {
			return fmt.Errorf("field %s is empty (sentinel required)", field)
		}
	}

	moneyFields := map[string]string{
		"total_amount_due":   r.TotalAmountDue,
		"minimum_amount_due": r.MinimumAmountDue,
		"credit_limit":       r.CreditLimit,
	}
	for field, v := range moneyFields {
		if !moneyShape.MatchString(v) {
			return fmt.Errorf("field %s is not a canonical money string: %q", field, v)
		}
	}

	if r.Transactions == nil {
		return fmt.Errorf("transactions must be non-nil")
	}
	seen := make(map[string]struct{}, len(r.Transactions))
	for _, txn := range r.Transactions {
		key := txn.Key()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate transaction %s", key)
		}
		seen[key] = struct{}{}
		if txn.Direction != DirectionDebit && txn.Direction != DirectionCredit {
			return fmt.Errorf("transaction %s has invalid direction %q", key, txn.Direction)
		}
	}

	if len(r.Categories) != len(Categories) {
		return fmt.Errorf("category totals incomplete: %d of %d categories", len(r.Categories), len(Categories))
	}
	for _, c := range Categories {
		total, ok := r.Categories[c]
		if !ok {
			return fmt.Errorf("category %q missing from totals", c)
		}
		if !moneyShape.MatchString(total) {
			return fmt.Errorf("category %q total is not canonical: %q", c, total)
		}
	}

	return nil
}
