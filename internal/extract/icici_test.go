package extract

import (
	"testing"

	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
)

const iciciStatement = `ICICI Bank Credit Card Statement
NIKHIL KHANDELWAL 12345678
4375XXXXXXXX1234
STATEMENT DATE August 15, 2024
PAYMENT DUE DATE September 3, 2024
Total Amount Due 12,450.75
Minimum Amount Due 622.54
Credit Limit 150,000
12/05/2024 1 AMAZON PURCHASE 120 1,289.00
13/05/2024 2 PAYMENT RECEIVED 0 5,000.00 CR
`

func TestIcici_Extract(t *testing.T) {
	rec := NewIcici(Options{}).Extract(iciciStatement)

	if rec.CardholderName != "NIKHIL KHANDELWAL" {
		t.Errorf("CardholderName = %q, want \"NIKHIL KHANDELWAL\"", rec.CardholderName)
	}
	if rec.CardNumber != "4375XXXXXXXX1234" {
		t.Errorf("CardNumber = %q, want \"4375XXXXXXXX1234\"", rec.CardNumber)
	}
	if rec.StatementDate != "15/08/2024" {
		t.Errorf("StatementDate = %q, want canonical \"15/08/2024\"", rec.StatementDate)
	}
	if rec.PaymentDueDate != "03/09/2024" {
		t.Errorf("PaymentDueDate = %q, want canonical \"03/09/2024\"", rec.PaymentDueDate)
	}
	if rec.TotalAmountDue != "12450.75" {
		t.Errorf("TotalAmountDue = %q, want \"12450.75\"", rec.TotalAmountDue)
	}
	if rec.MinimumAmountDue != "622.54" {
		t.Errorf("MinimumAmountDue = %q, want \"622.54\"", rec.MinimumAmountDue)
	}
	if rec.CreditLimit != "150000.00" {
		t.Errorf("CreditLimit = %q, want \"150000.00\"", rec.CreditLimit)
	}

	if len(rec.Transactions) != 2 {
		t.Fatalf("Transactions = %d, want 2", len(rec.Transactions))
	}
	first := rec.Transactions[0]
	if first.Description != "AMAZON PURCHASE" || first.Amount != "1289.00" || first.Direction != domain.DirectionDebit {
		t.Errorf("Transactions[0] = %+v, want AMAZON PURCHASE 1289.00 debit", first)
	}
	if rec.Transactions[1].Direction != domain.DirectionCredit {
		t.Errorf("Transactions[1].Direction = %q, want credit", rec.Transactions[1].Direction)
	}

	if err := rec.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestIcici_ID(t *testing.T) {
	if id := NewIcici(Options{}).ID(); id != "icici" {
		t.Errorf("ID() = %q, want \"icici\"", id)
	}
}
