package extract

import (
	"testing"

	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
)

const axisStatement = `AXIS BANK STATEMENT
NIKHIL KHANDELWAL
NR STATION ROAD MUMBAI
Card No: 4514*********1234
16/04/2021 - 15/05/2021 04/06/2021
15/05/2021
Credit Limit : 150,000
PAYMENT SUMMARY
12,450.75 Dr
622.54
TRANSACTION DETAILS
12/05/2021 SWIGGY ORDER 450.00 Dr
13/05/2021 PAYMENT RECEIVED 5,000.00 Cr
14/05/2021 NO MARKER MERCHANT 100.00
`

func TestAxis_Extract(t *testing.T) {
	rec := NewAxis(Options{}).Extract(axisStatement)

	if rec.CardholderName != "NIKHIL KHANDELWAL" {
		t.Errorf("CardholderName = %q, want \"NIKHIL KHANDELWAL\"", rec.CardholderName)
	}
	if rec.CardNumber != "4514*********1234" {
		t.Errorf("CardNumber = %q, want \"4514*********1234\"", rec.CardNumber)
	}
	if rec.StatementPeriodStart != "16/04/2021" || rec.StatementPeriodEnd != "15/05/2021" {
		t.Errorf("period = %q to %q, want 16/04/2021 to 15/05/2021",
			rec.StatementPeriodStart, rec.StatementPeriodEnd)
	}
	if rec.PaymentDueDate != "04/06/2021" {
		t.Errorf("PaymentDueDate = %q, want \"04/06/2021\"", rec.PaymentDueDate)
	}
	if rec.StatementDate != "15/05/2021" {
		t.Errorf("StatementDate = %q, want \"15/05/2021\"", rec.StatementDate)
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

	// Records without an explicit Dr/Cr marker are not ledger rows in this
	// layout.
	if len(rec.Transactions) != 2 {
		t.Fatalf("Transactions = %d, want 2", len(rec.Transactions))
	}
	if rec.Transactions[0].Description != "SWIGGY ORDER" || rec.Transactions[0].Direction != domain.DirectionDebit {
		t.Errorf("Transactions[0] = %+v, want SWIGGY ORDER debit", rec.Transactions[0])
	}
	if rec.Transactions[1].Direction != domain.DirectionCredit {
		t.Errorf("Transactions[1].Direction = %q, want credit", rec.Transactions[1].Direction)
	}

	if err := rec.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestAxis_EmptyTextDegradesToSentinels(t *testing.T) {
	rec := NewAxis(Options{}).Extract("nothing resembling a statement")
	if rec.CardholderName != domain.TextUnknown || rec.TotalAmountDue != domain.MoneyZero {
		t.Errorf("degraded record = %+v, want sentinels", rec)
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestAxis_ID(t *testing.T) {
	if id := NewAxis(Options{}).ID(); id != "axis" {
		t.Errorf("ID() = %q, want \"axis\"", id)
	}
}
