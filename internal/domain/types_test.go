package domain

import (
	"encoding/json"
	"testing"
)

func TestNewStatementRecord_Defaults(t *testing.T) {
	rec := NewStatementRecord()

	if rec.CardholderName != TextUnknown {
		t.Errorf("CardholderName = %q, want %q", rec.CardholderName, TextUnknown)
	}
	if rec.TotalAmountDue != MoneyZero {
		t.Errorf("TotalAmountDue = %q, want %q", rec.TotalAmountDue, MoneyZero)
	}
	if rec.BankDetected != BankUnknown {
		t.Errorf("BankDetected = %q, want %q", rec.BankDetected, BankUnknown)
	}
	if rec.Transactions == nil || len(rec.Transactions) != 0 {
		t.Errorf("Transactions = %v, want empty non-nil slice", rec.Transactions)
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate() on fresh record = %v, want nil", err)
	}
}

func TestStatementRecord_JSONKeys(t *testing.T) {
	data, err := json.Marshal(NewStatementRecord())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	required := []string{
		"cardholder_name", "card_number", "statement_date", "payment_due_date",
		"total_amount_due", "minimum_amount_due", "credit_limit",
		"transactions", "transaction_categories", "bank_detected",
		"confidence", "extraction_method",
	}
	for _, key := range required {
		if _, ok := m[key]; !ok {
			t.Errorf("serialized record missing key %q", key)
		}
	}

	// Dialect-specific extras stay out of the core contract until set.
	for _, key := range []string{"statement_period_start", "statement_period_end", "opening_balance", "available_credit"} {
		if _, ok := m[key]; ok {
			t.Errorf("serialized record carries unset optional key %q", key)
		}
	}
}

func TestStatementRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StatementRecord)
		wantErr bool
	}{
		{
			name:   "valid record",
			mutate: func(r *StatementRecord) {},
		},
		{
			name:    "empty text field",
			mutate:  func(r *StatementRecord) { r.CardholderName = "" },
			wantErr: true,
		},
		{
			name:    "non-canonical money",
			mutate:  func(r *StatementRecord) { r.TotalAmountDue = "1,289" },
			wantErr: true,
		},
		{
			name: "duplicate transactions",
			mutate: func(r *StatementRecord) {
				txn := Transaction{Date: "12/05/2023", Description: "SWIGGY", Amount: "450.00", Direction: DirectionDebit}
				r.Transactions = []Transaction{txn, txn}
			},
			wantErr: true,
		},
		{
			name: "invalid direction",
			mutate: func(r *StatementRecord) {
				r.Transactions = []Transaction{{Date: "12/05/2023", Description: "SWIGGY", Amount: "450.00", Direction: "refund"}}
			},
			wantErr: true,
		},
		{
			name:    "missing category",
			mutate:  func(r *StatementRecord) { delete(r.Categories, CategoryFuel) },
			wantErr: true,
		},
		{
			name:    "non-canonical category total",
			mutate:  func(r *StatementRecord) { r.Categories[CategoryFood] = "1,000" },
			wantErr: true,
		},
		{
			name:    "nil transactions",
			mutate:  func(r *StatementRecord) { r.Transactions = nil },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewStatementRecord()
			tt.mutate(rec)
			err := rec.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransaction_Key(t *testing.T) {
	a := Transaction{Date: "12/05/2023", Description: "SWIGGY ORDER", Amount: "450.00", Direction: DirectionDebit}
	b := Transaction{Date: "12/05/2023", Description: "SWIGGY ORDER", Amount: "450.00", Direction: DirectionCredit}
	if a.Key() != b.Key() {
		t.Error("Key() should ignore direction")
	}

	c := Transaction{Date: "13/05/2023", Description: "SWIGGY ORDER", Amount: "450.00"}
	if a.Key() == c.Key() {
		t.Error("Key() should differ when the date differs")
	}
}

func TestIsCanonicalMoney(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0.00", true},
		{"1289.50", true},
		{"1,289.50", false},
		{"1289.5", false},
		{"1289", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsCanonicalMoney(tt.input); got != tt.want {
			t.Errorf("IsCanonicalMoney(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
