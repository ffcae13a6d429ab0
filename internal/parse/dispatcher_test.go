package parse

import (
	"errors"
	"testing"

	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
)

const hdfcDocument = `HDFC Bank Credit Card Statement
NIKHIL KHANDELWAL
Card No : 4514 56XX XXXX 1234
Statement Date : 15/05/2023
Payment Due Date Total Dues Minimum Amount Due
04/06/2023 12,450.75 622.54
Date Description Amount
12/05/2023 SWIGGY ORDER 450.00 Dr
13/05/2023 PAYMENT RECEIVED 5,000.00 Cr
`

func TestParse_EmptyDocument(t *testing.T) {
	d, err := NewDispatcher(Options{})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	for _, text := range []string{"", "   \n\t  "} {
		if _, err := d.Parse(text); !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("Parse(%q) error = %v, want ErrEmptyDocument", text, err)
		}
	}
}

func TestParse_RoutesToDialectExtractor(t *testing.T) {
	d, err := NewDispatcher(Options{})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	rec, err := d.Parse(hdfcDocument)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if rec.BankDetected != "hdfc" {
		t.Errorf("BankDetected = %q, want \"hdfc\"", rec.BankDetected)
	}
	if rec.Confidence != 10 {
		t.Errorf("Confidence = %d, want 10", rec.Confidence)
	}
	if rec.ExtractionMethod != domain.MethodNative {
		t.Errorf("ExtractionMethod = %q, want %q", rec.ExtractionMethod, domain.MethodNative)
	}
	// The dues header row layout is only understood by the hdfc extractor.
	if rec.TotalAmountDue != "12450.75" {
		t.Errorf("TotalAmountDue = %q, want \"12450.75\"", rec.TotalAmountDue)
	}
	if len(rec.Transactions) != 2 {
		t.Fatalf("Transactions = %d, want 2", len(rec.Transactions))
	}
	if rec.Categories["Food"] != "450.00" {
		t.Errorf("Categories[Food] = %q, want \"450.00\" (credits excluded)", rec.Categories["Food"])
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParse_UnrecognizedTextFallsBackToGeneric(t *testing.T) {
	d, err := NewDispatcher(Options{})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	rec, err := d.Parse("quarterly shareholder letter, nothing statement shaped")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if rec.BankDetected != domain.BankUnknown {
		t.Errorf("BankDetected = %q, want %q", rec.BankDetected, domain.BankUnknown)
	}
	if rec.Confidence != 0 {
		t.Errorf("Confidence = %d, want 0", rec.Confidence)
	}
	if rec.CardholderName != domain.TextUnknown || rec.TotalAmountDue != domain.MoneyZero {
		t.Errorf("degraded fields = %q/%q, want sentinels", rec.CardholderName, rec.TotalAmountDue)
	}
	if len(rec.Transactions) != 0 {
		t.Errorf("Transactions = %d, want none", len(rec.Transactions))
	}
	if err := rec.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParse_MinConfidenceGatesDialectRouting(t *testing.T) {
	d, err := NewDispatcher(Options{MinConfidence: 20})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}

	// One signature match scores 10, below the raised threshold, so the
	// generic extractor runs. Detection provenance is still reported.
	rec, err := d.Parse(hdfcDocument)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if rec.BankDetected != "hdfc" || rec.Confidence != 10 {
		t.Errorf("detection = (%q, %d), want (\"hdfc\", 10)", rec.BankDetected, rec.Confidence)
	}
}
