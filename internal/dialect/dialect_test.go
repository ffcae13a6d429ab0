package dialect

import (
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantID         string
		wantConfidence int
	}{
		{
			name:           "three hdfc mentions",
			text:           strings.Repeat("HDFC Bank Credit Card Statement\n", 3),
			wantID:         "hdfc",
			wantConfidence: 30,
		},
		{
			name:           "single axis mention",
			text:           "Axis Bank Statement for period",
			wantID:         "axis",
			wantConfidence: 10,
		},
		{
			name:           "no signatures",
			text:           "Some Unknown Cooperative Bank statement text",
			wantID:         "",
			wantConfidence: 0,
		},
		{
			name:           "case insensitive",
			text:           "icici bank credit card",
			wantID:         "icici",
			wantConfidence: 10,
		},
		{
			name:           "idfc spaced signature",
			text:           "IDFC  FIRST  Bank Credit Card Statement",
			wantID:         "idfc",
			wantConfidence: 10,
		},
		{
			name:           "higher count wins",
			text:           "Axis Bank\nICICI Bank\nICICI Bank\n",
			wantID:         "icici",
			wantConfidence: 20,
		},
	}

	reg := NewRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, confidence := reg.Detect(tt.text)
			if id != tt.wantID || confidence != tt.wantConfidence {
				t.Errorf("Detect() = (%q, %d), want (%q, %d)", id, confidence, tt.wantID, tt.wantConfidence)
			}
		})
	}
}

func TestDetect_TieBreakUsesPriorityOrder(t *testing.T) {
	// One signature each; axis precedes hdfc in the registry.
	text := "HDFC Bank\nAxis Bank\n"
	id, confidence := NewRegistry().Detect(text)
	if id != "axis" || confidence != 10 {
		t.Errorf("Detect() = (%q, %d), want tie resolved to (\"axis\", 10)", id, confidence)
	}
}

func TestScore_OverlappingSignaturesCountOnce(t *testing.T) {
	// "HDFC Bank Credit Card Statement" contains the shorter "HDFC Bank"
	// signature; non-overlapping scanning must count a single match.
	reg := NewRegistry()
	for _, d := range reg.Dialects() {
		if d.ID != "hdfc" {
			continue
		}
		if got := d.Score("HDFC Bank Credit Card Statement"); got != MatchWeight {
			t.Errorf("Score() = %d, want %d", got, MatchWeight)
		}
		return
	}
	t.Fatal("hdfc dialect not registered")
}

func TestScore_Monotonic(t *testing.T) {
	reg := NewRegistry()
	prev := 0
	for n := 1; n <= 5; n++ {
		text := strings.Repeat("Axis Bank ", n)
		_, confidence := reg.Detect(text)
		if confidence <= prev {
			t.Fatalf("confidence not monotonic: %d matches scored %d, previous %d", n, confidence, prev)
		}
		prev = confidence
	}
}
