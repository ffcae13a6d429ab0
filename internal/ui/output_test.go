package ui

import "testing"

func TestCenter(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{"shorter than width", "Hello", 15, "     Hello"},
		{"exact width", "Hello", 5, "Hello"},
		{"wider than width", "Hello World", 5, "Hello World"},
		{"empty text", "", 4, "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := center(tt.text, tt.width); got != tt.want {
				t.Errorf("center(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestOutputFunctions(t *testing.T) {
	// Smoke checks: the helpers write to stdout and must not panic.
	Header("Batch Parse")
	Step(1, 3, "extracting text")
	Success("parsed statement")
	Info("using embedded taxonomy")
	Warning("low confidence")
	Error("no text layer")
	BlueText("detail")
	YellowText("notice")
}
