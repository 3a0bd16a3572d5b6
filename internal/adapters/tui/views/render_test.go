package views

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "customer", 10, "customer"},
		{"exact", "customer", 8, "customer"},
		{"cut", "customerCount", 8, "custome…"},
		{"runes", "Überblick", 4, "Übe…"},
		{"width one", "abc", 1, "…"},
		{"no width", "abc", 0, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		name  string
		value string
		term  string
	}{
		{"single", "customerCount", "count"},
		{"repeated", "CustomerCustomer", "customer"},
		{"no match", "orderLine", "customer"},
		{"empty term", "customer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Highlight(tt.value, tt.term)
			// styling may be stripped without a terminal; the text must survive
			if stripped := stripANSI(got); stripped != tt.value {
				t.Errorf("Highlight(%q, %q) text = %q, want %q", tt.value, tt.term, stripped, tt.value)
			}
		})
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
