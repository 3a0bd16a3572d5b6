package domain

import "testing"

func TestReplaceFold(t *testing.T) {
	tests := []struct {
		name        string
		value       string
		search      string
		replacement string
		want        string
	}{
		{"every occurrence", "FooBarFoo", "Foo", "Bar", "BarBarBar"},
		{"case-insensitive", "fooBAR", "FOO", "x", "xBAR"},
		{"metacharacters are literal", "a.b.c", ".", "-", "a-b-c"},
		{"replacement is literal", "Price $1", "$1", "$2", "Price $2"},
		{"no occurrence", "same", "x", "y", "same"},
		{"empty search", "same", "", "y", "same"},
		{"same replacement is a no-op", "Customer", "customer", "Customer", "Customer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplaceFold(tt.value, tt.search, tt.replacement); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
