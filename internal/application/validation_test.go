package application

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
		wantMsg   string
	}{
		{
			name:      "valid value",
			fieldName: "searchTerm",
			value:     "customer",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "searchTerm",
			value:     "",
			wantErr:   true,
			wantMsg:   "search term is required",
		},
		{
			name:      "whitespace only",
			fieldName: "documentID",
			value:     "   ",
			wantErr:   true,
			wantMsg:   "document ID is required",
		},
		{
			name:      "unknown field keeps its name",
			fieldName: "host",
			value:     "",
			wantErr:   true,
			wantMsg:   "host is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
				if valErr.Message != tt.wantMsg {
					t.Errorf("expected message %q, got %q", tt.wantMsg, valErr.Message)
				}
			}
		})
	}
}

func TestNormalizeTerm(t *testing.T) {
	if got := NormalizeTerm("  CustomerName \t"); got != "customername" {
		t.Errorf("expected customername, got %q", got)
	}
	if got := NormalizeTerm("   "); got != "" {
		t.Errorf("expected empty term, got %q", got)
	}
}

func TestApplyError(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("replace: %w", &ApplyError{Label: "Microflow - Sales / ACT_Save", DocumentID: "m1", Err: cause})

	if !errors.Is(err, ErrApplyFailed) {
		t.Errorf("expected ErrApplyFailed to match")
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected the cause to be unwrapped")
	}
	want := "replace: failed to apply changes for Microflow - Sales / ACT_Save: disk full"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
