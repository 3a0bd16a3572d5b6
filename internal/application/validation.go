package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", formatFieldName(fieldName)),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "documentID" -> "document ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"searchTerm":   "search term",
		"replaceTerm":  "replace term",
		"documentID":   "document ID",
		"targetID":     "target ID",
		"propertyName": "property name",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}
	return fieldName
}

// NormalizeTerm trims a raw search term and lowercases it for matching
func NormalizeTerm(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
