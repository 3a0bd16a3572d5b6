package application

import (
	"errors"
	"fmt"

	"mxfind/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrHostUnavailable   = errors.New("host unavailable")
	ErrEditorUnavailable = errors.New("editor unavailable")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrApplyFailed       = errors.New("apply failed")
	ErrTargetNotFound    = domain.ErrTargetNotFound
	ErrUnsupportedChange = domain.ErrUnsupportedChange
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ApplyError represents a failed write-back for one document
type ApplyError struct {
	Label      string
	DocumentID string
	Err        error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("failed to apply changes for %s: %v", e.Label, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}

func (e *ApplyError) Is(target error) bool {
	return target == ErrApplyFailed
}
