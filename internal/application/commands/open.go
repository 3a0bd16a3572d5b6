package commands

import (
	"context"
	"fmt"

	"mxfind/internal/application"
	"mxfind/internal/ports"
)

// OpenDocumentResult contains the result of an open operation
type OpenDocumentResult struct {
	DocumentID string
	Message    string
}

// OpenDocumentCommand opens a document in the host's editor
type OpenDocumentCommand struct {
	host       ports.Host
	DocumentID string
}

// NewOpenDocumentCommand creates a new OpenDocumentCommand
func NewOpenDocumentCommand(host ports.Host, documentID string) *OpenDocumentCommand {
	return &OpenDocumentCommand{host: host, DocumentID: documentID}
}

// Validate checks if the open operation is valid
func (c *OpenDocumentCommand) Validate() error {
	return application.ValidateRequired("documentID", c.DocumentID)
}

// Execute runs the open command
func (c *OpenDocumentCommand) Execute(ctx context.Context) (*OpenDocumentResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.host == nil {
		return nil, application.ErrHostUnavailable
	}

	editor, ok := c.host.(ports.DocumentEditor)
	if !ok {
		return nil, application.ErrEditorUnavailable
	}
	if err := editor.EditDocument(ctx, c.DocumentID); err != nil {
		return nil, fmt.Errorf("open %s: %w", c.DocumentID, err)
	}

	return &OpenDocumentResult{
		DocumentID: c.DocumentID,
		Message:    fmt.Sprintf("Opened %s", c.DocumentID),
	}, nil
}
