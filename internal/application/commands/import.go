package commands

import (
	"context"
	"fmt"
	"log/slog"

	"mxfind/internal/application"
	"mxfind/internal/domain"
	"mxfind/internal/ports"
)

// ImportResult contains the result of an import
type ImportResult struct {
	Stats   *domain.ImportStats
	Message string
}

// ImportCommand copies a project into a model index
type ImportCommand struct {
	index  ports.ModelIndex
	source ports.Host
	logger *slog.Logger
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand(index ports.ModelIndex, source ports.Host, logger *slog.Logger) *ImportCommand {
	return &ImportCommand{index: index, source: source, logger: orDiscard(logger)}
}

// Execute runs the import
func (c *ImportCommand) Execute(ctx context.Context) (*ImportResult, error) {
	if c.index == nil || c.source == nil {
		return nil, application.ErrHostUnavailable
	}
	projects := application.Probe(application.ProjectsKey, c.source.Access(application.ProjectsKey))
	if !projects.CanTraverse() {
		return nil, fmt.Errorf("%w: source cannot be traversed", application.ErrHostUnavailable)
	}

	stats, err := c.index.Import(ctx, c.source)
	if err != nil {
		return nil, fmt.Errorf("import: %w", err)
	}
	c.logger.Info("import.done",
		"added", stats.DocumentsAdded,
		"updated", stats.DocumentsUpdated,
		"kept", stats.DocumentsKept,
		"removed", stats.DocumentsGone,
		"failures", stats.LoadFailures,
		"duration", stats.Duration,
	)

	return &ImportResult{
		Stats: stats,
		Message: fmt.Sprintf("Imported %d documents (%d new, %d updated, %d unchanged, %d removed)",
			stats.DocumentsAdded+stats.DocumentsUpdated+stats.DocumentsKept,
			stats.DocumentsAdded, stats.DocumentsUpdated, stats.DocumentsKept, stats.DocumentsGone),
	}, nil
}
