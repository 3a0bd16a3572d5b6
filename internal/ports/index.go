package ports

import (
	"context"

	"mxfind/internal/domain"
)

// ModelIndex is a persistent copy of a project model that can be searched and
// written like a live host.
type ModelIndex interface {
	Host

	// Lifecycle
	Open(path string) error
	Close() error

	// Import replaces the stored model with everything reachable through
	// source's project traversal.
	Import(ctx context.Context, source Host) (*domain.ImportStats, error)
}
