// Package bootstrap builds the logger and host every entry point runs against.
package bootstrap

import (
	"fmt"
	"io"
	"log/slog"

	"mxfind/internal/adapters/editor"
	"mxfind/internal/adapters/filesystem"
	"mxfind/internal/adapters/sqlite"
	"mxfind/internal/config"
	"mxfind/internal/ports"
)

// NewLogger returns a text logger writing to w at the configured level.
// A nil writer discards everything.
func NewLogger(cfg config.Config, w io.Writer) *slog.Logger {
	if w == nil {
		return slog.New(slog.DiscardHandler)
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// OpenProject opens the on-disk project with the $EDITOR opener attached
func OpenProject(cfg config.Config, logger *slog.Logger) (*filesystem.Project, error) {
	p, err := filesystem.NewProject(cfg.ProjectPath,
		filesystem.WithEditor(editor.NewOpener()),
		filesystem.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("open project %s: %w", cfg.ProjectPath, err)
	}
	return p, nil
}

// OpenIndex opens the SQLite model index at the configured path
func OpenIndex(cfg config.Config, logger *slog.Logger) (*sqlite.Index, error) {
	idx := sqlite.NewIndex(sqlite.WithLogger(logger))
	if err := idx.Open(cfg.IndexPath()); err != nil {
		return nil, fmt.Errorf("open index %s: %w", cfg.IndexPath(), err)
	}
	return idx, nil
}

func noClose() error { return nil }

// OpenHost opens the store selected by cfg.Store. The returned host is the
// adapter itself so capability probes see its optional interfaces.
func OpenHost(cfg config.Config, logger *slog.Logger) (ports.Host, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, noClose, err
	}
	switch cfg.Store {
	case config.StoreSQLite:
		idx, err := OpenIndex(cfg, logger)
		if err != nil {
			return nil, noClose, err
		}
		return idx, idx.Close, nil
	default:
		p, err := OpenProject(cfg, logger)
		if err != nil {
			return nil, noClose, err
		}
		return p, noClose, nil
	}
}
