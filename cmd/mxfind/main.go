package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mxfind/internal/adapters/editor"
	"mxfind/internal/adapters/tui"
	"mxfind/internal/bootstrap"
	"mxfind/internal/config"
)

func main() {
	cfg := config.Load()
	flag.StringVar(&cfg.ProjectPath, "project", cfg.ProjectPath, "path to the project")
	flag.StringVar(&cfg.Store, "store", cfg.Store, "model store (filesystem or sqlite)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite index")
	flag.Parse()

	// The terminal belongs to the TUI, so nothing is logged
	logger := bootstrap.NewLogger(cfg, nil)

	host, closeHost, err := bootstrap.OpenHost(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeHost()

	app := tui.NewApp(host, editor.NewOpener(), logger)

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		closeHost()
		os.Exit(1)
	}
}
