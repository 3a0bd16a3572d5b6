package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mxfind/internal/bootstrap"
	"mxfind/internal/config"
	"mxfind/internal/ports"
)

var (
	cfg       = config.Load()
	logger    *slog.Logger
	host      ports.Host
	closeHost = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "mxfind-cli",
	Short: "Find and replace names across a Mendix-style project model",
	Long: `mxfind-cli searches every name, caption, title and label in a project
model and replaces the term in place.

The model is either a directory of JSON documents (one folder per module)
or a SQLite index imported from one.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger = bootstrap.NewLogger(cfg, os.Stderr)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeHost()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		closeHost()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfg.ProjectPath, "project", "p", cfg.ProjectPath, "path to the project")
	flags.StringVar(&cfg.Store, "store", cfg.Store, "model store (filesystem or sqlite)")
	flags.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite index (default <project>/.mxfind/model.db)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
}

// GetHost opens the configured host on first use
func GetHost() (ports.Host, error) {
	if host != nil {
		return host, nil
	}
	h, closeFn, err := bootstrap.OpenHost(cfg, logger)
	if err != nil {
		return nil, err
	}
	host, closeHost = h, closeFn
	return host, nil
}
