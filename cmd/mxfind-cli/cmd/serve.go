package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mxfind/internal/adapters/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve search and replace over HTTP",
	Long: `Start the HTTP JSON API:

  GET  /health
  GET  /api/search?q=<term>
  POST /api/replace
  POST /api/documents/{id}/open

Examples:
  mxfind-cli serve --addr :8095`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := GetHost()
		if err != nil {
			return err
		}

		httpServer := &http.Server{
			Addr:         cfg.Addr,
			Handler:      api.NewServer(h, logger),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			logger.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		logger.Info("starting mxfind api", "addr", cfg.Addr, "store", cfg.Store)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	rootCmd.AddCommand(serveCmd)
}
