package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "mxfind/internal/adapters/mcp"
	"mxfind/internal/bootstrap"
	"mxfind/internal/config"
)

func main() {
	cfg := config.Load()
	flag.StringVar(&cfg.ProjectPath, "project", cfg.ProjectPath, "path to the project")
	flag.StringVar(&cfg.Store, "store", cfg.Store, "model store (filesystem or sqlite)")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to the sqlite index")
	flag.Parse()

	// stdout carries the protocol; logs go to stderr
	logger := bootstrap.NewLogger(cfg, os.Stderr)

	host, closeHost, err := bootstrap.OpenHost(cfg, logger)
	if err != nil {
		log.Fatalf("mxfind-mcp: %v", err)
	}
	defer closeHost()

	mcpServer := server.NewMCPServer(
		"mxfind-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, host, logger)
	mcpadapter.RegisterWriteTools(mcpServer, host, logger)

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("mcp.serve.err", "err", err)
		closeHost()
		os.Exit(1)
	}
}
