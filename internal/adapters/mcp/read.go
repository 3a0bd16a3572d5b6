package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	j "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mxfind/internal/application/commands"
	"mxfind/internal/domain"
	"mxfind/internal/ports"
)

// RegisterReadTools adds the read-only model tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, host ports.Host, logger *slog.Logger) {
	s.AddTool(searchTool(), searchHandler(host, logger))
}

// --- search ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search",
		mcp.WithDescription("Search names, captions and titles across every document of the model. Matching is a case-insensitive substring test."),
		mcp.WithString("query",
			mcp.Description("Text to look for"),
			mcp.Required(),
		),
		mcp.WithString("format",
			mcp.Description("Output format: text (default) or json"),
			mcp.Enum("text", "json"),
		),
	)
}

func searchHandler(host ports.Host, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if strings.TrimSpace(query) == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		report, err := commands.NewSearchCommand(host, logger, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if req.GetString("format", "text") == "json" {
			return jsonResult(report.Results)
		}
		if len(report.Results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%d matches in %d documents\n", report.MatchCount(), len(report.Results))
		for _, r := range report.Results {
			writeResult(&sb, r)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func writeResult(sb *strings.Builder, r domain.SearchResult) {
	fmt.Fprintf(sb, "\n%s  (%s)  [%s]\n", r.DisplayName, r.CollectionLabel, r.DocumentID)
	for _, m := range r.Matches {
		fmt.Fprintf(sb, "  %s  %q  %s  target=%s property=%s\n",
			m.KindLabel, m.Value, m.PathDisplay(), m.TargetID, m.PropertyName)
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := j.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
