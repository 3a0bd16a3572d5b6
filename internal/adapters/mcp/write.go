package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mxfind/internal/application/commands"
	"mxfind/internal/domain"
	"mxfind/internal/ports"
)

// RegisterWriteTools adds the tools that change the model or its editor.
func RegisterWriteTools(s *server.MCPServer, host ports.Host, logger *slog.Logger) {
	s.AddTool(replaceTool(), replaceHandler(host, logger))
	s.AddTool(replaceAllTool(), replaceAllHandler(host, logger))
	s.AddTool(openDocumentTool(), openDocumentHandler(host))
}

// --- replace ---

func replaceTool() mcp.Tool {
	return mcp.NewTool("replace",
		mcp.WithDescription("Replace the query inside one match. Run search first to get the document, target and property of the match."),
		mcp.WithString("query",
			mcp.Description("Text to replace, as passed to search"),
			mcp.Required(),
		),
		mcp.WithString("replacement",
			mcp.Description("Replacement text (may be empty)"),
		),
		mcp.WithString("document_id",
			mcp.Description("Document holding the match"),
			mcp.Required(),
		),
		mcp.WithString("target_id",
			mcp.Description("Element holding the matched property"),
			mcp.Required(),
		),
		mcp.WithString("property",
			mcp.Description("Matched property name. Omit to take the first match on the target."),
		),
	)
}

func replaceHandler(host ports.Host, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		replacement := req.GetString("replacement", "")
		documentID := req.GetString("document_id", "")
		targetID := req.GetString("target_id", "")
		property := req.GetString("property", "")

		report, err := commands.NewSearchCommand(host, logger, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		result, match, ok := domain.LocateMatch(report.Results, documentID, targetID, property)
		if !ok {
			return toolError(fmt.Errorf("no match for %q on %s in document %s", query, targetID, documentID))
		}

		rep, err := commands.NewReplaceMatchCommand(host, logger, result, match, query, replacement).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return replaceResult(rep), nil
	}
}

// --- replace_all ---

func replaceAllTool() mcp.Tool {
	return mcp.NewTool("replace_all",
		mcp.WithDescription("Search for the query and replace it in every match. Each document is written in one step."),
		mcp.WithString("query",
			mcp.Description("Text to replace"),
			mcp.Required(),
		),
		mcp.WithString("replacement",
			mcp.Description("Replacement text (may be empty)"),
		),
		mcp.WithString("document_id",
			mcp.Description("Restrict the replacement to one document"),
		),
	)
}

func replaceAllHandler(host ports.Host, logger *slog.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		replacement := req.GetString("replacement", "")

		report, err := commands.NewSearchCommand(host, logger, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		results := domain.FilterDocument(report.Results, req.GetString("document_id", ""))

		rep, err := commands.NewReplaceCommand(host, logger, results, query, replacement).Execute(ctx)
		if rep == nil {
			return toolError(err)
		}
		res := replaceResult(rep)
		if err != nil {
			res.IsError = !rep.Success
			res.Content = append(res.Content, mcp.NewTextContent(err.Error()))
		}
		return res, nil
	}
}

func replaceResult(rep *domain.ReplaceReport) *mcp.CallToolResult {
	var sb strings.Builder
	sb.WriteString(rep.Message)
	for _, r := range rep.Replacements {
		fmt.Fprintf(&sb, "\n  %s  %q -> %q  [%s/%s]", r.KindLabel, r.OldValue, r.NewValue, r.DocumentID, r.TargetID)
	}
	if rep.Skipped > 0 {
		fmt.Fprintf(&sb, "\n%d matches skipped", rep.Skipped)
	}
	return mcp.NewToolResultText(sb.String())
}

// --- open_document ---

func openDocumentTool() mcp.Tool {
	return mcp.NewTool("open_document",
		mcp.WithDescription("Open a document in the host's editor."),
		mcp.WithString("document_id",
			mcp.Description("Document to open"),
			mcp.Required(),
		),
	)
}

func openDocumentHandler(host ports.Host) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cmd := commands.NewOpenDocumentCommand(host, req.GetString("document_id", ""))
		result, err := cmd.Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(result.Message), nil
	}
}
