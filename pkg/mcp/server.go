// Package mcp exposes the BOQ pipeline to MCP clients over stdio: reading
// the accumulated bill, polling run status, and chat-driven editing.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tamerhisham/autoboq/pkg/boq"
	"github.com/tamerhisham/autoboq/pkg/service"
)

// MCPServer wraps the analysis service to expose it via MCP.
type MCPServer struct {
	analysis *service.AnalysisService
}

// Run starts the MCP server on Stdio.
func Run(ctx context.Context, analysis *service.AnalysisService) error {
	s := server.NewMCPServer(
		"AutoBOQ-Backend",
		"0.1.0",
		server.WithResourceCapabilities(true, true),
		server.WithLogging(),
	)

	ms := &MCPServer{analysis: analysis}

	// --- Resources ---

	// Resource: Extraction Catalog
	s.AddResource(
		mcp.NewResource(
			"autoboq://catalog",
			"Extraction Catalog",
			mcp.WithResourceDescription("The fixed, ordered extraction phase catalog"),
			mcp.WithMIMEType("application/json"),
		),
		ms.handleCatalog,
	)

	// --- Tools ---

	// Tool: List BOQ Items
	s.AddTool(
		mcp.NewTool(
			"list_boq_items",
			mcp.WithDescription("List the accumulated Bill of Quantities items."),
			mcp.WithString("category", mcp.Description("Optional category filter (Arabic module title)")),
		),
		ms.handleListItems,
	)

	// Tool: Get Run Status
	s.AddTool(
		mcp.NewTool(
			"get_run_status",
			mcp.WithDescription("Get status, logs and per-module completions for an extraction run."),
			mcp.WithString("run_id", mcp.Required(), mcp.Description("The run id returned when the analysis started")),
		),
		ms.handleRunStatus,
	)

	// Tool: Edit BOQ
	s.AddTool(
		mcp.NewTool(
			"edit_boq",
			mcp.WithDescription("Edit the BOQ through a free-text instruction (add/update/delete line items)."),
			mcp.WithString("instruction", mcp.Required(), mcp.Description("The edit instruction, e.g. 'set item 4 total to 10'")),
			mcp.WithString("model", mcp.Description("Model name; defaults to the configured default")),
		),
		ms.handleEditBOQ,
	)

	slog.Info("Starting MCP server on Stdio")
	return server.ServeStdio(s)
}

// --- Resource Handlers ---

func (ms *MCPServer) handleCatalog(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.MarshalIndent(ms.analysis.Catalog(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

// --- Tool Handlers ---

func (ms *MCPServer) handleListItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	category, _ := args["category"].(string)

	items := ms.analysis.Items()
	if category != "" {
		filtered := items[:0]
		for _, it := range items {
			if it.Category == category {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	jsonBytes, err := json.Marshal(items)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *MCPServer) handleRunStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	runID, ok := args["run_id"].(string)
	if !ok || runID == "" {
		return mcp.NewToolResultError("run_id argument required"), nil
	}

	view, err := ms.analysis.Run(runID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("run lookup failed: %v", err)), nil
	}
	jsonBytes, err := json.Marshal(view)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (ms *MCPServer) handleEditBOQ(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	instruction, ok := args["instruction"].(string)
	if !ok || instruction == "" {
		return mcp.NewToolResultError("instruction argument required"), nil
	}

	model := boq.DefaultModel
	if m, ok := args["model"].(string); ok && m != "" {
		model = boq.ModelName(m)
	}

	result, err := ms.analysis.Chat(ctx, model, instruction)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("edit failed: %v", err)), nil
	}

	payload := map[string]any{"response": result.ResponseText, "updated": result.Updated}
	if result.Updated {
		payload["items"] = result.Items
	}
	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
