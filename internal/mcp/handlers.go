package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/safe-email-mcp/internal/common"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// jsonResult marshals v into a text result.
func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error: failed to marshal result")
	}
	return mcp.NewToolResultText(string(out))
}

// toolHandler adapts an invocation function to mcp-go. Failures become
// IsError results so one failing tool never surfaces as a protocol error.
func toolHandler(name string, invoke func(context.Context, map[string]any) ([]byte, error), logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := logger.WithCorrelationId(uuid.New().String())
		start := time.Now()

		out, err := invoke(ctx, r.GetArguments())
		if err != nil {
			log.Warn().Str("tool", name).Dur("duration", time.Since(start)).Str("error", err.Error()).Msg("tool call failed")
			return errorResult("Error: " + err.Error()), nil
		}

		log.Info().Str("tool", name).Dur("duration", time.Since(start)).Int("bytes", len(out)).Msg("tool call")
		return mcp.NewToolResultText(string(out)), nil
	}
}
