package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/safe-email-mcp/internal/catalog"
)

// BuildTool converts an endpoint into an mcp.Tool with the matching input
// schema. GET tools carry the read-only hint; no exposed tool is destructive.
func BuildTool(ep catalog.Endpoint) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(ep.Description),
		mcp.WithReadOnlyHintAnnotation(ep.Method.Normalize() == catalog.MethodGet),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	}
	for _, p := range ep.Parameters {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(ep.Alias, opts...)
}

// buildParamOption maps a Parameter to the appropriate mcp-go tool option.
func buildParamOption(p catalog.Parameter) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}

	switch p.Type {
	case "number", "integer":
		return mcp.WithNumber(p.Name, opts...)
	case "boolean":
		return mcp.WithBoolean(p.Name, opts...)
	case "object":
		return mcp.WithObject(p.Name, opts...)
	case "array":
		items := p.Items
		if items == "" {
			items = "string"
		}
		opts = append([]mcp.PropertyOption{mcp.Items(map[string]any{"type": items})}, opts...)
		return mcp.WithArray(p.Name, opts...)
	default:
		return mcp.WithString(p.Name, opts...)
	}
}
