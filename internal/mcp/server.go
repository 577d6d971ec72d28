package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/safe-email-mcp/internal/common"
	"github.com/bobmcallan/safe-email-mcp/internal/policy"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "safe-email-mcp"

// NewServer assembles the MCP server: the registered Graph tools in catalog
// order, then the auth tools when the policy allows them. authSvc may be
// nil only when the auth tools are excluded.
func NewServer(set *ToolSet, cfg policy.Config, authSvc AuthService, version string, logger *common.Logger) *server.MCPServer {
	srv := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	set.AddTo(srv, logger)

	includeAuth := policy.ShouldIncludeAuthTools(cfg) && authSvc != nil
	if includeAuth {
		addAuthTools(srv, authSvc, logger)
	}

	logger.Info().
		Int("tools", set.Len()).
		Bool("auth_tools", includeAuth).
		Str("transport", string(cfg.Transport)).
		Msg("MCP server initialized")

	return srv
}
