package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/safe-email-mcp/internal/auth"
	"github.com/bobmcallan/safe-email-mcp/internal/common"
)

// AuthService is the account management surface behind the auth tools.
// auth.Manager implements it.
type AuthService interface {
	IsLoggedIn() bool
	StartLogin(ctx context.Context) (auth.DeviceCode, error)
	Logout() error
	VerifyLogin(ctx context.Context) (*auth.VerifyResult, error)
	ListAccounts() ([]auth.Account, string, error)
	SelectAccount(id string) error
}

// Auth tool names. They are not catalog aliases and bypass the exposure
// policy; publication is gated by policy.ShouldIncludeAuthTools only.
const (
	ToolLogin         = "login"
	ToolLogout        = "logout"
	ToolVerifyLogin   = "verify-login"
	ToolListAccounts  = "list-accounts"
	ToolSelectAccount = "select-account"
)

// AuthToolNames lists the auth tools in publication order.
var AuthToolNames = []string{ToolLogin, ToolLogout, ToolVerifyLogin, ToolListAccounts, ToolSelectAccount}

// addAuthTools publishes the auth tools on srv.
func addAuthTools(srv *server.MCPServer, svc AuthService, logger *common.Logger) {
	srv.AddTool(mcp.NewTool(ToolLogin,
		mcp.WithDescription("Authenticate with Microsoft using the device code flow. Returns a code to enter at the verification URL."),
		mcp.WithBoolean("force", mcp.Description("Force a new login even if already logged in")),
		mcp.WithDestructiveHintAnnotation(false),
	), loginHandler(svc, logger))

	srv.AddTool(mcp.NewTool(ToolLogout,
		mcp.WithDescription("Log out from Microsoft and clear the cached accounts."),
		mcp.WithDestructiveHintAnnotation(false),
	), logoutHandler(svc, logger))

	srv.AddTool(mcp.NewTool(ToolVerifyLogin,
		mcp.WithDescription("Check the current Microsoft authentication status."),
		mcp.WithReadOnlyHintAnnotation(true),
	), verifyLoginHandler(svc))

	srv.AddTool(mcp.NewTool(ToolListAccounts,
		mcp.WithDescription("List the Microsoft accounts cached on this machine."),
		mcp.WithReadOnlyHintAnnotation(true),
	), listAccountsHandler(svc))

	srv.AddTool(mcp.NewTool(ToolSelectAccount,
		mcp.WithDescription("Select the Microsoft account used for Graph requests."),
		mcp.WithString("account_id", mcp.Required(), mcp.Description("Account id as returned by list-accounts")),
		mcp.WithDestructiveHintAnnotation(false),
	), selectAccountHandler(svc, logger))
}

func loginHandler(svc AuthService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !r.GetBool("force", false) && svc.IsLoggedIn() {
			res, err := svc.VerifyLogin(ctx)
			if err == nil && res.Success {
				return jsonResult(map[string]any{
					"status":   "Already logged in",
					"userData": res.UserData,
				}), nil
			}
		}

		code, err := svc.StartLogin(ctx)
		if err != nil {
			logger.Warn().Str("error", err.Error()).Msg("login tool failed")
			return errorResult("Error: " + err.Error()), nil
		}
		return mcp.NewToolResultText(code.Message()), nil
	}
}

func logoutHandler(svc AuthService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := svc.Logout(); err != nil {
			logger.Warn().Str("error", err.Error()).Msg("logout tool failed")
			return errorResult("Error: " + err.Error()), nil
		}
		return jsonResult(map[string]string{"message": "Logged out successfully"}), nil
	}
}

func verifyLoginHandler(svc AuthService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := svc.VerifyLogin(ctx)
		if err != nil {
			return errorResult("Error: " + err.Error()), nil
		}
		return jsonResult(res), nil
	}
}

func listAccountsHandler(svc AuthService) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		accounts, selected, err := svc.ListAccounts()
		if err != nil {
			return errorResult("Error: " + err.Error()), nil
		}

		type entry struct {
			ID       string `json:"id"`
			Username string `json:"username"`
			Name     string `json:"name,omitempty"`
			Selected bool   `json:"selected"`
		}
		out := make([]entry, 0, len(accounts))
		for _, a := range accounts {
			out = append(out, entry{ID: a.ID, Username: a.Username, Name: a.Name, Selected: a.ID == selected})
		}
		return jsonResult(map[string]any{"accounts": out}), nil
	}
}

func selectAccountHandler(svc AuthService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := r.RequireString("account_id")
		if err != nil || id == "" {
			return errorResult("Error: account_id parameter is required"), nil
		}
		if err := svc.SelectAccount(id); err != nil {
			return errorResult("Error: " + err.Error()), nil
		}
		logger.Info().Str("account", id).Msg("account selected")
		return jsonResult(map[string]string{"message": "Selected account " + id}), nil
	}
}
