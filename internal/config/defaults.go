package config

import (
	"os"
	"path/filepath"

	"github.com/bobmcallan/safe-email-mcp/internal/common"
)

// DefaultConfigPath is read when --config is not given. It may be absent.
const DefaultConfigPath = "safe-email-mcp.toml"

// DefaultHTTPPort is used by --http without a value.
const DefaultHTTPPort = 3000

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTP: false,
			Port: DefaultHTTPPort,
			Host: "localhost",
		},
		Graph: GraphConfig{
			BaseURL:        "https://graph.microsoft.com/v1.0",
			TimeoutSeconds: 60,
		},
		Auth: AuthConfig{
			ClientID:   "",
			TenantID:   "common",
			TokenCache: defaultTokenCache(),
		},
		Policy: PolicyConfig{
			ReadOnly:     false,
			EnabledTools: "",
		},
		Logging: common.LoggingConfig{
			Level:    "info",
			Outputs:  []string{"console"},
			FilePath: "logs/safe-email-mcp.log",
		},
	}
}

func defaultTokenCache() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".safe-email-mcp", "accounts.json")
	}
	return filepath.Join(home, ".safe-email-mcp", "accounts.json")
}
