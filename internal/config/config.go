// Package config loads the server configuration. Values are resolved with
// priority defaults -> TOML files -> environment -> command-line flags.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/safe-email-mcp/internal/common"
	"github.com/bobmcallan/safe-email-mcp/internal/policy"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Graph   GraphConfig          `toml:"graph"`
	Auth    AuthConfig           `toml:"auth"`
	Policy  PolicyConfig         `toml:"policy"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains transport settings. HTTP false means stdio.
type ServerConfig struct {
	HTTP bool   `toml:"http"`
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// GraphConfig contains Microsoft Graph client settings.
type GraphConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the per-request timeout.
func (g GraphConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// AuthConfig contains device-code login settings.
type AuthConfig struct {
	ClientID        string `toml:"client_id"`
	TenantID        string `toml:"tenant_id"`
	TokenCache      string `toml:"token_cache"`
	EnableAuthTools bool   `toml:"enable_auth_tools"`
}

// PolicyConfig contains the tool exposure settings.
type PolicyConfig struct {
	ReadOnly     bool   `toml:"read_only"`
	EnabledTools string `toml:"enabled_tools"`
}

// Transport returns the transport selected by the server settings.
func (c *Config) Transport() policy.Transport {
	if c.Server.HTTP {
		return policy.TransportHTTP
	}
	return policy.TransportStdio
}

// ExposurePolicy builds the immutable exposure policy. A malformed
// enabled-tools pattern is an error.
func (c *Config) ExposurePolicy() (policy.Config, error) {
	return policy.NewConfig(c.Policy.ReadOnly, c.Policy.EnabledTools, c.Auth.EnableAuthTools, c.Transport())
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// Load resolves the config file named by flags and applies every override.
// The default config path may be absent; an explicit --config must exist.
func Load(flags *Flags) (*Config, error) {
	path := flags.ConfigPath
	if !flags.Changed("config") {
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}

	cfg, err := LoadFromFiles(path)
	if err != nil {
		return nil, err
	}
	ApplyFlagOverrides(cfg, flags)
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Invalid boolean and numeric values are ignored.
func applyEnvOverrides(config *Config) {
	if v, ok := os.LookupEnv("READ_ONLY"); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			config.Policy.ReadOnly = b
		}
	}
	if pattern, ok := os.LookupEnv("ENABLED_TOOLS"); ok {
		config.Policy.EnabledTools = pattern
	}
	if clientID := os.Getenv("MS365_MCP_CLIENT_ID"); clientID != "" {
		config.Auth.ClientID = clientID
	}
	if tenantID := os.Getenv("MS365_MCP_TENANT_ID"); tenantID != "" {
		config.Auth.TenantID = tenantID
	}
	if cache := os.Getenv("MS365_MCP_TOKEN_CACHE"); cache != "" {
		config.Auth.TokenCache = cache
	}
	if level := os.Getenv("SAFE_EMAIL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if port := os.Getenv("SAFE_EMAIL_HTTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			config.Server.Port = p
		}
	}
}

// ApplyFlagOverrides applies the command-line flags the user actually
// passed. A flag left at its default never overrides the file or env.
func ApplyFlagOverrides(config *Config, flags *Flags) {
	if flags.Changed("read-only") {
		config.Policy.ReadOnly = flags.ReadOnly
	}
	if flags.Changed("enabled-tools") {
		config.Policy.EnabledTools = flags.EnabledTools
	}
	if flags.Changed("enable-auth-tools") {
		config.Auth.EnableAuthTools = flags.EnableAuthTools
	}
	if flags.Changed("http") {
		config.Server.HTTP = true
		if flags.HTTPPort > 0 {
			config.Server.Port = flags.HTTPPort
		}
	}
	if flags.Verbose {
		config.Logging.Level = "debug"
	}
}
