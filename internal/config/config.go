package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/pressops/devto-mcp/internal/common"
)

// Transport selection values for ServerConfig.Transports.
const (
	TransportMCP  = "mcp"
	TransportREST = "rest"
	TransportBoth = "both"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	API     APIConfig            `toml:"api"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	Transports string `toml:"transports"` // "mcp", "rest", or "both"
}

// APIConfig contains upstream dev.to API settings.
type APIConfig struct {
	URL string `toml:"url"`
	// Key is the optional process-wide fallback credential. Per-call and
	// per-session credentials always take precedence over it.
	Key string `toml:"key"`
	// Timeout is the per-call upstream timeout (e.g. "10s").
	Timeout string `toml:"timeout"`
	// RESTFallbackKey controls whether the fallback key may authenticate
	// REST calls. REST callers normally carry their own key per request,
	// so this defaults to false.
	RESTFallbackKey bool `toml:"rest_fallback_key"`
}

// GetTimeout parses and returns the upstream timeout duration.
func (c *APIConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// ServeMCP reports whether the MCP transport should be mounted.
func (c *ServerConfig) ServeMCP() bool {
	t := strings.ToLower(strings.TrimSpace(c.Transports))
	return t == "" || t == TransportBoth || t == TransportMCP
}

// ServeREST reports whether the REST transport should be mounted.
func (c *ServerConfig) ServeREST() bool {
	t := strings.ToLower(strings.TrimSpace(c.Transports))
	return t == "" || t == TransportBoth || t == TransportREST
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

// applyEnvOverrides applies DEVTO_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("DEVTO_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("DEVTO_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if transports := os.Getenv("DEVTO_TRANSPORTS"); transports != "" {
		config.Server.Transports = transports
	}
	if url := os.Getenv("DEVTO_API_URL"); url != "" {
		config.API.URL = url
	}
	if key := os.Getenv("DEVTO_API_KEY"); key != "" {
		config.API.Key = key
	}
	if level := os.Getenv("DEVTO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks mandatory configuration and returns human-readable issues.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}
	if c.API.URL == "" {
		issues = append(issues, "api.url is required (the dev.to API base URL)")
	}
	switch strings.ToLower(strings.TrimSpace(c.Server.Transports)) {
	case "", TransportMCP, TransportREST, TransportBoth:
	default:
		issues = append(issues, fmt.Sprintf("server.transports must be %q, %q, or %q (got %q)",
			TransportMCP, TransportREST, TransportBoth, c.Server.Transports))
	}

	return issues
}
