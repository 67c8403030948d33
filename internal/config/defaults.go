package config

import "github.com/pressops/devto-mcp/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:       "0.0.0.0",
			Port:       8000,
			Transports: TransportBoth,
		},
		API: APIConfig{
			URL:     "https://dev.to/api",
			Timeout: "10s",
		},
		Logging: common.LoggingConfig{
			Level:   "info",
			Outputs: []string{"console", "file"},
		},
	}
}
