package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Transports != TransportBoth {
		t.Errorf("expected default transports both, got %s", cfg.Server.Transports)
	}
	if cfg.API.URL != "https://dev.to/api" {
		t.Errorf("unexpected default API URL %s", cfg.API.URL)
	}
	if cfg.API.Key != "" {
		t.Error("no fallback key should be configured by default")
	}
	if cfg.API.RESTFallbackKey {
		t.Error("REST fallback must be opt-in")
	}
}

func TestLoadFromFiles_TOMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "devto-mcp.toml")
	content := `
[server]
port = 9000
transports = "rest"

[api]
key = "file-key"
timeout = "5s"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromFiles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Transports != "rest" {
		t.Errorf("expected transports rest, got %s", cfg.Server.Transports)
	}
	if cfg.API.Key != "file-key" {
		t.Errorf("expected file-key, got %s", cfg.API.Key)
	}
	if cfg.API.GetTimeout() != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.API.GetTimeout())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}
	// Untouched sections keep their defaults
	if cfg.API.URL != "https://dev.to/api" {
		t.Errorf("expected default API URL preserved, got %s", cfg.API.URL)
	}
}

func TestLoadFromFiles_EnvOverridesFile(t *testing.T) {
	t.Setenv("DEVTO_SERVER_PORT", "7777")
	t.Setenv("DEVTO_API_KEY", "env-key")
	t.Setenv("DEVTO_TRANSPORTS", "mcp")

	cfg, err := LoadFromFiles()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 7777 {
		t.Errorf("expected env port 7777, got %d", cfg.Server.Port)
	}
	if cfg.API.Key != "env-key" {
		t.Errorf("expected env-key, got %s", cfg.API.Key)
	}
	if cfg.Server.Transports != "mcp" {
		t.Errorf("expected transports mcp, got %s", cfg.Server.Transports)
	}
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles("/nonexistent/devto-mcp.toml")
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()

	ApplyFlagOverrides(cfg, 9999, "127.0.0.1")
	if cfg.Server.Port != 9999 || cfg.Server.Host != "127.0.0.1" {
		t.Errorf("flag overrides not applied: %+v", cfg.Server)
	}

	ApplyFlagOverrides(cfg, 0, "")
	if cfg.Server.Port != 9999 || cfg.Server.Host != "127.0.0.1" {
		t.Error("zero-value flags must not override")
	}
}

func TestValidate(t *testing.T) {
	cfg := NewDefaultConfig()
	if issues := cfg.Validate(); len(issues) != 0 {
		t.Errorf("default config should validate, got %v", issues)
	}

	cfg.Server.Port = 0
	cfg.API.URL = ""
	cfg.Server.Transports = "carrier-pigeon"
	issues := cfg.Validate()
	if len(issues) != 3 {
		t.Errorf("expected 3 issues, got %d: %v", len(issues), issues)
	}
}

func TestGetTimeout_Fallback(t *testing.T) {
	api := APIConfig{Timeout: "bogus"}
	if api.GetTimeout() != 10*time.Second {
		t.Errorf("expected 10s fallback, got %s", api.GetTimeout())
	}

	api.Timeout = "-3s"
	if api.GetTimeout() != 10*time.Second {
		t.Errorf("expected 10s fallback for negative, got %s", api.GetTimeout())
	}
}

func TestTransportSelection(t *testing.T) {
	tests := []struct {
		transports string
		mcp        bool
		rest       bool
	}{
		{"both", true, true},
		{"", true, true},
		{"mcp", true, false},
		{"rest", false, true},
		{"MCP", true, false},
	}

	for _, tt := range tests {
		sc := ServerConfig{Transports: tt.transports}
		if sc.ServeMCP() != tt.mcp {
			t.Errorf("transports %q: ServeMCP = %v, want %v", tt.transports, sc.ServeMCP(), tt.mcp)
		}
		if sc.ServeREST() != tt.rest {
			t.Errorf("transports %q: ServeREST = %v, want %v", tt.transports, sc.ServeREST(), tt.rest)
		}
	}
}
