package mcp

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/pressops/devto-mcp/internal/common"
)

func TestConnectionKey_BearerHeader(t *testing.T) {
	r := httptest.NewRequest("POST", "/mcp", nil)
	r.Header.Set("Authorization", "Bearer conn-key")

	if got := connectionKey(r); got != "conn-key" {
		t.Errorf("expected conn-key, got %q", got)
	}
}

func TestConnectionKey_XApiKeyFallback(t *testing.T) {
	r := httptest.NewRequest("POST", "/mcp", nil)
	r.Header.Set("X-Api-Key", "x-key")

	if got := connectionKey(r); got != "x-key" {
		t.Errorf("expected x-key, got %q", got)
	}
}

func TestConnectionKey_BearerBeatsXApiKey(t *testing.T) {
	r := httptest.NewRequest("POST", "/mcp", nil)
	r.Header.Set("Authorization", "Bearer bearer-key")
	r.Header.Set("X-Api-Key", "x-key")

	if got := connectionKey(r); got != "bearer-key" {
		t.Errorf("expected bearer-key, got %q", got)
	}
}

func TestConnectionKey_Absent(t *testing.T) {
	r := httptest.NewRequest("POST", "/mcp", nil)
	if got := connectionKey(r); got != "" {
		t.Errorf("expected no key, got %q", got)
	}

	// Non-bearer Authorization schemes are ignored
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	if got := connectionKey(r); got != "" {
		t.Errorf("expected no key for basic auth, got %q", got)
	}
}

func TestNewServer_RegistersCatalog(t *testing.T) {
	d := newTestDispatcher(&fakeUpstream{})

	s := NewServer(d, "", common.NewSilentLogger())
	if s == nil {
		t.Fatal("expected a server")
	}
}

func TestRegisterPrompts_HandlersRenderArguments(t *testing.T) {
	handler := staticPrompt(func(args map[string]string) string {
		return "look up " + args["username"]
	})

	request := mcpgo.GetPromptRequest{}
	request.Params.Arguments = map[string]string{"username": "alice"}

	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(result.Messages))
	}

	text := result.Messages[0].Content.(mcpgo.TextContent).Text
	if !strings.Contains(text, "alice") {
		t.Errorf("expected rendered argument, got %q", text)
	}
	if result.Messages[0].Role != mcpgo.RoleUser {
		t.Errorf("expected user role, got %s", result.Messages[0].Role)
	}
}
