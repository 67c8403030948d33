package mcp

import (
	"context"
	"encoding/json"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/pressops/devto-mcp/internal/common"
	"github.com/pressops/devto-mcp/internal/gateway"
)

// fakeUpstream records the last request so tests can assert credentials
// without touching the network.
type fakeUpstream struct {
	calls   int
	lastReq *gateway.UpstreamRequest
	err     error
}

func (f *fakeUpstream) Execute(ctx context.Context, req *gateway.UpstreamRequest) (json.RawMessage, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(`{"id": 1}`), nil
}

func newTestDispatcher(f *fakeUpstream) *gateway.Dispatcher {
	passthrough := func(shape gateway.Shape, raw json.RawMessage) (interface{}, error) {
		return raw, nil
	}
	return gateway.NewDispatcher(gateway.NewCatalog(), f, passthrough, common.NewSilentLogger())
}

func callTool(t *testing.T, handler func(context.Context, mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error),
	ctx context.Context, args map[string]interface{}) *mcpgo.CallToolResult {
	t.Helper()
	request := mcpgo.CallToolRequest{}
	request.Params.Arguments = args
	result, err := handler(ctx, request)
	if err != nil {
		t.Fatalf("handler returned a protocol error: %v", err)
	}
	return result
}

func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("expected content in result")
	}
	return result.Content[0].(mcpgo.TextContent).Text
}

func TestBuildTool_AddsAPIKeyParam(t *testing.T) {
	d := newTestDispatcher(&fakeUpstream{})
	desc, _ := d.Catalog().Lookup("search_articles")

	tool := BuildTool(desc)

	if tool.Name != "search_articles" {
		t.Errorf("unexpected tool name %s", tool.Name)
	}
	if _, ok := tool.InputSchema.Properties["api_key"]; !ok {
		t.Error("expected api_key parameter on every tool")
	}
	if _, ok := tool.InputSchema.Properties["query"]; !ok {
		t.Error("expected query parameter")
	}

	required := tool.InputSchema.Required
	found := false
	for _, name := range required {
		if name == "query" {
			found = true
		}
		if name == "api_key" {
			t.Error("api_key must never be required")
		}
	}
	if !found {
		t.Error("query should be required")
	}
}

func TestToolHandler_Success(t *testing.T) {
	f := &fakeUpstream{}
	handler := toolHandler(newTestDispatcher(f), "get_article", "")

	result := callTool(t, handler, context.Background(), map[string]interface{}{"id": "42"})

	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if f.lastReq.Path != "/articles/42" {
		t.Errorf("unexpected upstream path %s", f.lastReq.Path)
	}
}

func TestToolHandler_PerCallKeyBeatsSessionAndFallback(t *testing.T) {
	f := &fakeUpstream{}
	handler := toolHandler(newTestDispatcher(f), "get_my_profile", "fallback-key")

	ctx := WithSessionKey(context.Background(), "session-key")
	result := callTool(t, handler, ctx, map[string]interface{}{"api_key": "call-key"})

	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if f.lastReq.Credential.Key() != "call-key" {
		t.Errorf("expected call-key, got %q", f.lastReq.Credential.Key())
	}
	if f.lastReq.Credential.Source() != gateway.SourceArgument {
		t.Errorf("unexpected source %s", f.lastReq.Credential.Source())
	}
}

func TestToolHandler_SessionKeyBeatsFallback(t *testing.T) {
	f := &fakeUpstream{}
	handler := toolHandler(newTestDispatcher(f), "get_my_profile", "fallback-key")

	ctx := WithSessionKey(context.Background(), "session-key")
	result := callTool(t, handler, ctx, nil)

	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if f.lastReq.Credential.Source() != gateway.SourceSession {
		t.Errorf("expected session credential, got %s", f.lastReq.Credential.Source())
	}
}

func TestToolHandler_FallbackKeyApplies(t *testing.T) {
	f := &fakeUpstream{}
	handler := toolHandler(newTestDispatcher(f), "get_my_profile", "fallback-key")

	result := callTool(t, handler, context.Background(), nil)

	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if f.lastReq.Credential.Source() != gateway.SourceFallback {
		t.Errorf("expected fallback credential, got %s", f.lastReq.Credential.Source())
	}
}

func TestToolHandler_NoCredentialIsToolError(t *testing.T) {
	f := &fakeUpstream{}
	handler := toolHandler(newTestDispatcher(f), "create_article", "")

	result := callTool(t, handler, context.Background(), map[string]interface{}{
		"title":   "T",
		"content": "C",
	})

	if !result.IsError {
		t.Fatal("expected a tool error")
	}
	if f.calls != 0 {
		t.Errorf("auth failure must not reach upstream, got %d calls", f.calls)
	}

	var payload gateway.ErrorPayload
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("error content is not the shared payload: %v", err)
	}
	if payload.Status != "error" || payload.Code != 401 {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestToolHandler_APIKeyStrippedFromUpstream(t *testing.T) {
	f := &fakeUpstream{}
	handler := toolHandler(newTestDispatcher(f), "get_article", "")

	result := callTool(t, handler, context.Background(), map[string]interface{}{
		"id":      "42",
		"api_key": "secret",
	})

	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if f.lastReq.Query.Get("api_key") != "" {
		t.Error("api_key must never appear in the upstream query")
	}
	if f.lastReq.Credential.Key() != "secret" {
		t.Errorf("expected per-call credential, got %q", f.lastReq.Credential.Key())
	}
}

func TestErrorResult_MatchesSharedPayload(t *testing.T) {
	e := gateway.Errorf(gateway.KindInvalidArgument, "missing required parameter")

	result := errorResult(e)

	if !result.IsError {
		t.Fatal("expected IsError")
	}
	expected, _ := json.Marshal(e.Payload())
	if got := result.Content[0].(mcpgo.TextContent).Text; got != string(expected) {
		t.Errorf("expected %s, got %s", expected, got)
	}
}

func TestSessionKeyContext_Roundtrip(t *testing.T) {
	ctx := WithSessionKey(context.Background(), "abc")
	if got := SessionKeyFromContext(ctx); got != "abc" {
		t.Errorf("expected abc, got %s", got)
	}
	if got := SessionKeyFromContext(context.Background()); got != "" {
		t.Errorf("expected empty key, got %s", got)
	}
}
