package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pressops/devto-mcp/internal/gateway"
)

// RegisterTools registers every catalog tool on the MCP server, wiring each
// to a handler that resolves the call's credential and dispatches it.
func RegisterTools(s *server.MCPServer, d *gateway.Dispatcher, fallbackKey string) int {
	tools := d.Catalog().Tools()
	for _, desc := range tools {
		s.AddTool(BuildTool(desc), toolHandler(d, desc.Name, fallbackKey))
	}
	return len(tools)
}

// BuildTool converts a catalog descriptor into an mcp.Tool schema. Every
// tool additionally exposes an optional api_key argument for per-call
// credentials; it never appears in the upstream request.
func BuildTool(desc *gateway.Descriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(desc.Description)}
	for _, p := range desc.Params {
		opts = append(opts, buildParamOption(p))
	}
	opts = append(opts, mcp.WithString("api_key",
		mcp.Description("dev.to API key for this call only. Overrides the session and server keys."),
	))
	return mcp.NewTool(desc.Name, opts...)
}

// buildParamOption maps a catalog parameter to the matching mcp-go option.
func buildParamOption(p gateway.Param) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}
	if len(p.Enum) > 0 {
		opts = append(opts, mcp.Enum(p.Enum...))
	}

	switch p.Type {
	case gateway.ParamNumber:
		return mcp.WithNumber(p.Name, opts...)
	case gateway.ParamBoolean:
		return mcp.WithBoolean(p.Name, opts...)
	default:
		return mcp.WithString(p.Name, opts...)
	}
}

// toolHandler adapts one catalog tool to an MCP tool handler. Credential
// precedence: per-call api_key argument, then the session credential read at
// connection time, then the process fallback key.
func toolHandler(d *gateway.Dispatcher, toolName, fallbackKey string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]interface{}{}
		for k, v := range request.GetArguments() {
			args[k] = v
		}

		perCall := gateway.ExtractCallKey(args)
		cred := gateway.ResolveCredential(perCall, SessionKeyFromContext(ctx), fallbackKey)
		call := gateway.NewCallContext(gateway.TransportStream, cred, "")

		result, err := d.Dispatch(ctx, toolName, args, call)
		if err != nil {
			return errorResult(gateway.Normalize(err)), nil
		}
		return jsonResult(result)
	}
}

// errorResult encodes a normalized error as the shared error payload.
func errorResult(e *gateway.Error) *mcp.CallToolResult {
	payload, err := json.Marshal(e.Payload())
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"status":"error","message":%q,"code":500}`, e.Message))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(payload))},
		IsError: true,
	}
}

// jsonResult encodes a successful tool result as JSON text content.
func jsonResult(result interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errorResult(gateway.Normalize(fmt.Errorf("failed to encode result: %w", err))), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
	}, nil
}
