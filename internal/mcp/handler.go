package mcp

import (
	"net/http"
	"strings"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pressops/devto-mcp/internal/common"
	"github.com/pressops/devto-mcp/internal/config"
	"github.com/pressops/devto-mcp/internal/gateway"
)

// Handler is the HTTP handler for the MCP endpoint. It wraps mcp-go's
// StreamableHTTPServer and delegates to it after reading the
// per-connection credential.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
}

// NewServer builds the MCP server with the full tool catalog and prompts.
// Shared by the HTTP handler and the stdio transport.
func NewServer(d *gateway.Dispatcher, fallbackKey string, logger *common.Logger) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		"devto-mcp",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithPromptCapabilities(true),
		mcpserver.WithInstructions(serverInstructions),
	)

	toolCount := RegisterTools(s, d, fallbackKey)
	promptCount := RegisterPrompts(s)

	logger.Info().
		Int("tools", toolCount).
		Int("prompts", promptCount).
		Msg("MCP server initialized")

	return s
}

// NewHandler creates the streamable HTTP handler for the MCP transport.
func NewHandler(d *gateway.Dispatcher, fallbackKey string, logger *common.Logger) *Handler {
	s := NewServer(d, fallbackKey, logger)

	streamable := mcpserver.NewStreamableHTTPServer(s,
		mcpserver.WithStateLess(true),
	)

	return &Handler{
		streamable: streamable,
		logger:     logger,
	}
}

// ServeStdio runs the MCP server over stdin/stdout until the client
// disconnects. Used when the process is launched directly by an MCP client.
func ServeStdio(d *gateway.Dispatcher, fallbackKey string, logger *common.Logger) error {
	return mcpserver.ServeStdio(NewServer(d, fallbackKey, logger))
}

// ServeHTTP reads the per-connection credential from the request headers
// (if present) and delegates to the mcp-go StreamableHTTPServer. A missing
// credential is not an error here: read-only tools work unauthenticated,
// and auth-required tools are rejected by the dispatcher.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if key := connectionKey(r); key != "" {
		r = r.WithContext(WithSessionKey(r.Context(), key))
	}
	h.streamable.ServeHTTP(w, r)
}

// connectionKey extracts the session credential from the Authorization
// Bearer header, falling back to the X-Api-Key header.
func connectionKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if key := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); key != "" {
			return key
		}
	}
	return strings.TrimSpace(r.Header.Get("X-Api-Key"))
}

// serverInstructions is the usage guidance sent to MCP clients at
// initialization.
const serverInstructions = `# dev.to gateway

This server exposes tools for browsing, searching, reading, and managing
content on dev.to.

Read tools (browse_*, search_articles, get_article, get_user_profile,
list_tags) work without a key. Tools that act on your account
(list_my_articles, create_article, update_article, publish_article,
unpublish_article, delete_article, get_my_profile) need a dev.to API key:
pass it per call as the api_key argument, send it on the connection as an
Authorization Bearer header, or configure it on the server.

Examples:
- Find Go articles: search_articles with query "golang"
- Read an article: get_article with id "12345" or "username/my-post-slug"
- Create a draft: create_article with a title and markdown content
`
