package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pressops/devto-mcp/internal/common"
	"github.com/pressops/devto-mcp/internal/gateway"
)

// ToolsHandler is the stateless REST view of the tool catalog: a listing
// endpoint plus one POST route per tool.
type ToolsHandler struct {
	dispatcher    *gateway.Dispatcher
	fallbackKey   string
	allowFallback bool
	logger        *common.Logger
}

// NewToolsHandler creates the REST tool handler. The process fallback key is
// only used when allowFallback is set; by default REST callers must present
// their own credential on every request.
func NewToolsHandler(d *gateway.Dispatcher, fallbackKey string, allowFallback bool, logger *common.Logger) *ToolsHandler {
	return &ToolsHandler{
		dispatcher:    d,
		fallbackKey:   fallbackKey,
		allowFallback: allowFallback,
		logger:        logger,
	}
}

// toolParam is the listing view of one tool parameter.
type toolParam struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description,omitempty"`
	Required    bool        `json:"required,omitempty"`
	Default     interface{} `json:"default,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
}

// toolInfo is the listing view of one catalog entry.
type toolInfo struct {
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	RequiresAuth bool        `json:"requires_auth"`
	Path         string      `json:"path"`
	Params       []toolParam `json:"params"`
}

// ListTools handles GET /api/tools: the catalog without any credential
// material.
func (h *ToolsHandler) ListTools(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	descs := h.dispatcher.Catalog().Tools()
	tools := make([]toolInfo, 0, len(descs))
	for _, desc := range descs {
		info := toolInfo{
			Name:         desc.Name,
			Description:  desc.Description,
			RequiresAuth: desc.RequiresAuth,
			Path:         "/api/tools/" + desc.Name,
			Params:       make([]toolParam, 0, len(desc.Params)),
		}
		for _, p := range desc.Params {
			info.Params = append(info.Params, toolParam{
				Name:        p.Name,
				Type:        string(p.Type),
				Description: p.Description,
				Required:    p.Required,
				Default:     p.Default,
				Enum:        p.Enum,
			})
		}
		tools = append(tools, info)
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data":   tools,
	})
}

// Invoke returns the POST handler for one tool. Each request is a complete,
// self-contained call: arguments come from the JSON body, the credential is
// resolved fresh, and nothing is remembered between requests.
func (h *ToolsHandler) Invoke(toolName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !RequireMethod(w, r, http.MethodPost) {
			return
		}

		args, derr := decodeArgs(r)
		if derr != nil {
			WriteError(w, derr)
			return
		}

		perCall := gateway.ExtractCallKey(args)
		cred := gateway.ResolveCredential(perCall, requestKey(r), h.fallback())
		call := gateway.NewCallContext(gateway.TransportRequest, cred, common.CorrelationIDFrom(r.Context()))

		result, err := h.dispatcher.Dispatch(r.Context(), toolName, args, call)
		if err != nil {
			WriteError(w, gateway.Normalize(err))
			return
		}

		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"data":   result,
		})
	}
}

// fallback returns the process key when REST fallback is enabled.
func (h *ToolsHandler) fallback() string {
	if h.allowFallback {
		return h.fallbackKey
	}
	return ""
}

// decodeArgs reads the request body as a JSON object of tool arguments.
// An empty body means no arguments.
func decodeArgs(r *http.Request) (map[string]interface{}, *gateway.Error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, gateway.Errorf(gateway.KindInvalidArgument, "failed to read request body: %v", err)
	}
	if len(body) == 0 {
		return map[string]interface{}{}, nil
	}

	var args map[string]interface{}
	if err := json.Unmarshal(body, &args); err != nil {
		return nil, gateway.Errorf(gateway.KindInvalidArgument, "request body must be a JSON object")
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return args, nil
}

// requestKey extracts the per-request credential from the Authorization
// Bearer header, falling back to the X-Api-Key header.
func requestKey(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		if key := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")); key != "" {
			return key
		}
	}
	return strings.TrimSpace(r.Header.Get("X-Api-Key"))
}
