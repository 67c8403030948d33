package handlers

import (
	"net/http"

	"github.com/pressops/devto-mcp/internal/common"
	"github.com/pressops/devto-mcp/internal/config"
	"github.com/pressops/devto-mcp/internal/gateway"
)

// RootHandler serves the service description at the root path.
type RootHandler struct {
	logger   *common.Logger
	serveMCP bool
}

// NewRootHandler creates the root info handler.
func NewRootHandler(logger *common.Logger, serveMCP bool) *RootHandler {
	return &RootHandler{logger: logger, serveMCP: serveMCP}
}

// ServeHTTP handles GET /. The root pattern matches every otherwise
// unrouted path, so anything but "/" itself is a JSON 404.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		WriteError(w, gateway.Errorf(gateway.KindNotFound, "no route for %s", r.URL.Path))
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	endpoints := map[string]string{
		"health":  "/api/health",
		"version": "/api/version",
		"tools":   "/api/tools",
	}
	if h.serveMCP {
		endpoints["mcp"] = "/mcp"
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"name":      "devto-mcp",
		"version":   config.GetVersion(),
		"endpoints": endpoints,
	})
}
