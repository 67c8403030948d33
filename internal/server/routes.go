package server

import "net/http"

// setupRoutes configures all HTTP routes. The MCP endpoint and the REST
// surface mount independently, so either transport can run alone.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.Config.Server.ServeMCP() && s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	if s.app.Config.Server.ServeREST() {
		mux.HandleFunc("/", s.app.RootHandler.ServeHTTP)
		mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
		mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)
		mux.HandleFunc("/api/tools", s.app.ToolsHandler.ListTools)

		// One route per catalog tool
		for _, desc := range s.app.Dispatcher.Catalog().Tools() {
			mux.HandleFunc("/api/tools/"+desc.Name, s.app.ToolsHandler.Invoke(desc.Name))
		}

		// 404 handler for unmatched API routes
		mux.HandleFunc("/api/", s.handleNotFound)
	}

	return mux
}

// handleNotFound returns a JSON 404 for unmatched API routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"status":"error","message":"the requested endpoint does not exist","code":404}`))
}
