package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bobmcallan/contentgeo-mcp/internal/handlers"
)

// setupRoutes configures all HTTP routes. Fixed paths are registered before
// the catch-all /{tool} so they are never shadowed by a tool name.
func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()

	// MCP endpoint (Streamable HTTP)
	r.Handle("/mcp", s.app.MCPHandler)

	// API routes
	r.Handle("/api/health", s.app.HealthHandler)
	r.Handle("/api/version", s.app.VersionHandler)
	r.HandleFunc("/api/tools", s.app.ToolsHandler.List)
	r.HandleFunc("/api/tools/{tool}", s.app.ToolsHandler.Dispatch)

	// Path-segment tool routing: GET /landmarks?lat=..&lon=..
	r.HandleFunc("/{tool}", s.app.ToolsHandler.Dispatch)

	r.NotFoundHandler = http.HandlerFunc(s.handleNotFound)

	return r
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Not Found",
		"message": "The requested endpoint does not exist",
		"tools":   s.app.Registry.Names(),
	})
}
