package mcp

import (
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/contentgeo-mcp/internal/common"
	"github.com/bobmcallan/contentgeo-mcp/internal/config"
	"github.com/bobmcallan/contentgeo-mcp/internal/tools"
)

// NewServer creates the MCP server and registers every dispatcher tool on it.
// The tool set is fixed at startup, so list-changed notifications are off.
func NewServer(cfg config.MCPConfig, version string, d *tools.Dispatcher, logger *common.Logger) *mcpserver.MCPServer {
	s := mcpserver.NewMCPServer(
		cfg.Name,
		version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)

	count := RegisterTools(s, d)

	logger.Info().
		Int("tools", count).
		Str("name", cfg.Name).
		Msg("MCP server initialized")

	return s
}

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
}

// NewHandler wraps s in the Streamable HTTP transport.
func NewHandler(s *mcpserver.MCPServer, cfg config.MCPConfig) *Handler {
	return &Handler{
		streamable: mcpserver.NewStreamableHTTPServer(s,
			mcpserver.WithStateLess(cfg.Stateless),
		),
	}
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}
