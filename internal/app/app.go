package app

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/contentgeo-mcp/internal/common"
	"github.com/bobmcallan/contentgeo-mcp/internal/config"
	"github.com/bobmcallan/contentgeo-mcp/internal/geo"
	"github.com/bobmcallan/contentgeo-mcp/internal/handlers"
	"github.com/bobmcallan/contentgeo-mcp/internal/mcp"
	"github.com/bobmcallan/contentgeo-mcp/internal/tools"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	GeoClient  *geo.Client
	Registry   *tools.Registry
	Dispatcher *tools.Dispatcher
	MCPServer  *mcpserver.MCPServer

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	ToolsHandler   *handlers.ToolsHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies. A registry that
// fails to build (duplicate tool name, malformed parameters) is a startup
// error.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	client, err := geo.NewClient(cfg.Upstream, logger)
	if err != nil {
		return nil, fmt.Errorf("upstream client: %w", err)
	}
	a.GeoClient = client

	if !client.HasAPIKey() {
		logger.Warn().Msg("no upstream API key configured, requests will be sent without api_key")
	}

	registry, err := tools.RegisterGeoTools(tools.NewBuilder(), client).Build()
	if err != nil {
		return nil, fmt.Errorf("tool registry: %w", err)
	}
	a.Registry = registry
	a.Dispatcher = tools.NewDispatcher(registry, logger)

	a.MCPServer = mcp.NewServer(cfg.MCP, config.GetVersion(), a.Dispatcher, logger)

	a.initHandlers()

	logger.Info().
		Str("upstream", client.BaseURL()).
		Int("tools", registry.Len()).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Registry.Len())
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.ToolsHandler = handlers.NewToolsHandler(a.Dispatcher, a.Logger)
	a.MCPHandler = mcp.NewHandler(a.MCPServer, a.Config.MCP)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close releases idle upstream connections.
func (a *App) Close() error {
	if a.GeoClient != nil {
		a.GeoClient.Close()
	}
	return nil
}
