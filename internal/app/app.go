package app

import (
	"net/http"

	"github.com/pressops/devto-mcp/internal/common"
	"github.com/pressops/devto-mcp/internal/config"
	"github.com/pressops/devto-mcp/internal/devto"
	"github.com/pressops/devto-mcp/internal/gateway"
	"github.com/pressops/devto-mcp/internal/handlers"
	"github.com/pressops/devto-mcp/internal/mcp"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Dispatcher *gateway.Dispatcher

	// HTTP handlers
	MCPHandler     http.Handler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	RootHandler    *handlers.RootHandler
	ToolsHandler   *handlers.ToolsHandler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	client := devto.NewClient(cfg.API.URL, cfg.API.GetTimeout(), logger)
	a.Dispatcher = gateway.NewDispatcher(gateway.NewCatalog(), client, devto.Reshape, logger)

	a.initHandlers()

	if cfg.API.Key != "" {
		logger.Info().Msg("server fallback API key configured")
	}
	logger.Info().
		Int("tools", a.Dispatcher.Catalog().Len()).
		Str("upstream", cfg.API.URL).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.RootHandler = handlers.NewRootHandler(a.Logger, a.Config.Server.ServeMCP())
	a.ToolsHandler = handlers.NewToolsHandler(a.Dispatcher, a.Config.API.Key, a.Config.API.RESTFallbackKey, a.Logger)

	if a.Config.Server.ServeMCP() {
		a.MCPHandler = mcp.NewHandler(a.Dispatcher, a.Config.API.Key, a.Logger)
	}
}
