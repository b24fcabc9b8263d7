package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-keeper/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// apiPrefix is the base path of the business API.
const apiPrefix = "/api/v1"

// RouterConfig contains the handlers and settings the router wires.
// Nil handlers leave their routes unregistered.
type RouterConfig struct {
	// ServiceName names the server spans.
	ServiceName string

	HealthHandler       *handlers.HealthHandler
	QuoteHandler        *handlers.QuoteHandler
	SyncHandler         *handlers.SyncHandler
	NotificationHandler *handlers.NotificationHandler

	// Timeout is the API request deadline. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID, enrich the context logger
//  3. OpenTelemetry - server span, then trace ID header and HTTP metrics
//  4. Logging - request logging (skips /-/ endpoints)
//  5. Timeout - API request deadline, except for the sync trigger
//
// Route groups:
//   - /-/ (operational): probes, build info, Prometheus metrics
//   - /api/v1/: quotes, categories, sync, notifications
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
		middleware.Logging(),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(engine.Group("/-"))
	}

	apiV1 := engine.Group(apiPrefix)
	apiV1.Use(middleware.Timeout(cfg.Timeout, apiPrefix+"/sync"))

	setupAPIRoutes(apiV1, cfg)
}

func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(rg)
	}

	if cfg.SyncHandler != nil {
		cfg.SyncHandler.RegisterSyncRoutes(rg)
	}

	if cfg.NotificationHandler != nil {
		cfg.NotificationHandler.RegisterNotificationRoutes(rg)
	}
}
