package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/halcyondata/company-intel/internal/config"
	"github.com/halcyondata/company-intel/internal/handler"
	middlewarepkg "github.com/halcyondata/company-intel/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Profiles *handler.ProfileHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.GET("/", handlers.Profiles.Info)
	e.GET("/companies", handlers.Profiles.Companies)
	e.GET("/llm-health", handlers.Profiles.LLMHealth)
	processLimiter := middlewarepkg.ProcessRateLimiter(cfg.RateLimitProcess)
	e.GET("/process/:domain", handlers.Profiles.Process, processLimiter)
	e.POST("/process/:domain", handlers.Profiles.Process, processLimiter)
	e.DELETE("/cache/:domain", handlers.Profiles.InvalidateCache)
}
