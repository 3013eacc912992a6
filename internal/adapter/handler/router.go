package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ashok-rai/meetingbank-pipeline/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg         *config.Config
	loadHandler *Load
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, loadHandler *Load) *Router {
	return &Router{
		cfg:         cfg,
		loadHandler: loadHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupLoadRoutes(v1)
}

// setupLoadRoutes configures batch load routes
func (rt *Router) setupLoadRoutes(g *echo.Group) {
	if rt.loadHandler != nil {
		g.POST("/load", rt.loadHandler.LoadBatch)
		g.POST("/load/file", rt.loadHandler.LoadFile)
	} else {
		g.POST("/load", rt.notImplemented)
		g.POST("/load/file", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":  "This endpoint is not yet implemented",
		"path":   c.Request().URL.Path,
		"method": c.Request().Method,
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
