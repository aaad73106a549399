package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers the fare search API routes.
func RegisterRoutes(e *echo.Echo, h *FareHandler, middleware ...echo.MiddlewareFunc) {
	// unversioned, for load balancers
	e.GET("/health", h.Health)

	api := e.Group("/api/v1", middleware...)
	flights := api.Group("/flights")
	flights.POST("/search", h.SearchFares)
}
