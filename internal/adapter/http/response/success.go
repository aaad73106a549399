package response

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Providers []string        `json:"providers"`
	Enabled   map[string]bool `json:"enabled"`
	Cache     interface{}     `json:"cache"`
}

// Health writes a health check response.
func Health(c echo.Context, body *HealthResponse) error {
	if body.Status == "" {
		body.Status = "ok"
	}
	return c.JSON(http.StatusOK, body)
}

// SearchResults writes a 200 OK response with search results.
func SearchResults(c echo.Context, results interface{}) error {
	return c.JSON(http.StatusOK, results)
}
