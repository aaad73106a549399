package http

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/skyscout/fare-aggregator/internal/adapter/http/response"
	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/timeutil"
	"github.com/skyscout/fare-aggregator/internal/usecase"
)

// FareHandler handles HTTP requests for fare search endpoints.
type FareHandler struct {
	useCase usecase.FareSearchUseCase
	clock   timeutil.Clock
	enabled map[string]bool
}

// NewFareHandler creates a FareHandler. enabled lists which provider groups have
// credentials and is reported by the health endpoint.
func NewFareHandler(uc usecase.FareSearchUseCase, enabled map[string]bool, clock timeutil.Clock) *FareHandler {
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	if enabled == nil {
		enabled = map[string]bool{}
	}
	return &FareHandler{
		useCase: uc,
		clock:   clock,
		enabled: enabled,
	}
}

// SearchFares handles POST /api/v1/flights/search
//
// @Summary Search fares
// @Description Queries every configured provider concurrently and returns deduplicated offers ordered by price. Identical searches are served from cache for one hour.
// @Tags flights
// @Accept json
// @Produce json
// @Param request body SearchFaresRequest true "Search query"
// @Success 200 {object} SwaggerSearchResponse
// @Failure 400 {object} SwaggerErrorDetail "Validation error"
// @Failure 504 {object} SwaggerErrorDetail "Request cancelled"
// @Router /flights/search [post]
func (h *FareHandler) SearchFares(c echo.Context) error {
	var req SearchFaresRequest

	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if err := req.Validate(); err != nil {
		return h.handleValidationError(c, err)
	}

	result, err := h.useCase.Aggregate(c.Request().Context(), ToDomainQuery(&req))
	if err != nil {
		return h.handleError(c, err)
	}

	return response.SearchResults(c, ToSearchResponseDTO(result, ToDomainFilters(req.Filters)))
}

func (h *FareHandler) handleValidationError(c echo.Context, err error) error {
	var validationErrs *ValidationErrors
	if errors.As(err, &validationErrs) {
		return response.ValidationError(c, validationErrs.ToMap())
	}
	return response.ValidationErrorWithMessage(c, err.Error())
}

// handleError maps engine errors to HTTP responses.
func (h *FareHandler) handleError(c echo.Context, err error) error {
	var fieldErr *domain.ValidationError
	switch {
	case errors.As(err, &fieldErr):
		return response.ValidationError(c, map[string]string{fieldErr.Field: fieldErr.Message})
	case errors.Is(err, domain.ErrInvalidRequest):
		return response.ValidationErrorWithMessage(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return response.GatewayTimeout(c)
	case errors.Is(err, context.Canceled):
		return response.RequestCancelled(c)
	default:
		return response.InternalServerError(c)
	}
}

// Health handles GET /health
//
// @Summary Health check
// @Description Reports registered providers, which credentials are configured and result cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} SwaggerHealthResponse
// @Router /health [get]
func (h *FareHandler) Health(c echo.Context) error {
	return response.Health(c, &response.HealthResponse{
		Timestamp: h.clock.Now().UTC(),
		Providers: h.useCase.Providers(),
		Enabled:   h.enabled,
		Cache:     h.useCase.CacheStats(c.Request().Context()),
	})
}
