// Package integration exercises the HTTP layer, the aggregation engine and the
// result caches together against mock providers.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	httpAdapter "github.com/skyscout/fare-aggregator/internal/adapter/http"
	"github.com/skyscout/fare-aggregator/internal/adapter/http/middleware"
	"github.com/skyscout/fare-aggregator/internal/adapter/http/response"
	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/cache"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/timeutil"
	"github.com/skyscout/fare-aggregator/internal/usecase"
)

// Now is the fixed instant every test engine starts at.
var Now = time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)

// TestServer wraps an Echo instance serving a real Engine.
type TestServer struct {
	Echo   *echo.Echo
	Engine *usecase.Engine
	Clock  *timeutil.MockClock
}

// NewRegistry registers providers in the given order.
func NewRegistry(providers ...domain.OfferProvider) *domain.ProviderRegistry {
	registry := domain.NewProviderRegistry()
	for _, p := range providers {
		registry.Register(p)
	}
	return registry
}

// NewEngine builds an engine on a mock clock with an in-memory cache. Extra options
// are applied after the defaults so they can replace them.
func NewEngine(t *testing.T, registry *domain.ProviderRegistry, opts ...usecase.Option) (*usecase.Engine, *timeutil.MockClock) {
	t.Helper()

	clock := timeutil.NewMockClock(Now)
	memory := cache.NewMemoryCache(cache.DefaultTTL, clock)
	t.Cleanup(func() { _ = memory.Close() })

	base := []usecase.Option{
		usecase.WithClock(clock),
		usecase.WithCache(memory),
		usecase.WithLogger(zerolog.Nop()),
	}
	engine := usecase.NewEngine(registry, append(base, opts...)...)
	t.Cleanup(engine.Close)
	return engine, clock
}

// NewTestServer serves an engine over the full middleware stack and routes.
func NewTestServer(t *testing.T, registry *domain.ProviderRegistry, opts ...usecase.Option) *TestServer {
	t.Helper()

	engine, clock := NewEngine(t, registry, opts...)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	middleware.Setup(e, zerolog.Nop())

	handler := httpAdapter.NewFareHandler(engine, map[string]bool{"amadeus": true}, clock)
	httpAdapter.RegisterRoutes(e, handler)

	return &TestServer{Echo: e, Engine: engine, Clock: clock}
}

// Request represents a test HTTP request configuration.
type Request struct {
	Method      string
	Path        string
	Body        interface{}
	ContentType string
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a request against the server. A string body is sent verbatim.
func (ts *TestServer) Do(req Request) Response {
	var payload []byte
	switch b := req.Body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		payload, _ = json.Marshal(b)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bytes.NewReader(payload))
	if req.ContentType != "" {
		httpReq.Header.Set(echo.HeaderContentType, req.ContentType)
	} else if req.Body != nil {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, httpReq)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// SearchRequest posts body to the search endpoint.
func (ts *TestServer) SearchRequest(body interface{}) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/flights/search",
		Body:   body,
	})
}

// HealthRequest makes a health check request.
func (ts *TestServer) HealthRequest() Response {
	return ts.Do(Request{
		Method: http.MethodGet,
		Path:   "/health",
	})
}

// ParseSearchResponse decodes the body as a search response.
func (r *Response) ParseSearchResponse() (*httpAdapter.SearchResponseDTO, error) {
	var resp httpAdapter.SearchResponseDTO
	if err := json.Unmarshal(r.Body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ParseError decodes the body as an error response.
func (r *Response) ParseError() (*response.ErrorDetail, error) {
	var errResp response.ErrorDetail
	if err := json.Unmarshal(r.Body, &errResp); err != nil {
		return nil, err
	}
	return &errResp, nil
}

// SearchRequestBody mirrors the JSON accepted by the search endpoint.
type SearchRequestBody struct {
	Origin      string                 `json:"origin"`
	Destination string                 `json:"destination"`
	DepartDate  string                 `json:"departDate"`
	ReturnDate  *string                `json:"returnDate,omitempty"`
	Passengers  int                    `json:"passengers,omitempty"`
	Filters     map[string]interface{} `json:"filters,omitempty"`
}

// DefaultSearchRequest returns a valid one-way JFK to LAX search.
func DefaultSearchRequest() SearchRequestBody {
	return SearchRequestBody{
		Origin:      "JFK",
		Destination: "LAX",
		DepartDate:  "2025-12-01",
	}
}

// DefaultQuery is the domain form of DefaultSearchRequest.
func DefaultQuery() domain.Query {
	return domain.NewQuery("JFK", "LAX", "2025-12-01", nil, 1)
}
