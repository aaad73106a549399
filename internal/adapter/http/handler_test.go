package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyscout/fare-aggregator/internal/adapter/http/response"
	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/cache"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/timeutil"
)

// mockUseCase is a configurable FareSearchUseCase for handler tests.
type mockUseCase struct {
	aggregateFunc func(ctx context.Context, q domain.Query) (domain.AggregateResult, error)
	lastQuery     domain.Query
	calls         int
}

func (m *mockUseCase) Aggregate(ctx context.Context, q domain.Query) (domain.AggregateResult, error) {
	m.calls++
	m.lastQuery = q
	if m.aggregateFunc != nil {
		return m.aggregateFunc(ctx, q)
	}
	return domain.AggregateResult{Offers: []domain.Offer{}, ProviderCounts: map[string]int{}}, nil
}

func (m *mockUseCase) Providers() []string {
	return []string{"Amadeus", "Kiwi.com"}
}

func (m *mockUseCase) CacheStats(context.Context) cache.Stats {
	return cache.Stats{Backend: "memory", Keys: 3, Hits: 5, Misses: 3, TTL: time.Hour, TTLText: "1h0m0s"}
}

func setupTestHandler(uc *mockUseCase) *echo.Echo {
	e := echo.New()
	clock := timeutil.NewMockClock(time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC))
	h := NewFareHandler(uc, map[string]bool{"amadeus": true, "kiwi": true, "serpapi": false}, clock)
	RegisterRoutes(e, h)
	return e
}

func makeRequest(e *echo.Echo, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody []byte
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = []byte(b)
	default:
		reqBody, _ = json.Marshal(b)
	}

	req := httptest.NewRequest(method, path, bytes.NewBuffer(reqBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sampleResult() domain.AggregateResult {
	return domain.AggregateResult{
		Offers: []domain.Offer{
			{Source: "Amadeus", Price: 250, Currency: "USD", Airline: "Delta", Stops: 0, Duration: "6h 5m", BookingURL: "https://www.amadeus.com"},
			{Source: "Kiwi.com", Price: 300, Currency: "USD", Airline: "United", Stops: 1, Duration: "7h 40m", BookingURL: "https://www.kiwi.com"},
		},
		ProviderCounts: map[string]int{"Amadeus": 1, "Kiwi.com": 1, "Skyscanner": 0},
	}
}

func TestSearchFares_Success(t *testing.T) {
	uc := &mockUseCase{
		aggregateFunc: func(ctx context.Context, q domain.Query) (domain.AggregateResult, error) {
			return sampleResult(), nil
		},
	}
	e := setupTestHandler(uc)

	rec := makeRequest(e, http.MethodPost, "/api/v1/flights/search", map[string]interface{}{
		"origin":      "jfk",
		"destination": "lax",
		"departDate":  "2025-12-01",
	})

	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.Total)
	assert.False(t, resp.Cached)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, 250.0, resp.Results[0].Price)
	assert.Equal(t, "Delta", resp.Results[0].Airline)
	assert.Equal(t, "https://www.amadeus.com", resp.Results[0].BookingURL)
	assert.Equal(t, map[string]int{"Amadeus": 1, "Kiwi.com": 1, "Skyscanner": 0}, resp.Sources)

	assert.Equal(t, "JFK", uc.lastQuery.Origin)
	assert.Equal(t, "LAX", uc.lastQuery.Destination)
	assert.Equal(t, 1, uc.lastQuery.Passengers)
	assert.Nil(t, uc.lastQuery.ReturnDate)
}

func TestSearchFares_RoundTripAndPassengers(t *testing.T) {
	uc := &mockUseCase{}
	e := setupTestHandler(uc)

	rec := makeRequest(e, http.MethodPost, "/api/v1/flights/search", `{"origin":"JFK","destination":"LAX","departDate":"2025-12-01","returnDate":"2025-12-08","passengers":3}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, uc.lastQuery.ReturnDate)
	assert.Equal(t, "2025-12-08", *uc.lastQuery.ReturnDate)
	assert.Equal(t, 3, uc.lastQuery.Passengers)
	assert.Equal(t, "JFK|LAX|2025-12-01|2025-12-08|3", uc.lastQuery.Fingerprint())

	var resp SearchResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Results)
	assert.Equal(t, 0, resp.Total)
}

func TestSearchFares_Cached(t *testing.T) {
	uc := &mockUseCase{
		aggregateFunc: func(ctx context.Context, q domain.Query) (domain.AggregateResult, error) {
			res := sampleResult()
			res.ServedFromCache = true
			res.ProviderCounts = map[string]int{}
			return res, nil
		},
	}
	e := setupTestHandler(uc)

	rec := makeRequest(e, http.MethodPost, "/api/v1/flights/search", validRequest())
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
	assert.Empty(t, resp.Sources)
	assert.Equal(t, 2, resp.Total)
}

func TestSearchFares_FiltersNarrowView(t *testing.T) {
	uc := &mockUseCase{
		aggregateFunc: func(ctx context.Context, q domain.Query) (domain.AggregateResult, error) {
			return sampleResult(), nil
		},
	}
	e := setupTestHandler(uc)

	req := validRequest()
	req.Filters = &FilterDTO{MaxStops: intPtr(0)}

	rec := makeRequest(e, http.MethodPost, "/api/v1/flights/search", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Delta", resp.Results[0].Airline)
	assert.Equal(t, 1, resp.Sources["Kiwi.com"], "sources report provider counts, not the filtered view")
}

func TestSearchFares_DirectOnlyFilter(t *testing.T) {
	uc := &mockUseCase{
		aggregateFunc: func(ctx context.Context, q domain.Query) (domain.AggregateResult, error) {
			return sampleResult(), nil
		},
	}
	e := setupTestHandler(uc)

	body := map[string]interface{}{
		"origin":      "JFK",
		"destination": "LAX",
		"departDate":  "2025-12-15",
		"filters":     map[string]interface{}{"directOnly": true},
	}
	rec := makeRequest(e, http.MethodPost, "/api/v1/flights/search", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SearchResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Results)
	for _, r := range resp.Results {
		assert.Equal(t, 0, r.Stops)
	}
	assert.Less(t, resp.Total, len(sampleResult().Offers))
}

func TestSearchFares_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantFields []string
	}{
		{
			name:       "missing origin",
			body:       map[string]interface{}{"destination": "LAX", "departDate": "2025-12-01"},
			wantFields: []string{"origin"},
		},
		{
			name:       "return before departure",
			body:       map[string]interface{}{"origin": "JFK", "destination": "LAX", "departDate": "2025-12-01", "returnDate": "2025-11-01"},
			wantFields: []string{"returnDate"},
		},
		{
			name:       "too many passengers",
			body:       map[string]interface{}{"origin": "JFK", "destination": "LAX", "departDate": "2025-12-01", "passengers": 10},
			wantFields: []string{"passengers"},
		},
		{
			name:       "empty body",
			body:       map[string]interface{}{},
			wantFields: []string{"origin", "destination", "departDate"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			e := setupTestHandler(uc)

			rec := makeRequest(e, http.MethodPost, "/api/v1/flights/search", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, uc.calls, "engine must not be called for invalid input")

			var body response.ErrorDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, response.CodeValidationError, body.Code)
			for _, f := range tt.wantFields {
				assert.Contains(t, body.Details, f)
			}
		})
	}
}

func TestSearchFares_MalformedBody(t *testing.T) {
	uc := &mockUseCase{}
	e := setupTestHandler(uc)

	rec := makeRequest(e, http.MethodPost, "/api/v1/flights/search", `{"origin": "JFK",`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body response.ErrorDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, response.CodeInvalidRequest, body.Code)
	assert.Equal(t, 0, uc.calls)
}

func TestSearchFares_EngineErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "engine validation error",
			err:        fmt.Errorf("aggregate: %w", domain.NewValidationError("passengers", "must be between 1 and 9")),
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeValidationError,
		},
		{
			name:       "wrapped invalid request",
			err:        fmt.Errorf("aggregate: %w", domain.ErrInvalidRequest),
			wantStatus: http.StatusBadRequest,
			wantCode:   response.CodeValidationError,
		},
		{
			name:       "deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   response.CodeTimeout,
		},
		{
			name:       "client went away",
			err:        context.Canceled,
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   response.CodeTimeout,
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   response.CodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{
				aggregateFunc: func(ctx context.Context, q domain.Query) (domain.AggregateResult, error) {
					return domain.AggregateResult{}, tt.err
				},
			}
			e := setupTestHandler(uc)

			rec := makeRequest(e, http.MethodPost, "/api/v1/flights/search", validRequest())

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body response.ErrorDetail
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestHealth(t *testing.T) {
	e := setupTestHandler(&mockUseCase{})

	rec := makeRequest(e, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status    string          `json:"status"`
		Timestamp time.Time       `json:"timestamp"`
		Providers []string        `json:"providers"`
		Enabled   map[string]bool `json:"enabled"`
		Cache     struct {
			Backend string `json:"backend"`
			Keys    int64  `json:"keys"`
			Hits    int64  `json:"hits"`
			TTL     string `json:"ttl"`
		} `json:"cache"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "2025-11-20T10:00:00Z", body.Timestamp.Format(time.RFC3339))
	assert.Equal(t, []string{"Amadeus", "Kiwi.com"}, body.Providers)
	assert.True(t, body.Enabled["amadeus"])
	assert.False(t, body.Enabled["serpapi"])
	assert.Equal(t, "memory", body.Cache.Backend)
	assert.Equal(t, int64(3), body.Cache.Keys)
	assert.Equal(t, "1h0m0s", body.Cache.TTL)
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	e := setupTestHandler(&mockUseCase{})

	rec := makeRequest(e, http.MethodGet, "/api/v1/flights/search", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = makeRequest(e, http.MethodPost, "/api/v1/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "Not Found"))
}

func TestToDomainFilters(t *testing.T) {
	assert.Nil(t, ToDomainFilters(nil))

	opts := ToDomainFilters(&FilterDTO{
		MaxPrice:   floatPtr(400),
		DirectOnly: true,
		Airlines:   []string{" Delta ", ""},
		Sources:    []string{"Amadeus"},
	})
	require.NotNil(t, opts)
	assert.Equal(t, 400.0, *opts.MaxPrice)
	assert.Nil(t, opts.MaxStops)
	assert.True(t, opts.DirectOnly)
	assert.Equal(t, []string{"Delta"}, opts.Airlines)
	assert.Equal(t, []string{"Amadeus"}, opts.Sources)
}
