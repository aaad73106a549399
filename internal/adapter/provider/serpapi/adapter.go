// Package serpapi searches flight engines exposed through SerpAPI.
package serpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyscout/fare-aggregator/internal/adapter/provider"
	"github.com/skyscout/fare-aggregator/internal/domain"
)

const (
	DefaultBaseURL = "https://serpapi.com/search"
	DefaultTimeout = 10 * time.Second
	DefaultLimit   = 10
)

// Engine identifies one SerpAPI flight engine and how its offers are presented.
type Engine struct {
	ID         string
	Source     string
	BookingURL string

	// TripType sends type=1 (round trip) or type=2 (one way); the engine defaults to round trip.
	TripType bool
}

var (
	BookingFlights = Engine{
		ID:         "booking_flights",
		Source:     "Booking.com",
		BookingURL: "https://www.booking.com/flights",
	}
	GoogleFlights = Engine{
		ID:         "google_flights",
		Source:     "Google Flights (Serp)",
		BookingURL: "https://www.google.com/travel/flights",
		TripType:   true,
	}
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Limit   int

	// MaxAttempts retries transient upstream failures. Below 2 means no retries.
	MaxAttempts int
}

// Adapter implements domain.OfferProvider for a single SerpAPI engine.
type Adapter struct {
	cfg    Config
	engine Engine
	client *provider.Client
	logger zerolog.Logger
}

func NewAdapter(engine Engine, cfg Config, httpClient *http.Client, logger zerolog.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}

	return &Adapter{
		cfg:    cfg,
		engine: engine,
		client: provider.NewClient(engine.Source, cfg.Timeout, httpClient).WithMaxAttempts(cfg.MaxAttempts),
		logger: logger.With().Str("provider", engine.Source).Str("engine", engine.ID).Logger(),
	}
}

func (a *Adapter) Name() string {
	return a.engine.Source
}

func (a *Adapter) Search(ctx context.Context, q domain.Query) domain.ProviderResult {
	return provider.Run(ctx, a.engine.Source, q, a.logger, a.search)
}

func (a *Adapter) search(ctx context.Context, q domain.Query) ([]domain.Offer, error) {
	params := url.Values{}
	params.Set("engine", a.engine.ID)
	params.Set("departure_id", q.Origin)
	params.Set("arrival_id", q.Destination)
	params.Set("outbound_date", q.DepartDate)
	if q.IsRoundTrip() {
		params.Set("return_date", q.Return())
	}
	if a.engine.TripType {
		if q.IsRoundTrip() {
			params.Set("type", "1")
		} else {
			params.Set("type", "2")
		}
	}
	params.Set("adults", strconv.Itoa(q.Passengers))
	params.Set("currency", domain.DefaultCurrency)
	params.Set("api_key", a.cfg.APIKey)

	var resp searchResponse
	if err := a.client.GetJSON(ctx, a.cfg.BaseURL, params, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" && len(resp.BestFlights) == 0 {
		return nil, domain.NewProviderError(a.engine.Source, fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, resp.Error))
	}
	return provider.Cap(normalize(resp.BestFlights, a.engine.BookingURL), a.cfg.Limit), nil
}

var _ domain.OfferProvider = (*Adapter)(nil)
