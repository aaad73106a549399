// Package googleflights searches Google Flights through the google-flights2 RapidAPI host.
package googleflights

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyscout/fare-aggregator/internal/adapter/provider"
	"github.com/skyscout/fare-aggregator/internal/domain"
)

const (
	ProviderName   = "Google Flights"
	BookingURL     = "https://www.google.com/travel/flights"
	DefaultHost    = "google-flights2.p.rapidapi.com"
	DefaultTimeout = 15 * time.Second
	DefaultLimit   = 10

	searchPath = "/api/v1/searchFlights"
)

type Config struct {
	// BaseURL defaults to https://<Host>.
	BaseURL string
	Host    string
	APIKey  string
	Timeout time.Duration
	Limit   int

	// MaxAttempts retries transient upstream failures. Below 2 means no retries.
	MaxAttempts int
}

// Adapter implements domain.OfferProvider for Google Flights.
type Adapter struct {
	cfg    Config
	client *provider.Client
	logger zerolog.Logger
}

func NewAdapter(cfg Config, httpClient *http.Client, logger zerolog.Logger) *Adapter {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://" + cfg.Host
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Adapter{
		cfg:    cfg,
		client: provider.NewClient(ProviderName, cfg.Timeout, httpClient).WithMaxAttempts(cfg.MaxAttempts),
		logger: logger.With().Str("provider", ProviderName).Logger(),
	}
}

func (a *Adapter) Name() string {
	return ProviderName
}

func (a *Adapter) Search(ctx context.Context, q domain.Query) domain.ProviderResult {
	return provider.Run(ctx, ProviderName, q, a.logger, a.search)
}

func (a *Adapter) search(ctx context.Context, q domain.Query) ([]domain.Offer, error) {
	params := url.Values{}
	params.Set("departure_id", q.Origin)
	params.Set("arrival_id", q.Destination)
	params.Set("outbound_date", q.DepartDate)
	if q.IsRoundTrip() {
		params.Set("return_date", q.Return())
	}
	params.Set("adults", strconv.Itoa(q.Passengers))
	params.Set("travel_class", "ECONOMY")
	params.Set("currency", domain.DefaultCurrency)
	params.Set("search_type", "best")

	headers := http.Header{}
	headers.Set("x-rapidapi-host", a.cfg.Host)
	headers.Set("x-rapidapi-key", a.cfg.APIKey)

	var resp searchResponse
	if err := a.client.GetJSON(ctx, a.cfg.BaseURL+searchPath, params, headers, &resp); err != nil {
		return nil, err
	}
	if resp.Status != nil && !*resp.Status {
		return nil, domain.NewProviderError(ProviderName, fmt.Errorf("%w: %s", domain.ErrProviderUnavailable, resp.Message))
	}
	if resp.Data == nil {
		return []domain.Offer{}, nil
	}
	return provider.Cap(normalize(resp.Data.Flights), a.cfg.Limit), nil
}

var _ domain.OfferProvider = (*Adapter)(nil)
