// Package amadeus searches the Amadeus Self-Service flight offers API.
package amadeus

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyscout/fare-aggregator/internal/adapter/provider"
	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/auth"
)

const (
	ProviderName   = "Amadeus"
	BookingURL     = "https://www.amadeus.com"
	DefaultBaseURL = "https://test.api.amadeus.com"
	DefaultTimeout = 10 * time.Second
	DefaultMax     = 15

	offersPath = "/v2/shopping/flight-offers"

	// TokenPath is the client-credentials endpoint relative to the base URL.
	TokenPath = "/v1/security/oauth2/token"
)

// Config holds adapter settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Max     int

	// MaxAttempts retries transient upstream failures. Below 2 means no retries.
	MaxAttempts int
}

// Adapter implements domain.OfferProvider for Amadeus.
type Adapter struct {
	cfg    Config
	client *provider.Client
	tokens auth.TokenSource
	logger zerolog.Logger
}

// NewAdapter creates an adapter that authenticates through tokens.
func NewAdapter(cfg Config, tokens auth.TokenSource, httpClient *http.Client, logger zerolog.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Max <= 0 {
		cfg.Max = DefaultMax
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Adapter{
		cfg:    cfg,
		client: provider.NewClient(ProviderName, cfg.Timeout, httpClient).WithMaxAttempts(cfg.MaxAttempts),
		tokens: tokens,
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
	tok, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, domain.NewProviderError(ProviderName, err)
	}

	params := url.Values{}
	params.Set("originLocationCode", q.Origin)
	params.Set("destinationLocationCode", q.Destination)
	params.Set("departureDate", q.DepartDate)
	if q.IsRoundTrip() {
		params.Set("returnDate", q.Return())
	}
	params.Set("adults", strconv.Itoa(q.Passengers))
	params.Set("max", strconv.Itoa(a.cfg.Max))
	params.Set("currencyCode", domain.DefaultCurrency)

	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+tok.AccessToken)

	var resp flightOffersResponse
	if err := a.client.GetJSON(ctx, a.cfg.BaseURL+offersPath, params, headers, &resp); err != nil {
		return nil, err
	}

	offers := provider.Cap(normalize(resp.Data), a.cfg.Max)
	a.logger.Debug().Int("offers", len(offers)).Msg("search completed")
	return offers, nil
}

var _ domain.OfferProvider = (*Adapter)(nil)
