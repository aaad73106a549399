// Package kiwi searches the Kiwi.com Tequila search API.
package kiwi

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
)

const (
	ProviderName   = "Kiwi.com"
	BookingURL     = "https://www.kiwi.com"
	DefaultBaseURL = "https://api.tequila.kiwi.com"
	DefaultTimeout = 10 * time.Second
	DefaultLimit   = 5

	searchPath = "/v2/search"
)

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Limit   int

	// MaxAttempts retries transient upstream failures. Below 2 means no retries.
	MaxAttempts int
}

// Adapter implements domain.OfferProvider for Kiwi.com.
type Adapter struct {
	cfg    Config
	client *provider.Client
	logger zerolog.Logger
}

func NewAdapter(cfg Config, httpClient *http.Client, logger zerolog.Logger) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
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
	depart := toKiwiDate(q.DepartDate)

	params := url.Values{}
	params.Set("fly_from", q.Origin)
	params.Set("fly_to", q.Destination)
	params.Set("date_from", depart)
	params.Set("date_to", depart)
	if q.IsRoundTrip() {
		ret := toKiwiDate(q.Return())
		params.Set("return_from", ret)
		params.Set("return_to", ret)
	}
	params.Set("adults", strconv.Itoa(q.Passengers))
	params.Set("curr", domain.DefaultCurrency)
	params.Set("limit", strconv.Itoa(a.cfg.Limit))

	headers := http.Header{}
	headers.Set("apikey", a.cfg.APIKey)

	var resp searchResponse
	if err := a.client.GetJSON(ctx, a.cfg.BaseURL+searchPath, params, headers, &resp); err != nil {
		return nil, err
	}
	return provider.Cap(normalize(resp.Data), a.cfg.Limit), nil
}

var _ domain.OfferProvider = (*Adapter)(nil)
