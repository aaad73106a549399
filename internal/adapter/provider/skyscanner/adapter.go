// Package skyscanner searches Skyscanner fares through the blue-scraper RapidAPI host.
// Airport codes are first resolved to Skyscanner location ids.
package skyscanner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/skyscout/fare-aggregator/internal/adapter/provider"
	"github.com/skyscout/fare-aggregator/internal/domain"
)

const (
	ProviderName   = "Skyscanner"
	BookingURL     = "https://www.skyscanner.com"
	DefaultHost    = "blue-scraper.p.rapidapi.com"
	DefaultTimeout = 15 * time.Second
	DefaultLimit   = 10

	locationPath  = "/1.0/flights/search-location"
	oneWayPath    = "/1.0/flights/search-oneway"
	roundTripPath = "/1.0/flights/search-roundtrip"
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

// Adapter implements domain.OfferProvider for Skyscanner.
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

func (a *Adapter) headers() http.Header {
	h := http.Header{}
	h.Set("x-rapidapi-host", a.cfg.Host)
	h.Set("x-rapidapi-key", a.cfg.APIKey)
	return h
}

func (a *Adapter) search(ctx context.Context, q domain.Query) ([]domain.Offer, error) {
	var originID, destinationID string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		id, err := a.resolveLocation(gctx, q.Origin)
		originID = id
		return err
	})
	g.Go(func() error {
		id, err := a.resolveLocation(gctx, q.Destination)
		destinationID = id
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("originSkyId", originID)
	params.Set("destinationSkyId", destinationID)
	params.Set("departureDate", q.DepartDate)
	path := oneWayPath
	if q.IsRoundTrip() {
		path = roundTripPath
		params.Set("returnDate", q.Return())
	}
	params.Set("adults", strconv.Itoa(q.Passengers))
	params.Set("currency", domain.DefaultCurrency)

	var resp searchResponse
	if err := a.client.GetJSON(ctx, a.cfg.BaseURL+path, params, a.headers(), &resp); err != nil {
		return nil, err
	}
	return provider.Cap(normalize(resp.itineraries()), a.cfg.Limit), nil
}

// resolveLocation returns the first skyId the location search yields for query.
func (a *Adapter) resolveLocation(ctx context.Context, query string) (string, error) {
	var raw json.RawMessage
	if err := a.client.GetJSON(ctx, a.cfg.BaseURL+locationPath, url.Values{"query": {query}}, a.headers(), &raw); err != nil {
		return "", err
	}

	var locations locationResponse
	if err := json.Unmarshal(raw, &locations); err != nil {
		var env locationEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return "", domain.NewProviderError(ProviderName, fmt.Errorf("%w: location payload: %v", domain.ErrMalformedResponse, err))
		}
		locations = env.Data
	}

	for _, loc := range locations {
		if loc.SkyID != "" {
			return loc.SkyID, nil
		}
	}
	return "", domain.NewProviderError(ProviderName, fmt.Errorf("%w: %s", domain.ErrLocationNotFound, query))
}

var _ domain.OfferProvider = (*Adapter)(nil)
