package main

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/skyscout/fare-aggregator/internal/adapter/provider/amadeus"
	"github.com/skyscout/fare-aggregator/internal/adapter/provider/googleflights"
	"github.com/skyscout/fare-aggregator/internal/adapter/provider/kiwi"
	"github.com/skyscout/fare-aggregator/internal/adapter/provider/serpapi"
	"github.com/skyscout/fare-aggregator/internal/adapter/provider/skyscanner"
	"github.com/skyscout/fare-aggregator/internal/config"
	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/auth"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/ratelimit"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/timeutil"
)

// buildRegistry registers an adapter for every provider group whose credentials
// are present. Registration order is the order results are merged in.
func buildRegistry(cfg *config.Config, clock timeutil.Clock, log zerolog.Logger) *domain.ProviderRegistry {
	registry := domain.NewProviderRegistry()
	httpClient := &http.Client{}

	if cfg.Amadeus.Enabled() {
		tokens := auth.NewTokenManager(auth.Config{
			Provider:     amadeus.ProviderName,
			TokenURL:     cfg.Amadeus.BaseURL + amadeus.TokenPath,
			ClientID:     cfg.Amadeus.ClientID,
			ClientSecret: cfg.Amadeus.ClientSecret,
			Timeout:      cfg.Amadeus.Timeout,
		},
			auth.WithHTTPClient(httpClient),
			auth.WithClock(clock),
			auth.WithLogger(log),
		)
		registry.Register(amadeus.NewAdapter(amadeus.Config{
			BaseURL: cfg.Amadeus.BaseURL,
			Timeout: cfg.Amadeus.Timeout,
			Max:     cfg.Amadeus.Max,

			MaxAttempts: cfg.Retry.MaxAttempts,
		}, tokens, httpClient, log))
	}

	if cfg.Kiwi.Enabled() {
		registry.Register(kiwi.NewAdapter(kiwi.Config{
			BaseURL: cfg.Kiwi.BaseURL,
			APIKey:  cfg.Kiwi.APIKey,
			Timeout: cfg.Kiwi.Timeout,
			Limit:   cfg.Kiwi.Limit,

			MaxAttempts: cfg.Retry.MaxAttempts,
		}, httpClient, log))
	}

	if cfg.SerpAPI.Enabled() {
		serpCfg := serpapi.Config{
			BaseURL: cfg.SerpAPI.BaseURL,
			APIKey:  cfg.SerpAPI.APIKey,
			Timeout: cfg.SerpAPI.Timeout,
			Limit:   cfg.SerpAPI.Limit,

			MaxAttempts: cfg.Retry.MaxAttempts,
		}
		registry.Register(serpapi.NewAdapter(serpapi.BookingFlights, serpCfg, httpClient, log))
		registry.Register(serpapi.NewAdapter(serpapi.GoogleFlights, serpCfg, httpClient, log))
	}

	if cfg.RapidAPI.Enabled() {
		registry.Register(skyscanner.NewAdapter(skyscanner.Config{
			Host:    cfg.RapidAPI.SkyscannerHost,
			APIKey:  cfg.RapidAPI.APIKey,
			Timeout: cfg.RapidAPI.Timeout,
			Limit:   cfg.RapidAPI.Limit,

			MaxAttempts: cfg.Retry.MaxAttempts,
		}, httpClient, log))
		registry.Register(googleflights.NewAdapter(googleflights.Config{
			Host:    cfg.RapidAPI.GoogleFlightsHost,
			APIKey:  cfg.RapidAPI.APIKey,
			Timeout: cfg.RapidAPI.Timeout,
			Limit:   cfg.RapidAPI.Limit,

			MaxAttempts: cfg.Retry.MaxAttempts,
		}, httpClient, log))
	}

	return registry
}

// newRateLimiter paces every provider at the configured default and applies
// per-provider overrides on top.
func newRateLimiter(cfg *config.Config) *ratelimit.ProviderLimiter {
	limiter := ratelimit.NewProviderLimiter(ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		MaxWait:           cfg.RateLimit.MaxWait,
	})
	for name, rps := range cfg.RateLimit.Overrides {
		limiter.SetProviderLimit(name, rps, cfg.RateLimit.Burst)
	}
	return limiter
}
