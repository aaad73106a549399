// Package usecase contains the fare aggregation logic. It fans a query out to
// every registered provider, merges the answers and caches them by fingerprint.
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyscout/fare-aggregator/internal/infrastructure/cache"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/events"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/timeutil"
)

// Default timeout values.
const (
	DefaultSearchTimeout  = 30 * time.Second
	DefaultPublishTimeout = 5 * time.Second
)

// RateLimiter paces calls to a provider. *ratelimit.ProviderLimiter satisfies it.
type RateLimiter interface {
	Wait(ctx context.Context, provider string) error
}

// Config contains configuration options for the engine.
type Config struct {
	// SearchTimeout bounds one shared search, independent of any caller.
	SearchTimeout time.Duration

	// PublishTimeout bounds delivery of one search event.
	PublishTimeout time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		SearchTimeout:  DefaultSearchTimeout,
		PublishTimeout: DefaultPublishTimeout,
	}
}

// Option customizes an Engine.
type Option func(*Engine)

func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		if cfg.SearchTimeout > 0 {
			e.cfg.SearchTimeout = cfg.SearchTimeout
		}
		if cfg.PublishTimeout > 0 {
			e.cfg.PublishTimeout = cfg.PublishTimeout
		}
	}
}

func WithCache(c cache.ResultCache) Option {
	return func(e *Engine) {
		if c != nil {
			e.cache = c
		}
	}
}

func WithRateLimiter(l RateLimiter) Option {
	return func(e *Engine) {
		e.limiter = l
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.publisher = p
		}
	}
}

func WithClock(c timeutil.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}
