// Package ratelimit paces outbound calls per upstream provider.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/skyscout/fare-aggregator/internal/domain"
)

// Config sets the default pace for providers without an override.
// A non-positive RequestsPerSecond disables limiting.
type Config struct {
	RequestsPerSecond float64
	Burst             int

	// MaxWait bounds how long a caller may queue for a token.
	MaxWait time.Duration
}

// ProviderLimiter holds one token bucket per provider.
type ProviderLimiter struct {
	mu       sync.RWMutex
	limiters map[string]*rate.Limiter
	defaults Config
}

func NewProviderLimiter(cfg Config) *ProviderLimiter {
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return &ProviderLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: cfg,
	}
}

// Limiter returns the bucket for provider, creating it from the defaults on first use.
// It returns nil when limiting is disabled.
func (p *ProviderLimiter) Limiter(provider string) *rate.Limiter {
	p.mu.RLock()
	limiter, ok := p.limiters[provider]
	p.mu.RUnlock()
	if ok {
		return limiter
	}
	if p.defaults.RequestsPerSecond <= 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, ok = p.limiters[provider]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(rate.Limit(p.defaults.RequestsPerSecond), p.defaults.Burst)
	p.limiters[provider] = limiter
	return limiter
}

// SetProviderLimit overrides the pace for a single provider.
func (p *ProviderLimiter) SetProviderLimit(provider string, rps float64, burst int) {
	if burst <= 0 {
		burst = 1
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.limiters[provider] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until provider may be called, ctx ends, or MaxWait elapses.
// Waits that cannot be satisfied return an error matching domain.ErrRateLimited.
func (p *ProviderLimiter) Wait(ctx context.Context, provider string) error {
	limiter := p.Limiter(provider)
	if limiter == nil {
		return nil
	}

	if p.defaults.MaxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.defaults.MaxWait)
		defer cancel()
	}

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrRateLimited, provider, err)
	}
	return nil
}
