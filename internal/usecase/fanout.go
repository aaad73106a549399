package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/logger"
)

// Collector queries every registered provider concurrently (scatter-gather).
type Collector struct {
	providers *domain.ProviderRegistry
	limiter   RateLimiter
	logger    zerolog.Logger
}

// NewCollector creates a Collector. limiter may be nil.
func NewCollector(providers *domain.ProviderRegistry, limiter RateLimiter, log zerolog.Logger) *Collector {
	if providers == nil {
		providers = domain.NewProviderRegistry()
	}
	return &Collector{
		providers: providers,
		limiter:   limiter,
		logger:    log,
	}
}

// Collect runs one goroutine per provider and waits for all of them. A failing
// provider never stops the others. Offers and results are concatenated in
// registration order no matter which provider answers first. counts holds an
// entry for every provider, zero for failures.
func (c *Collector) Collect(ctx context.Context, q domain.Query) (offers []domain.Offer, counts map[string]int, results []domain.ProviderResult) {
	providers := c.providers.GetAll()
	results = make([]domain.ProviderResult, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p domain.OfferProvider) {
			defer wg.Done()
			results[i] = c.queryProvider(ctx, p, q)
		}(i, p)
	}
	wg.Wait()

	offers = make([]domain.Offer, 0)
	counts = make(map[string]int, len(results))
	for _, r := range results {
		counts[r.Source] = len(r.Offers)
		offers = append(offers, r.Offers...)
	}
	return offers, counts, results
}

// queryProvider calls a single provider, turning rate limit rejections and
// panics into soft failures.
func (c *Collector) queryProvider(ctx context.Context, p domain.OfferProvider, q domain.Query) (result domain.ProviderResult) {
	name := p.Name()
	log := logger.WithProvider(c.logger, name)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			result = domain.Failed(name, domain.NewProviderError(name, fmt.Errorf("panic: %v", r)))
		}
		result.Source = name
		if result.Offers == nil || !result.OK() {
			result.Offers = []domain.Offer{}
		}
		for i := range result.Offers {
			if result.Offers[i].Source == "" {
				result.Offers[i].Source = name
			}
		}
		result.Duration = time.Since(start)

		if result.OK() {
			log.Debug().Int("offers", len(result.Offers)).Dur("elapsed", result.Duration).Msg("provider answered")
		} else {
			log.Warn().
				Err(result.Err).
				Bool("timeout", domain.IsProviderTimeout(result.Err)).
				Bool("retryable", domain.IsRetryable(result.Err)).
				Dur("elapsed", result.Duration).
				Msg("provider failed")
		}
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, name); err != nil {
			return domain.Failed(name, domain.NewProviderError(name, err))
		}
	}

	return p.Search(ctx, q)
}
