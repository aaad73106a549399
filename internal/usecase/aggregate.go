package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/cache"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/events"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/logger"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/timeutil"
)

// FareSearchUseCase is the inbound contract of the aggregation engine.
type FareSearchUseCase interface {
	// Aggregate answers a query from the cache or by asking every provider.
	// The only error it returns for a finished search is one wrapping
	// domain.ErrInvalidRequest.
	Aggregate(ctx context.Context, q domain.Query) (domain.AggregateResult, error)

	// Providers lists the registered provider names in query order.
	Providers() []string

	// CacheStats reports the result cache state.
	CacheStats(ctx context.Context) cache.Stats
}

// Engine implements FareSearchUseCase.
type Engine struct {
	collector *Collector
	providers *domain.ProviderRegistry
	cache     cache.ResultCache
	limiter   RateLimiter
	publisher events.Publisher
	clock     timeutil.Clock
	logger    zerolog.Logger
	cfg       Config

	group      singleflight.Group
	publishing sync.WaitGroup
	mu         sync.Mutex
	closed     bool
}

// NewEngine creates an Engine over the given providers. Without options it uses an
// in-memory cache with the default TTL and publishes no events.
func NewEngine(providers *domain.ProviderRegistry, opts ...Option) *Engine {
	if providers == nil {
		providers = domain.NewProviderRegistry()
	}

	e := &Engine{
		providers: providers,
		publisher: events.NopPublisher{},
		clock:     timeutil.NewRealClock(),
		logger:    zerolog.Nop(),
		cfg:       DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = cache.NewMemoryCache(cache.DefaultTTL, e.clock)
	}

	e.logger = logger.WithComponent(e.logger, "engine")
	e.collector = NewCollector(providers, e.limiter, e.logger)
	return e
}

// Aggregate implements FareSearchUseCase.Aggregate.
//
// Concurrent misses for the same fingerprint share one search. The shared search is
// detached from the caller that started it, so one caller going away does not cancel
// it for the others.
func (e *Engine) Aggregate(ctx context.Context, q domain.Query) (domain.AggregateResult, error) {
	q = q.Normalized()
	if err := q.Validate(); err != nil {
		return domain.AggregateResult{}, fmt.Errorf("aggregate: %w", err)
	}

	key := q.Fingerprint()
	log := e.logger.With().Str("fingerprint", key).Logger()

	if offers, ok := e.cache.Get(ctx, key); ok {
		log.Debug().Int("offers", len(offers)).Msg("cache hit")
		result := domain.AggregateResult{
			Offers:          offers,
			ServedFromCache: true,
			ProviderCounts:  map[string]int{},
		}
		e.publish(q, result)
		return result, nil
	}

	ch := e.group.DoChan(key, func() (any, error) {
		searchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.cfg.SearchTimeout)
		defer cancel()
		return e.search(searchCtx, q, key, log), nil
	})

	select {
	case <-ctx.Done():
		return domain.AggregateResult{}, ctx.Err()
	case res := <-ch:
		shared := res.Val.(domain.AggregateResult)
		return copyResult(shared), nil
	}
}

// search runs the full miss path: collect, normalize, dedupe, rank, cache.
func (e *Engine) search(ctx context.Context, q domain.Query, key string, log zerolog.Logger) domain.AggregateResult {
	start := e.clock.Now()

	offers, counts, _ := e.collector.Collect(ctx, q)
	offers = RankByPrice(Dedupe(NormalizeOffers(offers)))

	if err := e.cache.Set(ctx, key, offers); err != nil {
		log.Warn().Err(err).Msg("failed to cache offers")
	}

	result := domain.AggregateResult{
		Offers:         offers,
		ProviderCounts: counts,
	}

	log.Info().
		Int("offers", len(offers)).
		Interface("sources", counts).
		Dur("elapsed", e.clock.Now().Sub(start)).
		Msg("search completed")

	e.publish(q, result)
	return result
}

// publish sends the search event in the background. Failures are logged only.
// After Close no further events are sent.
func (e *Engine) publish(q domain.Query, result domain.AggregateResult) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		e.logger.Debug().Str("fingerprint", q.Fingerprint()).Msg("engine closed, search event dropped")
		return
	}
	e.publishing.Add(1)
	e.mu.Unlock()

	ev := events.NewSearchCompleted(q, result, e.clock.Now())
	go func() {
		defer e.publishing.Done()

		ctx, cancel := context.WithTimeout(context.Background(), e.cfg.PublishTimeout)
		defer cancel()

		if err := e.publisher.PublishSearchCompleted(ctx, ev); err != nil {
			e.logger.Warn().Err(err).Str("event_id", ev.ID).Msg("failed to publish search event")
		}
	}()
}

// Providers implements FareSearchUseCase.Providers.
func (e *Engine) Providers() []string {
	return e.providers.Names()
}

// CacheStats implements FareSearchUseCase.CacheStats.
func (e *Engine) CacheStats(ctx context.Context) cache.Stats {
	return e.cache.Stats(ctx)
}

// Close stops event publishing and waits for in-flight deliveries. Searches keep
// working after Close, they just publish nothing. Close is safe to call twice.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.publishing.Wait()
}

// copyResult gives each coalesced caller its own slices and map.
func copyResult(r domain.AggregateResult) domain.AggregateResult {
	offers := make([]domain.Offer, len(r.Offers))
	copy(offers, r.Offers)

	counts := make(map[string]int, len(r.ProviderCounts))
	for k, v := range r.ProviderCounts {
		counts[k] = v
	}

	return domain.AggregateResult{
		Offers:          offers,
		ServedFromCache: r.ServedFromCache,
		ProviderCounts:  counts,
	}
}

// Ensure Engine implements FareSearchUseCase at compile time.
var _ FareSearchUseCase = (*Engine)(nil)
