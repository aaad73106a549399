package usecase

import (
	"context"
	"sync"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/events"
)

// createTestOffer creates a normalized offer for testing.
func createTestOffer(source, airline string, price float64, stops int) domain.Offer {
	return domain.Offer{
		Source:     source,
		Price:      price,
		Currency:   "USD",
		Airline:    airline,
		Stops:      stops,
		Duration:   "5h 30m",
		BookingURL: "https://example.com/book",
	}
}

// setupMockProvider creates a mock provider that always returns the given offers or error.
func setupMockProvider(ctrl *gomock.Controller, name string, offers []domain.Offer, err error) *domain.MockOfferProvider {
	mock := domain.NewMockOfferProvider(ctrl)
	mock.EXPECT().Name().Return(name).AnyTimes()
	mock.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.Query) domain.ProviderResult {
			if err != nil {
				return domain.Failed(name, err)
			}
			return domain.Succeeded(name, offers)
		},
	).AnyTimes()
	return mock
}

// setupMockProviderWithDelay creates a mock provider that answers after delay.
func setupMockProviderWithDelay(ctrl *gomock.Controller, name string, offers []domain.Offer, delay time.Duration) *domain.MockOfferProvider {
	mock := domain.NewMockOfferProvider(ctrl)
	mock.EXPECT().Name().Return(name).AnyTimes()
	mock.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.Query) domain.ProviderResult {
			select {
			case <-time.After(delay):
				return domain.Succeeded(name, offers)
			case <-ctx.Done():
				return domain.Failed(name, domain.NewProviderTimeoutError(name))
			}
		},
	).AnyTimes()
	return mock
}

// setupMockProviderWithPanic creates a mock provider that panics.
func setupMockProviderWithPanic(ctrl *gomock.Controller, name string, panicMsg string) *domain.MockOfferProvider {
	mock := domain.NewMockOfferProvider(ctrl)
	mock.EXPECT().Name().Return(name).AnyTimes()
	mock.EXPECT().Search(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, q domain.Query) domain.ProviderResult {
			panic(panicMsg)
		},
	).AnyTimes()
	return mock
}

func newRegistry(providers ...domain.OfferProvider) *domain.ProviderRegistry {
	reg := domain.NewProviderRegistry()
	for _, p := range providers {
		reg.Register(p)
	}
	return reg
}

func validQuery() domain.Query {
	return domain.NewQuery("JFK", "LAX", "2025-12-01", nil, 1)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.SearchCompleted
	err    error
}

func (p *recordingPublisher) PublishSearchCompleted(_ context.Context, ev events.SearchCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Events() []events.SearchCompleted {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.SearchCompleted, len(p.events))
	copy(out, p.events)
	return out
}

// stubLimiter rejects the named providers.
type stubLimiter struct {
	reject map[string]bool
}

func (l stubLimiter) Wait(_ context.Context, provider string) error {
	if l.reject[provider] {
		return domain.ErrRateLimited
	}
	return nil
}
