// Package mock provides test doubles for the fare aggregator.
// These mocks are meant for integration tests that need configurable
// behaviour (delays, failures, panics, fixed offers).
package mock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skyscout/fare-aggregator/internal/domain"
)

// Provider is a configurable implementation of domain.OfferProvider.
type Provider struct {
	name    string
	offers  []domain.Offer
	err     error
	delay   time.Duration
	panics  bool
	started chan struct{}

	mu        sync.Mutex
	callCount int
	lastQuery domain.Query
}

// NewProvider creates a mock provider that answers with no offers.
// Configure it with the With* builder methods.
func NewProvider(name string) *Provider {
	return &Provider{name: name}
}

// WithOffers configures the offers returned on success.
func (p *Provider) WithOffers(offers []domain.Offer) *Provider {
	p.offers = offers
	return p
}

// WithError makes every search fail softly with err.
func (p *Provider) WithError(err error) *Provider {
	p.err = err
	return p
}

// WithDelay makes the provider wait d before answering, honouring cancellation.
func (p *Provider) WithDelay(d time.Duration) *Provider {
	p.delay = d
	return p
}

// WithPanic makes Search panic.
func (p *Provider) WithPanic() *Provider {
	p.panics = true
	return p
}

// WithStarted closes ch the first time Search is entered.
func (p *Provider) WithStarted(ch chan struct{}) *Provider {
	p.started = ch
	return p
}

func (p *Provider) Name() string {
	return p.name
}

// Search implements domain.OfferProvider.
func (p *Provider) Search(ctx context.Context, q domain.Query) domain.ProviderResult {
	p.mu.Lock()
	p.callCount++
	p.lastQuery = q
	if p.started != nil {
		close(p.started)
		p.started = nil
	}
	p.mu.Unlock()

	if p.panics {
		panic(fmt.Sprintf("%s exploded", p.name))
	}

	if p.delay > 0 {
		select {
		case <-ctx.Done():
			return domain.Failed(p.name, domain.NewProviderTimeoutError(p.name))
		case <-time.After(p.delay):
		}
	}

	if p.err != nil {
		return domain.Failed(p.name, p.err)
	}

	offers := make([]domain.Offer, len(p.offers))
	copy(offers, p.offers)
	return domain.Succeeded(p.name, offers)
}

// CallCount returns how many times Search was entered.
func (p *Provider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.callCount
}

// LastQuery returns the most recent query passed to Search.
func (p *Provider) LastQuery() domain.Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastQuery
}

// Reset zeroes the call count.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callCount = 0
}

var _ domain.OfferProvider = (*Provider)(nil)

// Offer builds a normalized offer for source.
func Offer(source, airline string, price float64, stops int) domain.Offer {
	return domain.Offer{
		Source:     source,
		Price:      price,
		Currency:   domain.DefaultCurrency,
		Airline:    airline,
		Stops:      stops,
		Duration:   "5h 30m",
		BookingURL: "https://example.com/" + source,
	}
}

// SampleOffers returns count offers from source priced 200, 250, 300 and so on,
// alternating between two airlines.
func SampleOffers(source string, count int) []domain.Offer {
	airlines := []string{"Delta", "United"}
	offers := make([]domain.Offer, count)
	for i := range offers {
		offers[i] = Offer(source, airlines[i%len(airlines)], 200+float64(i*50), i%2)
	}
	return offers
}
