package domain

import (
	"context"
	"sync"
	"time"
)

//go:generate mockgen -source=provider.go -destination=mock_provider.go -package=domain

// OfferProvider is implemented by every upstream fare source.
// Search never returns an error: failures are reported inside the ProviderResult
// with an empty offer list.
type OfferProvider interface {
	Name() string
	Search(ctx context.Context, q Query) ProviderResult
}

// ProviderResult is the outcome of one provider call.
type ProviderResult struct {
	Source   string
	Offers   []Offer
	Err      error
	Duration time.Duration
}

// Succeeded builds a successful result.
func Succeeded(source string, offers []Offer) ProviderResult {
	if offers == nil {
		offers = []Offer{}
	}
	return ProviderResult{Source: source, Offers: offers}
}

// Failed builds a soft-failure result. The offer list is always empty.
func Failed(source string, err error) ProviderResult {
	return ProviderResult{Source: source, Offers: []Offer{}, Err: err}
}

// OK reports whether the provider call succeeded.
func (r ProviderResult) OK() bool {
	return r.Err == nil
}

// ProviderRegistry keeps providers in registration order.
type ProviderRegistry struct {
	mu        sync.RWMutex
	providers []OfferProvider
	index     map[string]int
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{index: make(map[string]int)}
}

// Register adds a provider. A provider with an existing name replaces the earlier
// one in place, keeping its position. Nil providers are ignored.
func (r *ProviderRegistry) Register(p OfferProvider) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if i, ok := r.index[p.Name()]; ok {
		r.providers[i] = p
		return
	}
	r.index[p.Name()] = len(r.providers)
	r.providers = append(r.providers, p)
}

// GetAll returns the providers in registration order.
func (r *ProviderRegistry) GetAll() []OfferProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]OfferProvider, len(r.providers))
	copy(out, r.providers)
	return out
}

func (r *ProviderRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.providers))
	for i, p := range r.providers {
		names[i] = p.Name()
	}
	return names
}

func (r *ProviderRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}
