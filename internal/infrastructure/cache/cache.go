// Package cache memoizes ranked offer lists per query fingerprint.
package cache

import (
	"context"
	"time"

	"github.com/skyscout/fare-aggregator/internal/domain"
)

// DefaultTTL is how long a ranked result stays servable.
const DefaultTTL = time.Hour

// ResultCache stores ranked offers by fingerprint. Expired entries behave as misses.
// There is no invalidation; staleness is bounded by the TTL alone.
type ResultCache interface {
	Get(ctx context.Context, fingerprint string) ([]domain.Offer, bool)
	Set(ctx context.Context, fingerprint string, offers []domain.Offer) error
	Stats(ctx context.Context) Stats
	Close() error
}

// Stats is a point-in-time view of cache usage, reported by the health endpoint.
type Stats struct {
	Backend string        `json:"backend"`
	Keys    int64         `json:"keys"`
	Hits    int64         `json:"hits"`
	Misses  int64         `json:"misses"`
	TTL     time.Duration `json:"-"`
	TTLText string        `json:"ttl"`
}

func newStats(backend string, keys, hits, misses int64, ttl time.Duration) Stats {
	return Stats{
		Backend: backend,
		Keys:    keys,
		Hits:    hits,
		Misses:  misses,
		TTL:     ttl,
		TTLText: ttl.String(),
	}
}

func cloneOffers(offers []domain.Offer) []domain.Offer {
	out := make([]domain.Offer, len(offers))
	copy(out, offers)
	return out
}
