package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/timeutil"
)

type entry struct {
	offers     []domain.Offer
	insertedAt time.Time
}

// MemoryCache is a process-local ResultCache. Expired entries are evicted on lookup
// and swept from Set at most once per TTL, so keys that are never read again do not
// accumulate.
type MemoryCache struct {
	ttl   time.Duration
	clock timeutil.Clock

	mu        sync.RWMutex
	entries   map[string]entry
	lastSweep time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

func NewMemoryCache(ttl time.Duration, clock timeutil.Clock) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = timeutil.NewRealClock()
	}
	return &MemoryCache{
		ttl:       ttl,
		clock:     clock,
		entries:   make(map[string]entry),
		lastSweep: clock.Now(),
	}
}

// Get returns a copy of the cached offers. An expired entry is removed and reported as a miss.
func (c *MemoryCache) Get(_ context.Context, fingerprint string) ([]domain.Offer, bool) {
	c.mu.RLock()
	e, ok := c.entries[fingerprint]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}

	if !c.clock.Now().Before(e.insertedAt.Add(c.ttl)) {
		c.mu.Lock()
		// Another writer may have replaced the entry since the read.
		if cur, still := c.entries[fingerprint]; still && cur.insertedAt.Equal(e.insertedAt) {
			delete(c.entries, fingerprint)
		}
		c.mu.Unlock()
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return cloneOffers(e.offers), true
}

// Set stores a copy of offers, replacing any previous entry.
func (c *MemoryCache) Set(_ context.Context, fingerprint string, offers []domain.Offer) error {
	now := c.clock.Now()

	c.mu.Lock()
	if !now.Before(c.lastSweep.Add(c.ttl)) {
		c.sweepLocked(now)
	}
	c.entries[fingerprint] = entry{
		offers:     cloneOffers(offers),
		insertedAt: now,
	}
	c.mu.Unlock()
	return nil
}

// sweepLocked drops every expired entry. c.mu must be held for writing.
func (c *MemoryCache) sweepLocked(now time.Time) {
	for fp, e := range c.entries {
		if !now.Before(e.insertedAt.Add(c.ttl)) {
			delete(c.entries, fp)
		}
	}
	c.lastSweep = now
}

// Stats counts stored entries, including expired ones not yet evicted.
func (c *MemoryCache) Stats(_ context.Context) Stats {
	c.mu.RLock()
	keys := int64(len(c.entries))
	c.mu.RUnlock()
	return newStats("memory", keys, c.hits.Load(), c.misses.Load(), c.ttl)
}

func (c *MemoryCache) Close() error {
	return nil
}

var _ ResultCache = (*MemoryCache)(nil)
