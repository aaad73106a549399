// Package events publishes search lifecycle events to downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/skyscout/fare-aggregator/internal/domain"
)

// SearchCompleted is emitted once per answered query.
type SearchCompleted struct {
	ID              string         `json:"id"`
	Fingerprint     string         `json:"fingerprint"`
	Origin          string         `json:"origin"`
	Destination     string         `json:"destination"`
	DepartDate      string         `json:"departDate"`
	ReturnDate      *string        `json:"returnDate,omitempty"`
	Passengers      int            `json:"passengers"`
	Total           int            `json:"total"`
	CheapestPrice   *float64       `json:"cheapestPrice,omitempty"`
	ServedFromCache bool           `json:"servedFromCache"`
	ProviderCounts  map[string]int `json:"providerCounts"`
	OccurredAt      time.Time      `json:"occurredAt"`
}

// NewSearchCompleted builds the event for an aggregation result.
func NewSearchCompleted(q domain.Query, res domain.AggregateResult, at time.Time) SearchCompleted {
	counts := res.ProviderCounts
	if counts == nil {
		counts = map[string]int{}
	}

	ev := SearchCompleted{
		ID:              uuid.NewString(),
		Fingerprint:     q.Fingerprint(),
		Origin:          q.Origin,
		Destination:     q.Destination,
		DepartDate:      q.DepartDate,
		ReturnDate:      q.ReturnDate,
		Passengers:      q.Passengers,
		Total:           res.Total(),
		ServedFromCache: res.ServedFromCache,
		ProviderCounts:  counts,
		OccurredAt:      at.UTC(),
	}
	if len(res.Offers) > 0 {
		cheapest := res.Offers[0].Price
		ev.CheapestPrice = &cheapest
	}
	return ev
}

// Publisher delivers search events. Implementations must be safe for concurrent use.
type Publisher interface {
	PublishSearchCompleted(ctx context.Context, ev SearchCompleted) error
	Close() error
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) PublishSearchCompleted(context.Context, SearchCompleted) error { return nil }

func (NopPublisher) Close() error { return nil }
