// Package testutil provides helpers shared by unit and integration tests.
package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skyscout/fare-aggregator/internal/domain"
)

// MustParseDate parses a YYYY-MM-DD date and fails the test on error.
func MustParseDate(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", dateStr, err)
	}
	return parsed
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// OneWay builds a normalized one-way query.
func OneWay(origin, destination, departDate string) domain.Query {
	return domain.NewQuery(origin, destination, departDate, nil, 1)
}

// RoundTrip builds a normalized round-trip query.
func RoundTrip(origin, destination, departDate, returnDate string, passengers int) domain.Query {
	return domain.NewQuery(origin, destination, departDate, &returnDate, passengers)
}

// AssertSortedByPrice fails the test unless offers are in non-decreasing price order.
func AssertSortedByPrice(t *testing.T, offers []domain.Offer) {
	t.Helper()
	for i := 1; i < len(offers); i++ {
		assert.LessOrEqual(t, offers[i-1].Price, offers[i].Price,
			"offer %d (%.2f) is cheaper than offer %d (%.2f)", i, offers[i].Price, i-1, offers[i-1].Price)
	}
}

// Prices extracts the price of every offer, preserving order.
func Prices(offers []domain.Offer) []float64 {
	prices := make([]float64, len(offers))
	for i, o := range offers {
		prices[i] = o.Price
	}
	return prices
}
