package usecase

import (
	"strconv"

	"github.com/skyscout/fare-aggregator/internal/domain"
)

// NormalizeOffers returns normalized copies of offers in the same order.
func NormalizeOffers(offers []domain.Offer) []domain.Offer {
	result := make([]domain.Offer, len(offers))
	for i, o := range offers {
		result[i] = o.Normalize()
	}
	return result
}

// Dedupe drops offers whose (airline, price, stops) was already seen.
// The first occurrence wins, so earlier providers take precedence.
//
// The key is an approximation of flight identity: two distinct itineraries
// with the same carrier, price and stop count collapse into one.
func Dedupe(offers []domain.Offer) []domain.Offer {
	seen := make(map[string]struct{}, len(offers))
	result := make([]domain.Offer, 0, len(offers))

	for _, o := range offers {
		key := dedupeKey(o)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, o)
	}
	return result
}

func dedupeKey(o domain.Offer) string {
	return o.Airline + "|" + strconv.FormatFloat(o.Price, 'f', -1, 64) + "|" + strconv.Itoa(o.Stops)
}
