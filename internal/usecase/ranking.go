package usecase

import (
	"sort"

	"github.com/skyscout/fare-aggregator/internal/domain"
)

// RankByPrice orders offers by ascending price. The sort is stable, so offers
// with equal prices keep their relative order. The input is not mutated.
func RankByPrice(offers []domain.Offer) []domain.Offer {
	result := make([]domain.Offer, len(offers))
	copy(result, offers)

	if len(result) <= 1 {
		return result
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Price < result[j].Price
	})
	return result
}
