package usecase

import (
	"github.com/skyscout/fare-aggregator/internal/domain"
)

// ApplyFilters returns the offers that match every criterion in opts, keeping
// their order. A nil or empty opts returns the input unchanged.
func ApplyFilters(offers []domain.Offer, opts *domain.FilterOptions) []domain.Offer {
	if opts.IsEmpty() {
		return offers
	}

	result := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		if opts.Matches(o) {
			result = append(result, o)
		}
	}
	return result
}
