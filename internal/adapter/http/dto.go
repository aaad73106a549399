package http

import (
	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/usecase"
)

// SearchResponseDTO is the body of a successful search.
type SearchResponseDTO struct {
	Results []OfferDTO     `json:"results"`
	Cached  bool           `json:"cached"`
	Sources map[string]int `json:"sources"`
	Total   int            `json:"total"`
}

// OfferDTO is the wire form of a single offer.
type OfferDTO struct {
	Source     string  `json:"source"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	Airline    string  `json:"airline"`
	Stops      int     `json:"stops"`
	Duration   string  `json:"duration"`
	BookingURL string  `json:"bookingUrl"`
}

// ToSearchResponseDTO converts an aggregation result, applying the optional view filters.
// Total counts the offers actually returned.
func ToSearchResponseDTO(result domain.AggregateResult, filters *domain.FilterOptions) *SearchResponseDTO {
	offers := usecase.ApplyFilters(result.Offers, filters)

	sources := result.ProviderCounts
	if sources == nil {
		sources = map[string]int{}
	}

	dto := &SearchResponseDTO{
		Results: make([]OfferDTO, len(offers)),
		Cached:  result.ServedFromCache,
		Sources: sources,
		Total:   len(offers),
	}
	for i, o := range offers {
		dto.Results[i] = ToOfferDTO(o)
	}
	return dto
}

// ToOfferDTO converts a domain Offer to an OfferDTO.
func ToOfferDTO(o domain.Offer) OfferDTO {
	return OfferDTO{
		Source:     o.Source,
		Price:      o.Price,
		Currency:   o.Currency,
		Airline:    o.Airline,
		Stops:      o.Stops,
		Duration:   o.Duration,
		BookingURL: o.BookingURL,
	}
}
