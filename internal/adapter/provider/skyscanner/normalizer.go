package skyscanner

import (
	"github.com/skyscout/fare-aggregator/internal/adapter/provider"
	"github.com/skyscout/fare-aggregator/internal/domain"
)

// normalize maps itineraries using the first leg when present and the flat fields otherwise.
func normalize(items []itinerary) []domain.Offer {
	result := make([]domain.Offer, 0, len(items))
	for _, it := range items {
		airline := it.Carriers.First()
		stops := intOr(it.Stops, 0)
		minutes := it.Duration

		if len(it.Legs) > 0 {
			first := it.Legs[0]
			if name := first.Carriers.First(); name != "" {
				airline = name
			}
			switch {
			case len(first.Segments) > 0:
				stops = len(first.Segments) - 1
			case first.Stops != nil:
				stops = *first.Stops
			case first.StopCount != nil:
				stops = *first.StopCount
			}
			if first.Duration != nil {
				minutes = first.Duration
			} else if first.DurationInMin != nil {
				minutes = first.DurationInMin
			}
		}

		duration := domain.DurationUnavailable
		if minutes != nil {
			duration = domain.FormatMinutes(*minutes)
		}

		result = append(result, domain.Offer{
			Price:      it.Price.Float64(),
			Currency:   domain.DefaultCurrency,
			Airline:    airline,
			Stops:      stops,
			Duration:   duration,
			BookingURL: provider.AbsoluteURL(BookingURL, it.Deeplink),
		})
	}
	return result
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

