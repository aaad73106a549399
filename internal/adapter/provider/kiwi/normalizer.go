package kiwi

import (
	"strings"

	"github.com/skyscout/fare-aggregator/internal/adapter/provider"
	"github.com/skyscout/fare-aggregator/internal/domain"
)

// normalize maps itineraries to offers, skipping entries without an airlines list.
func normalize(items []itinerary) []domain.Offer {
	result := make([]domain.Offer, 0, len(items))
	for _, it := range items {
		if it.Airlines == nil {
			continue
		}

		airline := ""
		if len(it.Airlines) > 0 {
			airline = it.Airlines[0]
		}

		stops := 0
		if len(it.Route) > 0 {
			stops = len(it.Route) - 1
		}

		result = append(result, domain.Offer{
			Price:      it.Price.Float64(),
			Currency:   domain.DefaultCurrency,
			Airline:    airline,
			Stops:      stops,
			Duration:   duration(it),
			BookingURL: provider.AbsoluteURL(BookingURL, it.DeepLink),
		})
	}
	return result
}

func duration(it itinerary) string {
	if it.Duration == nil || it.Duration.Total == nil {
		return domain.DurationUnavailable
	}
	return domain.FormatSeconds(*it.Duration.Total)
}


// toKiwiDate converts YYYY-MM-DD into the dd/mm/yyyy form the search API expects.
func toKiwiDate(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
