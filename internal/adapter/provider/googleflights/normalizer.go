package googleflights

import (
	"github.com/skyscout/fare-aggregator/internal/adapter/provider"
	"github.com/skyscout/fare-aggregator/internal/domain"
)

func normalize(flights []flight) []domain.Offer {
	result := make([]domain.Offer, 0, len(flights))
	for _, f := range flights {
		stops := 0
		if f.Stops != nil {
			stops = *f.Stops
		}

		duration := provider.FirstNonEmpty(string(f.TotalDuration), string(f.Duration))
		if duration == "" {
			duration = domain.DurationUnavailable
		}

		result = append(result, domain.Offer{
			Price:      f.Price.Float64(),
			Currency:   domain.DefaultCurrency,
			Airline:    provider.FirstNonEmpty(f.AirlineName, string(f.Airline)),
			Stops:      stops,
			Duration:   duration,
			BookingURL: provider.AbsoluteURL(BookingURL, f.URL, f.BookingURL),
		})
	}
	return result
}
