package serpapi

import "github.com/skyscout/fare-aggregator/internal/domain"

// normalize maps best_flights groups. Groups without a flights list are skipped.
func normalize(groups []flightGroup, bookingURL string) []domain.Offer {
	result := make([]domain.Offer, 0, len(groups))
	for _, g := range groups {
		if g.Flights == nil {
			continue
		}

		airline := ""
		stops := 0
		if len(g.Flights) > 0 {
			airline = g.Flights[0].Airline
			stops = len(g.Flights) - 1
		}

		duration := domain.DurationUnavailable
		if g.TotalDuration != nil {
			duration = domain.FormatMinutes(*g.TotalDuration)
		}

		result = append(result, domain.Offer{
			Price:      g.Price.Float64(),
			Currency:   domain.DefaultCurrency,
			Airline:    airline,
			Stops:      stops,
			Duration:   duration,
			BookingURL: bookingURL,
		})
	}
	return result
}
