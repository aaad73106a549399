package amadeus

import (
	"github.com/skyscout/fare-aggregator/internal/domain"
)

// normalize maps flight offers to domain offers. Offers without a price block or
// an itinerary are skipped.
func normalize(offers []flightOffer) []domain.Offer {
	result := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		if o.Price == nil || len(o.Itineraries) == 0 {
			continue
		}
		outbound := o.Itineraries[0]

		result = append(result, domain.Offer{
			Price:      o.Price.Total.Float64(),
			Currency:   domain.DefaultCurrency,
			Airline:    airline(o),
			Stops:      stops(outbound),
			Duration:   domain.FormatISODuration(outbound.Duration),
			BookingURL: BookingURL,
		})
	}
	return result
}

func airline(o flightOffer) string {
	if len(o.ValidatingAirlineCodes) > 0 {
		return o.ValidatingAirlineCodes[0]
	}
	if len(o.Itineraries[0].Segments) > 0 {
		return o.Itineraries[0].Segments[0].CarrierCode
	}
	return ""
}

func stops(it itinerary) int {
	if len(it.Segments) == 0 {
		return 0
	}
	return len(it.Segments) - 1
}
