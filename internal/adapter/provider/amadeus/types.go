package amadeus

import "github.com/skyscout/fare-aggregator/internal/adapter/provider"

type flightOffersResponse struct {
	Data []flightOffer `json:"data"`
}

type flightOffer struct {
	ID                     string      `json:"id"`
	Price                  *offerPrice `json:"price"`
	ValidatingAirlineCodes []string    `json:"validatingAirlineCodes"`
	Itineraries            []itinerary `json:"itineraries"`
}

type offerPrice struct {
	Total    provider.Amount `json:"total"`
	Currency string          `json:"currency"`
}

type itinerary struct {
	Duration string    `json:"duration"`
	Segments []segment `json:"segments"`
}

type segment struct {
	CarrierCode string `json:"carrierCode"`
	Number      string `json:"number"`
}
