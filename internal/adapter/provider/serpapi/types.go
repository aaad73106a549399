package serpapi

import "github.com/skyscout/fare-aggregator/internal/adapter/provider"

type searchResponse struct {
	Error       string        `json:"error"`
	BestFlights []flightGroup `json:"best_flights"`
}

type flightGroup struct {
	Price         provider.Amount `json:"price"`
	Flights       []flightLeg     `json:"flights"`
	TotalDuration *int            `json:"total_duration"`
	BookingToken  string          `json:"booking_token"`
}

type flightLeg struct {
	Airline      string `json:"airline"`
	FlightNumber string `json:"flight_number"`
	Duration     int    `json:"duration"`
}
