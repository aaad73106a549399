package domain

import "strings"

const (
	// DefaultCurrency is the single currency code every offer is normalized to.
	DefaultCurrency = "USD"

	// UnknownAirline is used when a provider does not resolve a carrier.
	UnknownAirline = "Multiple"
)

// Offer is the canonical, provider-independent representation of a priced itinerary.
type Offer struct {
	Source     string  `json:"source"`
	Price      float64 `json:"price"`
	Currency   string  `json:"currency"`
	Airline    string  `json:"airline"`
	Stops      int     `json:"stops"`
	Duration   string  `json:"duration"`
	BookingURL string  `json:"bookingUrl"`
}

// Normalize returns a copy of the offer with trimmed strings and field defaults applied.
// Negative prices and stop counts are clamped to zero.
func (o Offer) Normalize() Offer {
	o.Source = strings.TrimSpace(o.Source)
	o.Airline = strings.TrimSpace(o.Airline)
	o.Currency = strings.ToUpper(strings.TrimSpace(o.Currency))
	o.Duration = strings.TrimSpace(o.Duration)
	o.BookingURL = strings.TrimSpace(o.BookingURL)

	if o.Airline == "" {
		o.Airline = UnknownAirline
	}
	if o.Currency == "" {
		o.Currency = DefaultCurrency
	}
	if o.Duration == "" {
		o.Duration = DurationUnavailable
	}
	if o.Price < 0 {
		o.Price = 0
	}
	if o.Stops < 0 {
		o.Stops = 0
	}
	return o
}

// IsDirect reports whether the offer has no intermediate stops.
func (o Offer) IsDirect() bool {
	return o.Stops == 0
}
