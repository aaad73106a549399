package skyscanner

import "github.com/skyscout/fare-aggregator/internal/adapter/provider"

type location struct {
	SkyID    string `json:"skyId"`
	EntityID string `json:"entityId"`
	Title    string `json:"title"`
}

// locationResponse covers both the bare list and the {"data": [...]} envelope.
type locationResponse []location

type locationEnvelope struct {
	Data []location `json:"data"`
}

type searchResponse struct {
	Flights []itinerary `json:"flights"`
	Data    *struct {
		Flights     []itinerary `json:"flights"`
		Itineraries []itinerary `json:"itineraries"`
	} `json:"data"`
}

func (r searchResponse) itineraries() []itinerary {
	if len(r.Flights) > 0 || r.Data == nil {
		return r.Flights
	}
	if len(r.Data.Flights) > 0 {
		return r.Data.Flights
	}
	return r.Data.Itineraries
}

type itinerary struct {
	Price    provider.Amount `json:"price"`
	Legs     []leg           `json:"legs"`
	Carriers provider.Names  `json:"carriers"`
	Stops    *int            `json:"stops"`
	Duration *int            `json:"duration"`
	Deeplink string          `json:"deeplink"`
}

type leg struct {
	Carriers      provider.Names `json:"carriers"`
	Stops         *int           `json:"stops"`
	StopCount     *int           `json:"stopCount"`
	Duration      *int           `json:"duration"`
	DurationInMin *int           `json:"durationInMinutes"`
	Segments      []struct{}     `json:"segments"`
}
