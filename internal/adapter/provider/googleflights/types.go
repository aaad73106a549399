package googleflights

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/skyscout/fare-aggregator/internal/adapter/provider"
	"github.com/skyscout/fare-aggregator/internal/domain"
)

type searchResponse struct {
	Status  *bool  `json:"status"`
	Message string `json:"message"`
	Data    *struct {
		Flights []flight `json:"flights"`
	} `json:"data"`
}

type flight struct {
	Price         provider.Amount `json:"price"`
	AirlineName   string          `json:"airline_name"`
	Airline       airlineField    `json:"airline"`
	Stops         *int            `json:"stops"`
	TotalDuration durationField   `json:"total_duration"`
	Duration      durationField   `json:"duration"`
	URL           string          `json:"url"`
	BookingURL    string          `json:"booking_url"`
}

// airlineField accepts a plain name or a list of carriers.
type airlineField string

func (a *airlineField) UnmarshalJSON(data []byte) error {
	*a = ""
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = airlineField(s)
		return nil
	}
	var names provider.Names
	if err := json.Unmarshal(data, &names); err == nil {
		*a = airlineField(names.First())
	}
	return nil
}

// durationField holds a display duration. Numbers are minutes; strings are kept
// unless they are a bare minute count.
type durationField string

func (d *durationField) UnmarshalJSON(data []byte) error {
	*d = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if n, err := strconv.Atoi(s); err == nil {
			*d = durationField(domain.FormatMinutes(n))
			return nil
		}
		*d = durationField(s)
		return nil
	}

	if f, err := strconv.ParseFloat(string(data), 64); err == nil {
		*d = durationField(domain.FormatMinutes(int(f)))
	}
	return nil
}
