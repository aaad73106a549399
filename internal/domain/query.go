package domain

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar date format accepted for departure and return dates.
const DateLayout = "2006-01-02"

const (
	DefaultPassengers = 1
	MaxPassengers     = 9
)

// noReturnMarker stands in for an absent return date inside a fingerprint.
// It cannot collide with a real date or an empty string.
const noReturnMarker = "~"

// Query is a single fare search. ReturnDate is nil for a one-way search;
// a pointer to an empty string is kept distinct from nil for cache addressing.
type Query struct {
	Origin      string
	Destination string
	DepartDate  string
	ReturnDate  *string
	Passengers  int
}

// NewQuery builds a query with normalized airport codes and default passenger count.
func NewQuery(origin, destination, departDate string, returnDate *string, passengers int) Query {
	return Query{
		Origin:      origin,
		Destination: destination,
		DepartDate:  departDate,
		ReturnDate:  returnDate,
		Passengers:  passengers,
	}.Normalized()
}

// Normalized returns a copy with trimmed, upper-cased airport codes, trimmed dates
// and the passenger count defaulted. The return date pointer is never shared with q.
func (q Query) Normalized() Query {
	q.Origin = strings.ToUpper(strings.TrimSpace(q.Origin))
	q.Destination = strings.ToUpper(strings.TrimSpace(q.Destination))
	q.DepartDate = strings.TrimSpace(q.DepartDate)
	if q.ReturnDate != nil {
		rd := strings.TrimSpace(*q.ReturnDate)
		q.ReturnDate = &rd
	}
	return q.WithDefaults()
}

// WithDefaults returns a copy of the query with the passenger count defaulted.
func (q Query) WithDefaults() Query {
	if q.Passengers == 0 {
		q.Passengers = DefaultPassengers
	}
	return q
}

// IsRoundTrip reports whether the query carries a non-empty return date.
func (q Query) IsRoundTrip() bool {
	return q.ReturnDate != nil && *q.ReturnDate != ""
}

// Return returns the return date, or an empty string for one-way queries.
func (q Query) Return() string {
	if q.ReturnDate == nil {
		return ""
	}
	return *q.ReturnDate
}

// Validate checks the query and returns a ValidationError for the first offending field.
func (q Query) Validate() error {
	if strings.TrimSpace(q.Origin) == "" {
		return NewValidationError("origin", "is required")
	}
	if strings.TrimSpace(q.Destination) == "" {
		return NewValidationError("destination", "is required")
	}
	if strings.EqualFold(strings.TrimSpace(q.Origin), strings.TrimSpace(q.Destination)) {
		return NewValidationError("destination", "must be different from origin")
	}
	if strings.TrimSpace(q.DepartDate) == "" {
		return NewValidationError("departDate", "is required")
	}

	depart, err := time.Parse(DateLayout, q.DepartDate)
	if err != nil {
		return NewValidationError("departDate", "must be in YYYY-MM-DD format")
	}

	if q.IsRoundTrip() {
		ret, err := time.Parse(DateLayout, *q.ReturnDate)
		if err != nil {
			return NewValidationError("returnDate", "must be in YYYY-MM-DD format")
		}
		if ret.Before(depart) {
			return NewValidationError("returnDate", "must not be before departDate")
		}
	}

	if q.Passengers < 1 || q.Passengers > MaxPassengers {
		return NewValidationError("passengers", "must be between 1 and 9")
	}
	return nil
}

// Fingerprint derives the deterministic cache key for the query from all five fields.
func (q Query) Fingerprint() string {
	ret := noReturnMarker
	if q.ReturnDate != nil {
		ret = *q.ReturnDate
	}
	return strings.Join([]string{
		q.Origin,
		q.Destination,
		q.DepartDate,
		ret,
		strconv.Itoa(q.Passengers),
	}, "|")
}
