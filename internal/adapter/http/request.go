// Package http provides the HTTP handler layer for the fare search API.
// It handles request parsing, validation, and response formatting.
package http

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/skyscout/fare-aggregator/internal/domain"
)

// SearchFaresRequest represents the request body for a fare search.
type SearchFaresRequest struct {
	// Origin is the IATA code of the departure airport (e.g., "JFK")
	Origin string `json:"origin"`

	// Destination is the IATA code of the arrival airport (e.g., "LAX")
	Destination string `json:"destination"`

	// DepartDate is the outbound date in YYYY-MM-DD format
	DepartDate string `json:"departDate"`

	// ReturnDate makes the search a round trip when set
	ReturnDate *string `json:"returnDate,omitempty"`

	// Passengers is the number of passengers (1-9, defaults to 1)
	Passengers int `json:"passengers,omitempty"`

	// Filters narrows the returned results. They never change what is cached.
	Filters *FilterDTO `json:"filters,omitempty"`
}

// FilterDTO represents optional result filters.
// Example: {"maxPrice": 400, "directOnly": true, "airlines": ["Delta"], "sources": ["Amadeus"]}
type FilterDTO struct {
	// MaxPrice drops offers priced above this amount
	MaxPrice *float64 `json:"maxPrice,omitempty" example:"400"`

	// MaxStops drops offers with more stops than this value (0 = direct only)
	MaxStops *int `json:"maxStops,omitempty" example:"0"`

	// DirectOnly drops offers with any intermediate stop
	DirectOnly bool `json:"directOnly,omitempty" example:"true"`

	// Airlines keeps only offers from these airlines (case-insensitive names)
	Airlines []string `json:"airlines,omitempty" example:"Delta,United"`

	// Sources keeps only offers from these providers
	Sources []string `json:"sources,omitempty" example:"Amadeus,Kiwi.com"`
}

var (
	airportCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)
	datePattern        = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

// Validate validates and normalizes the request, collecting every field error.
func (r *SearchFaresRequest) Validate() error {
	errs := &ValidationErrors{}

	r.Origin = r.validateAirport(errs, "origin", r.Origin)
	r.Destination = r.validateAirport(errs, "destination", r.Destination)
	if r.Origin != "" && r.Origin == r.Destination {
		errs.Add("destination", "origin and destination must be different")
	}

	depart, departOK := r.validateDate(errs, "departDate", r.DepartDate)
	if !departOK && r.DepartDate == "" {
		errs.Add("departDate", "departDate is required")
	}

	if r.ReturnDate != nil {
		trimmed := strings.TrimSpace(*r.ReturnDate)
		r.ReturnDate = &trimmed
		if trimmed != "" {
			ret, ok := r.validateDate(errs, "returnDate", trimmed)
			if ok && departOK && ret.Before(depart) {
				errs.Add("returnDate", "returnDate must not be before departDate")
			}
		}
	}

	if r.Passengers < 0 || r.Passengers > domain.MaxPassengers {
		errs.Add("passengers", fmt.Sprintf("passengers must be between 1 and %d", domain.MaxPassengers))
	}

	r.validateFilters(errs)

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func (r *SearchFaresRequest) validateAirport(errs *ValidationErrors, field, value string) string {
	code := strings.ToUpper(strings.TrimSpace(value))
	if code == "" {
		errs.Add(field, field+" is required")
		return ""
	}
	if !airportCodePattern.MatchString(code) {
		errs.Add(field, field+" must be a valid 3-letter IATA airport code")
	}
	return code
}

func (r *SearchFaresRequest) validateDate(errs *ValidationErrors, field, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if !datePattern.MatchString(value) {
		errs.Add(field, field+" must be in YYYY-MM-DD format")
		return time.Time{}, false
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		errs.Add(field, field+" is not a valid date")
		return time.Time{}, false
	}
	return t, true
}

func (r *SearchFaresRequest) validateFilters(errs *ValidationErrors) {
	if r.Filters == nil {
		return
	}

	if r.Filters.MaxPrice != nil && *r.Filters.MaxPrice < 0 {
		errs.Add("filters.maxPrice", "maxPrice must be a positive number")
	}
	if r.Filters.MaxStops != nil && *r.Filters.MaxStops < 0 {
		errs.Add("filters.maxStops", "maxStops must be a non-negative number")
	}
	for i, airline := range r.Filters.Airlines {
		if strings.TrimSpace(airline) == "" {
			errs.Add(fmt.Sprintf("filters.airlines[%d]", i), "airline must not be empty")
		}
	}
	for i, source := range r.Filters.Sources {
		if strings.TrimSpace(source) == "" {
			errs.Add(fmt.Sprintf("filters.sources[%d]", i), "source must not be empty")
		}
	}
}
