package http

import "time"

// SwaggerSearchResponse documents the search response.
// @Description Ranked, deduplicated offers with per-provider counts
type SwaggerSearchResponse struct {
	// Results are ordered by ascending price
	Results []SwaggerOffer `json:"results"`

	// Cached is true when the answer came from the result cache
	Cached bool `json:"cached" example:"false"`

	// Sources maps each provider to how many offers it returned. Empty on a cache hit.
	Sources map[string]int `json:"sources"`

	// Total is the number of results returned
	Total int `json:"total" example:"2"`
}

// SwaggerOffer documents a single offer.
// @Description A priced itinerary from one provider
type SwaggerOffer struct {
	Source     string  `json:"source" example:"Amadeus"`
	Price      float64 `json:"price" example:"250"`
	Currency   string  `json:"currency" example:"USD"`
	Airline    string  `json:"airline" example:"Delta"`
	Stops      int     `json:"stops" example:"0"`
	Duration   string  `json:"duration" example:"6h 5m"`
	BookingURL string  `json:"bookingUrl" example:"https://www.amadeus.com"`
}

// SwaggerHealthResponse documents the health response.
// @Description Service status and cache statistics
type SwaggerHealthResponse struct {
	Status    string             `json:"status" example:"ok"`
	Timestamp time.Time          `json:"timestamp" example:"2025-11-20T10:00:00Z"`
	Providers []string           `json:"providers" example:"Amadeus,Kiwi.com"`
	Enabled   map[string]bool    `json:"enabled"`
	Cache     SwaggerCacheStatus `json:"cache"`
}

// SwaggerCacheStatus documents the cache statistics.
// @Description Result cache statistics
type SwaggerCacheStatus struct {
	Backend string `json:"backend" example:"memory"`
	Keys    int64  `json:"keys" example:"12"`
	Hits    int64  `json:"hits" example:"40"`
	Misses  int64  `json:"misses" example:"12"`
	TTL     string `json:"ttl" example:"1h0m0s"`
}

// SwaggerErrorDetail documents an error body.
// @Description Error details
type SwaggerErrorDetail struct {
	Code    string            `json:"code" example:"validation_error"`
	Message string            `json:"message" example:"Request validation failed"`
	Details map[string]string `json:"details,omitempty"`
}
