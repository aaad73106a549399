package domain

import "strings"

// FilterOptions narrows a ranked offer list for presentation.
// Filtering never changes what is cached for a query.
type FilterOptions struct {
	// MaxPrice drops offers priced above this amount.
	MaxPrice *float64 `json:"maxPrice,omitempty"`

	// MaxStops drops offers with more stops. 0 keeps direct flights only.
	MaxStops *int `json:"maxStops,omitempty"`

	// DirectOnly drops every offer with an intermediate stop.
	DirectOnly bool `json:"directOnly,omitempty"`

	// Airlines keeps only offers whose airline name matches one of these, case-insensitively.
	Airlines []string `json:"airlines,omitempty"`

	// Sources keeps only offers from these providers, case-insensitively.
	Sources []string `json:"sources,omitempty"`
}

// IsEmpty reports whether no criterion is set.
func (f *FilterOptions) IsEmpty() bool {
	return f == nil || (f.MaxPrice == nil && f.MaxStops == nil && !f.DirectOnly && len(f.Airlines) == 0 && len(f.Sources) == 0)
}

// Matches reports whether an offer satisfies every criterion.
func (f *FilterOptions) Matches(o Offer) bool {
	if f == nil {
		return true
	}
	if f.MaxPrice != nil && o.Price > *f.MaxPrice {
		return false
	}
	if f.MaxStops != nil && o.Stops > *f.MaxStops {
		return false
	}
	if f.DirectOnly && !o.IsDirect() {
		return false
	}
	if len(f.Airlines) > 0 && !containsFold(f.Airlines, o.Airline) {
		return false
	}
	if len(f.Sources) > 0 && !containsFold(f.Sources, o.Source) {
		return false
	}
	return true
}

func containsFold(values []string, s string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), s) {
			return true
		}
	}
	return false
}
