package domain

// AggregateResult is what the engine returns for a valid query.
type AggregateResult struct {
	Offers          []Offer
	ServedFromCache bool

	// ProviderCounts maps each provider to the number of offers it returned.
	// Failed providers appear with zero. Empty on a cache hit.
	ProviderCounts map[string]int
}

// Total returns the number of offers in the result.
func (r AggregateResult) Total() int {
	return len(r.Offers)
}
