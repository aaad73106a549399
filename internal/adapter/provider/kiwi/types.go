package kiwi

import (
	"encoding/json"

	"github.com/skyscout/fare-aggregator/internal/adapter/provider"
)

type searchResponse struct {
	Currency string      `json:"currency"`
	Data     []itinerary `json:"data"`
}

type itinerary struct {
	ID       string            `json:"id"`
	Price    provider.Amount   `json:"price"`
	Airlines []string          `json:"airlines"`
	Route    []json.RawMessage `json:"route"`
	Duration *struct {
		Total *int `json:"total"`
	} `json:"duration"`
	DeepLink string `json:"deep_link"`
}
