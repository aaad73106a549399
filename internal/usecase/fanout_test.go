package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/skyscout/fare-aggregator/internal/domain"
	"github.com/skyscout/fare-aggregator/internal/infrastructure/logger"
)

func TestCollector_Collect(t *testing.T) {
	ctrl := gomock.NewController(t)

	tests := []struct {
		name       string
		providers  []domain.OfferProvider
		wantCount  int
		wantCounts map[string]int
		wantFailed []string
	}{
		{
			name:       "no providers",
			providers:  nil,
			wantCount:  0,
			wantCounts: map[string]int{},
		},
		{
			name: "all succeed",
			providers: []domain.OfferProvider{
				setupMockProvider(ctrl, "Amadeus", []domain.Offer{createTestOffer("Amadeus", "Delta", 250, 0)}, nil),
				setupMockProvider(ctrl, "Kiwi.com", []domain.Offer{createTestOffer("Kiwi.com", "United", 300, 1)}, nil),
			},
			wantCount:  2,
			wantCounts: map[string]int{"Amadeus": 1, "Kiwi.com": 1},
		},
		{
			name: "partial failure",
			providers: []domain.OfferProvider{
				setupMockProvider(ctrl, "Amadeus", []domain.Offer{createTestOffer("Amadeus", "Delta", 250, 0)}, nil),
				setupMockProvider(ctrl, "Kiwi.com", nil, domain.NewProviderUnavailableError("Kiwi.com", nil)),
			},
			wantCount:  1,
			wantCounts: map[string]int{"Amadeus": 1, "Kiwi.com": 0},
			wantFailed: []string{"Kiwi.com"},
		},
		{
			name: "all fail",
			providers: []domain.OfferProvider{
				setupMockProvider(ctrl, "Amadeus", nil, errors.New("boom")),
				setupMockProvider(ctrl, "Kiwi.com", nil, errors.New("boom")),
			},
			wantCount:  0,
			wantCounts: map[string]int{"Amadeus": 0, "Kiwi.com": 0},
			wantFailed: []string{"Amadeus", "Kiwi.com"},
		},
		{
			name: "panic is contained",
			providers: []domain.OfferProvider{
				setupMockProviderWithPanic(ctrl, "Skyscanner", "nil map"),
				setupMockProvider(ctrl, "Amadeus", []domain.Offer{createTestOffer("Amadeus", "Delta", 250, 0)}, nil),
			},
			wantCount:  1,
			wantCounts: map[string]int{"Skyscanner": 0, "Amadeus": 1},
			wantFailed: []string{"Skyscanner"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(newRegistry(tt.providers...), nil, logger.Nop())

			offers, counts, results := c.Collect(context.Background(), validQuery())

			assert.NotNil(t, offers)
			assert.Len(t, offers, tt.wantCount)
			assert.Equal(t, tt.wantCounts, counts)
			require.Len(t, results, len(tt.providers))

			var failed []string
			for _, r := range results {
				if !r.OK() {
					failed = append(failed, r.Source)
					assert.Empty(t, r.Offers)
				}
			}
			assert.Equal(t, tt.wantFailed, failed)
		})
	}
}

func TestCollector_RegistrationOrder(t *testing.T) {
	ctrl := gomock.NewController(t)

	slow := setupMockProviderWithDelay(ctrl, "Amadeus", []domain.Offer{createTestOffer("Amadeus", "Delta", 500, 0)}, 50*time.Millisecond)
	fast := setupMockProvider(ctrl, "Kiwi.com", []domain.Offer{createTestOffer("Kiwi.com", "United", 100, 0)}, nil)

	c := NewCollector(newRegistry(slow, fast), nil, logger.Nop())
	offers, _, results := c.Collect(context.Background(), validQuery())

	require.Len(t, offers, 2)
	assert.Equal(t, "Amadeus", offers[0].Source)
	assert.Equal(t, "Kiwi.com", offers[1].Source)
	assert.Equal(t, "Amadeus", results[0].Source)
	assert.Equal(t, "Kiwi.com", results[1].Source)
}

func TestCollector_RunsConcurrently(t *testing.T) {
	ctrl := gomock.NewController(t)

	delay := 100 * time.Millisecond
	providers := []domain.OfferProvider{
		setupMockProviderWithDelay(ctrl, "A", nil, delay),
		setupMockProviderWithDelay(ctrl, "B", nil, delay),
		setupMockProviderWithDelay(ctrl, "C", nil, delay),
	}

	c := NewCollector(newRegistry(providers...), nil, logger.Nop())

	start := time.Now()
	_, counts, _ := c.Collect(context.Background(), validQuery())
	elapsed := time.Since(start)

	assert.Len(t, counts, 3)
	assert.Less(t, elapsed, 2*delay)
}

func TestCollector_RateLimitedProviderIsSoftFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	limited := domain.NewMockOfferProvider(ctrl)
	limited.EXPECT().Name().Return("Kiwi.com").AnyTimes()
	limited.EXPECT().Search(gomock.Any(), gomock.Any()).Times(0)

	ok := setupMockProvider(ctrl, "Amadeus", []domain.Offer{createTestOffer("Amadeus", "Delta", 250, 0)}, nil)

	limiter := stubLimiter{reject: map[string]bool{"Kiwi.com": true}}
	c := NewCollector(newRegistry(ok, limited), limiter, logger.Nop())

	offers, counts, results := c.Collect(context.Background(), validQuery())

	assert.Len(t, offers, 1)
	assert.Equal(t, map[string]int{"Amadeus": 1, "Kiwi.com": 0}, counts)
	assert.True(t, errors.Is(results[1].Err, domain.ErrRateLimited))
}

func TestCollector_SourceIsProviderName(t *testing.T) {
	ctrl := gomock.NewController(t)

	p := domain.NewMockOfferProvider(ctrl)
	p.EXPECT().Name().Return("Amadeus").AnyTimes()
	p.EXPECT().Search(gomock.Any(), gomock.Any()).Return(domain.ProviderResult{Err: errors.New("bad"), Offers: []domain.Offer{createTestOffer("x", "y", 1, 0)}})

	c := NewCollector(newRegistry(p), nil, logger.Nop())
	offers, counts, results := c.Collect(context.Background(), validQuery())

	assert.Empty(t, offers)
	assert.Equal(t, map[string]int{"Amadeus": 0}, counts)
	assert.Equal(t, "Amadeus", results[0].Source)
	assert.Empty(t, results[0].Offers)
}

func TestCollector_FailureLogClassifiesError(t *testing.T) {
	ctrl := gomock.NewController(t)

	providers := []domain.OfferProvider{
		setupMockProvider(ctrl, "Amadeus", nil, domain.NewProviderTimeoutError("Amadeus")),
		setupMockProvider(ctrl, "Kiwi.com", nil, domain.NewProviderStatusError("Kiwi.com", 403)),
		setupMockProvider(ctrl, "Skyscanner", nil, domain.NewProviderStatusError("Skyscanner", 503)),
	}

	var buf bytes.Buffer
	c := NewCollector(newRegistry(providers...), nil, zerolog.New(zerolog.SyncWriter(&buf)))
	c.Collect(context.Background(), validQuery())

	type failure struct {
		Provider  string `json:"provider"`
		Timeout   bool   `json:"timeout"`
		Retryable bool   `json:"retryable"`
	}
	got := map[string]failure{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var f failure
		require.NoError(t, json.Unmarshal([]byte(line), &f))
		got[f.Provider] = f
	}

	assert.Equal(t, failure{Provider: "Amadeus", Timeout: true, Retryable: true}, got["Amadeus"])
	assert.Equal(t, failure{Provider: "Kiwi.com"}, got["Kiwi.com"])
	assert.Equal(t, failure{Provider: "Skyscanner", Retryable: true}, got["Skyscanner"])
}
