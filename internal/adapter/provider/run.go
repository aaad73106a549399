package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skyscout/fare-aggregator/internal/domain"
)

// SearchFunc fetches and maps offers for one provider.
type SearchFunc func(ctx context.Context, q domain.Query) ([]domain.Offer, error)

// Run executes fn and folds its outcome into a ProviderResult. Errors and panics
// become soft failures; successful offers are normalized and stamped with the source.
func Run(ctx context.Context, source string, q domain.Query, logger zerolog.Logger, fn SearchFunc) (result domain.ProviderResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = domain.Failed(source, domain.NewProviderError(source, fmt.Errorf("panic: %v", r)))
		}
		result.Duration = time.Since(start)
		if result.Err != nil {
			logger.Warn().Err(result.Err).Dur("elapsed", result.Duration).Msg("provider search failed")
		}
	}()

	offers, err := fn(ctx, q)
	if err != nil {
		return domain.Failed(source, err)
	}

	normalized := make([]domain.Offer, 0, len(offers))
	for _, o := range offers {
		o.Source = source
		normalized = append(normalized, o.Normalize())
	}
	return domain.Succeeded(source, normalized)
}

// Cap keeps the first n offers in upstream order. n <= 0 keeps everything.
func Cap(offers []domain.Offer, n int) []domain.Offer {
	if n > 0 && len(offers) > n {
		return offers[:n]
	}
	return offers
}

// FirstNonEmpty returns the first argument that is not empty.
func FirstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// AbsoluteURL returns the first link with an http or https scheme, or fallback
// when none qualifies.
func AbsoluteURL(fallback string, links ...string) string {
	for _, link := range links {
		link = strings.TrimSpace(link)
		if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
			return link
		}
	}
	return fallback
}
