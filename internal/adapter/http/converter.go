package http

import (
	"strings"

	"github.com/skyscout/fare-aggregator/internal/domain"
)

// ToDomainQuery converts a validated request into a domain.Query.
func ToDomainQuery(req *SearchFaresRequest) domain.Query {
	return domain.NewQuery(req.Origin, req.Destination, req.DepartDate, req.ReturnDate, req.Passengers)
}

// ToDomainFilters converts a FilterDTO to domain.FilterOptions.
func ToDomainFilters(dto *FilterDTO) *domain.FilterOptions {
	if dto == nil {
		return nil
	}

	return &domain.FilterOptions{
		MaxPrice:   dto.MaxPrice,
		MaxStops:   dto.MaxStops,
		DirectOnly: dto.DirectOnly,
		Airlines:   trimAll(dto.Airlines),
		Sources:    trimAll(dto.Sources),
	}
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
