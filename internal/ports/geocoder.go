package ports

import (
	"context"

	"day-planner-service/internal/domain"
)

// Contract for resolving a postcode or address to coordinates.
type Geocoder interface {
	// Resolve a single postcode or address. An unresolvable query yields
	// domain.GeocodeNotFoundError.
	Geocode(ctx context.Context, query string) (domain.Coordinates, error)
}
