package memory

import (
	"context"

	"day-planner-service/internal/domain"
)

// StaticGeocoder resolves queries from a fixed in-memory table. Used by tests
// and by the planner CLI's dry-run mode, where coordinates come from the
// source file instead of a live geocoding API.
type StaticGeocoder struct {
	Coords map[string]domain.Coordinates
}

func NewStaticGeocoder(coords map[string]domain.Coordinates) *StaticGeocoder {
	return &StaticGeocoder{Coords: coords}
}

func (g *StaticGeocoder) Geocode(ctx context.Context, query string) (domain.Coordinates, error) {
	coord, ok := g.Coords[query]
	if !ok {
		return domain.Coordinates{}, &domain.GeocodeNotFoundError{Query: query}
	}
	return coord, nil
}
