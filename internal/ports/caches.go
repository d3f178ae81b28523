package ports

import (
	"context"

	"day-planner-service/internal/domain"
)

// GeocodeCache stores postcode/address -> coordinate mappings so repeated runs
// avoid re-geocoding. Keys are expected to be normalized by the caller.
type GeocodeCache interface {
	// Fetch cached coordinates for the given keys; absent keys are omitted.
	GetMany(ctx context.Context, keys []string) (map[string]domain.Coordinates, error)
	// Store key -> coordinate mappings.
	PutMany(ctx context.Context, entries map[string]domain.Coordinates) error
}

// TravelTimeCache stores directed origin->destination drive minutes.
type TravelTimeCache interface {
	// Fetch cached minutes for one origin and many destinations; absent
	// destinations are omitted.
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]float64, error)
	// Store many cached drive times for a single origin.
	PutMany(ctx context.Context, origin string, minutes map[string]float64) error
}
