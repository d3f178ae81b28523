package ports

import (
	"context"

	"day-planner-service/internal/domain"
)

// Location pairs a stable identifier (depot name or postcode) with its
// coordinates for matrix requests.
type Location struct {
	ID    string
	Coord domain.Coordinates
}

// Contract for retrieving pairwise drive times between a set of locations.
type TravelTimeProvider interface {
	// Return a directed drive-time matrix covering every ordered pair of the
	// given locations. Called once per cluster (depot + members), not per pair.
	RouteMatrix(ctx context.Context, locations []Location) (domain.TravelMatrix, error)
}
