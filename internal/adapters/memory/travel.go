package memory

import (
	"context"
	"fmt"

	"day-planner-service/internal/domain"
	"day-planner-service/internal/ports"
)

// HaversineTravel estimates drive times from great-circle distance at a fixed
// average speed. It produces a full directed (symmetric) matrix, which keeps
// the planner usable without a routing API in dry runs and tests.
type HaversineTravel struct {
	SpeedKmh float64
}

func NewHaversineTravel(speedKmh float64) *HaversineTravel {
	if speedKmh <= 0 {
		speedKmh = 40
	}
	return &HaversineTravel{SpeedKmh: speedKmh}
}

func (t *HaversineTravel) RouteMatrix(ctx context.Context, locations []ports.Location) (domain.TravelMatrix, error) {
	matrix := make(domain.TravelMatrix, len(locations)*len(locations))
	for _, from := range locations {
		for _, to := range locations {
			if from.ID == to.ID {
				continue
			}
			km, err := domain.HaversineKm(from.Coord, to.Coord)
			if err != nil {
				return nil, fmt.Errorf("haversine travel: %q -> %q: %w", from.ID, to.ID, err)
			}
			matrix[domain.MatrixKey{From: from.ID, To: to.ID}] = km / t.SpeedKmh * 60
		}
	}
	return matrix, nil
}

// StaticTravel serves a pre-built matrix. Test helper for exercising missing
// entry handling and asymmetric durations.
type StaticTravel struct {
	Matrix domain.TravelMatrix
	Err    error
}

func (t *StaticTravel) RouteMatrix(ctx context.Context, locations []ports.Location) (domain.TravelMatrix, error) {
	if t.Err != nil {
		return nil, t.Err
	}
	return t.Matrix, nil
}

// StaticRepository serves a fixed request list.
type StaticRepository struct {
	Requests []*domain.DeliveryRequest
	Err      error
}

func (r *StaticRepository) ListRequests(ctx context.Context) ([]*domain.DeliveryRequest, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Requests, nil
}
