package services

import (
	"errors"
	"fmt"

	"day-planner-service/internal/domain"
)

// BuildRoute plans a depot-to-depot visiting order for one cluster using a
// greedy nearest-neighbor heuristic.
//
// At each step the not-yet-visited member with the minimum directed drive time
// from the current location is appended; ties break by stable member input
// order. Drive time plus one service increment accumulate into each stop's
// arrival offset, and the tour closes with the last-stop-to-depot leg. The
// heuristic never backtracks; it trades tour optimality for predictability at
// the small per-day cluster sizes expected.
//
// A directed pair absent from the matrix is a domain.MissingMatrixEntryError,
// propagated rather than treated as zero or infinite.
func BuildRoute(depotID string, cluster *domain.Cluster, matrix domain.TravelMatrix, serviceMinutes float64) (*domain.Route, error) {
	if len(cluster.Members) == 0 {
		return nil, errors.New("build route: cluster must not be empty")
	}

	remaining := make([]*domain.DeliveryRequest, len(cluster.Members))
	copy(remaining, cluster.Members)

	stops := make([]domain.Stop, 0, len(remaining))
	current := depotID
	elapsed := 0.0
	drive := 0.0

	for len(remaining) > 0 {
		bestIdx := -1
		bestMinutes := 0.0

		// Strict less-than keeps the earliest input-order member on ties.
		for i, candidate := range remaining {
			minutes, err := matrix.Minutes(current, candidate.Postcode)
			if err != nil {
				return nil, fmt.Errorf("build route: %w", err)
			}
			if bestIdx < 0 || minutes < bestMinutes {
				bestIdx = i
				bestMinutes = minutes
			}
		}

		next := remaining[bestIdx]
		elapsed += bestMinutes
		drive += bestMinutes

		stops = append(stops, domain.Stop{
			Request:             next,
			ArriveOffsetMinutes: elapsed,
		})

		elapsed += serviceMinutes
		current = next.Postcode
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	back, err := matrix.Minutes(current, depotID)
	if err != nil {
		return nil, fmt.Errorf("build route: return leg: %w", err)
	}
	drive += back

	return &domain.Route{Stops: stops, DriveMinutes: drive}, nil
}

// ImproveRoute applies 2-opt segment reversals to an existing route until no
// reversal shortens the total drive time. The stop set is unchanged; only the
// order may differ. The result is never worse than the input route.
func ImproveRoute(depotID string, route *domain.Route, matrix domain.TravelMatrix, serviceMinutes float64) (*domain.Route, error) {
	order := make([]*domain.DeliveryRequest, 0, len(route.Stops))
	for _, s := range route.Stops {
		order = append(order, s.Request)
	}

	best := order
	bestDrive := route.DriveMinutes

	improved := true
	for improved {
		improved = false
		for i := 0; i < len(best)-1 && !improved; i++ {
			for k := i + 1; k < len(best); k++ {
				candidate := reverseSegment(best, i, k)
				drive, err := pathDriveMinutes(depotID, candidate, matrix)
				if err != nil {
					return nil, fmt.Errorf("improve route: %w", err)
				}
				if drive+1e-9 < bestDrive {
					best = candidate
					bestDrive = drive
					improved = true
					break
				}
			}
		}
	}

	return routeFromOrder(depotID, best, matrix, serviceMinutes)
}

func reverseSegment(order []*domain.DeliveryRequest, i, k int) []*domain.DeliveryRequest {
	out := make([]*domain.DeliveryRequest, len(order))
	copy(out, order)
	for lo, hi := i, k; lo < hi; lo, hi = lo+1, hi-1 {
		out[lo], out[hi] = out[hi], out[lo]
	}
	return out
}

// pathDriveMinutes sums the directed legs of depot -> order... -> depot.
func pathDriveMinutes(depotID string, order []*domain.DeliveryRequest, matrix domain.TravelMatrix) (float64, error) {
	current := depotID
	total := 0.0
	for _, req := range order {
		minutes, err := matrix.Minutes(current, req.Postcode)
		if err != nil {
			return 0, err
		}
		total += minutes
		current = req.Postcode
	}
	back, err := matrix.Minutes(current, depotID)
	if err != nil {
		return 0, err
	}
	return total + back, nil
}

// routeFromOrder rebuilds stop timings for a fixed visiting order.
func routeFromOrder(depotID string, order []*domain.DeliveryRequest, matrix domain.TravelMatrix, serviceMinutes float64) (*domain.Route, error) {
	stops := make([]domain.Stop, 0, len(order))
	current := depotID
	elapsed := 0.0
	drive := 0.0

	for _, req := range order {
		minutes, err := matrix.Minutes(current, req.Postcode)
		if err != nil {
			return nil, err
		}
		elapsed += minutes
		drive += minutes
		stops = append(stops, domain.Stop{Request: req, ArriveOffsetMinutes: elapsed})
		elapsed += serviceMinutes
		current = req.Postcode
	}

	back, err := matrix.Minutes(current, depotID)
	if err != nil {
		return nil, err
	}
	drive += back

	return &domain.Route{Stops: stops, DriveMinutes: drive}, nil
}
