package services

import (
	"fmt"

	"day-planner-service/internal/domain"
)

// DefaultThresholdKm is the proximity threshold used when none is configured.
const DefaultThresholdKm = 12.0

// ClusterByProximity groups delivery requests into clusters of mutually
// reachable neighbors under thresholdKm.
//
// The grouping is greedy, deterministic and chained: the first unassigned
// request in input order seeds a new cluster, then remaining unassigned
// requests are swept repeatedly and absorbed whenever they lie within the
// threshold of ANY current member. A request 10 km from a member can join
// even when it is farther than the threshold from the seed. This yields the
// connected components of the implicit proximity graph; clusters have no size
// limit and no compactness guarantee beyond pairwise-chain proximity.
//
// Cluster emission order is the input order of each cluster's seed. Empty
// input yields no clusters. Requests sharing identical coordinates trivially
// cluster together. The only error path is an out-of-range coordinate, which
// cannot occur for requests geocoded through the pipeline.
func ClusterByProximity(requests []*domain.DeliveryRequest, thresholdKm float64) ([]*domain.Cluster, error) {
	if thresholdKm <= 0 {
		thresholdKm = DefaultThresholdKm
	}

	clusters := make([]*domain.Cluster, 0, len(requests))
	assigned := make([]bool, len(requests))

	for seed := range requests {
		if assigned[seed] {
			continue
		}

		cluster := &domain.Cluster{Members: []*domain.DeliveryRequest{requests[seed]}}
		assigned[seed] = true

		// Sweep until a full pass absorbs nothing: chained proximity means a
		// newly added member can pull in requests the seed could not reach.
		for {
			grew := false
			for i := seed + 1; i < len(requests); i++ {
				if assigned[i] {
					continue
				}

				near, err := withinThreshold(requests[i], cluster, thresholdKm)
				if err != nil {
					return nil, fmt.Errorf("cluster by proximity: row %d: %w", requests[i].Row, err)
				}
				if near {
					cluster.Members = append(cluster.Members, requests[i])
					assigned[i] = true
					grew = true
				}
			}
			if !grew {
				break
			}
		}

		clusters = append(clusters, cluster)
	}

	return clusters, nil
}

// withinThreshold reports whether the request is within thresholdKm of any
// current cluster member.
func withinThreshold(req *domain.DeliveryRequest, cluster *domain.Cluster, thresholdKm float64) (bool, error) {
	for _, member := range cluster.Members {
		km, err := domain.HaversineKm(req.Coordinate, member.Coordinate)
		if err != nil {
			return false, err
		}
		if km <= thresholdKm {
			return true, nil
		}
	}
	return false, nil
}
