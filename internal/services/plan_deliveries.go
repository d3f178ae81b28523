package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"day-planner-service/internal/domain"
	"day-planner-service/internal/ports"
)

// geocodeWorkers bounds concurrent geocode lookups against the external API.
const geocodeWorkers = 5

type geocodeResult struct {
	postcode string
	coord    domain.Coordinates
	err      error
}

// PlanDeliveriesRequest carries the planning parameters for one run.
type PlanDeliveriesRequest struct {
	Depot          string
	Today          time.Time
	ThresholdKm    float64
	ServiceMinutes float64
	WorkdayMinutes float64
	TwoOpt         bool
}

// ClusterFailure reports one cluster that could not be planned. Failures are
// isolated: the rest of the run still produces day plans.
type ClusterFailure struct {
	Postcodes []string
	Date      time.Time
	Err       error
}

// PlanOutcome is the result of one planning run: day plans ordered by date
// (then by cluster emission order) plus per-cluster failures.
type PlanOutcome struct {
	Plans    []domain.DayPlan
	Failures []ClusterFailure
}

// PlanDeliveries runs the full planning pipeline: load requests, geocode
// unique postcodes, cluster by proximity, schedule against deadlines, build
// and evaluate a route per cluster, and aggregate the day plans.
//
// Fatal errors (no requests, unresolvable depot or postcode, invalid
// coordinates) abort the run. Per-cluster errors (past deadlines, missing
// matrix data) are recorded as failures in the outcome while the remaining
// clusters are planned normally.
func PlanDeliveries(
	ctx context.Context,
	req PlanDeliveriesRequest,
	repo ports.RequestRepository,
	geocoder ports.Geocoder,
	travel ports.TravelTimeProvider,
) (*PlanOutcome, error) {
	requests, err := repo.ListRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: list requests: %w", err)
	}
	if len(requests) == 0 {
		return nil, errors.New("plan deliveries: no delivery requests found")
	}

	depotCoord, err := geocoder.Geocode(ctx, req.Depot)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: geocode depot %q: %w", req.Depot, err)
	}
	if err := depotCoord.Validate(); err != nil {
		return nil, fmt.Errorf("plan deliveries: depot %q: %w", req.Depot, err)
	}

	locations, err := geocodePostcodes(ctx, geocoder, uniquePostcodes(requests))
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	for _, r := range requests {
		r.SetCoordinate(locations[r.Postcode])
	}

	// Deadline-then-row order fixes the clustering input order, which decides
	// seeds and tie-breaks downstream.
	sort.SliceStable(requests, func(i, j int) bool {
		if !requests[i].Deadline.Equal(requests[j].Deadline) {
			return requests[i].Deadline.Before(requests[j].Deadline)
		}
		return requests[i].Row < requests[j].Row
	})

	clusters, err := ClusterByProximity(requests, req.ThresholdKm)
	if err != nil {
		return nil, fmt.Errorf("plan deliveries: %w", err)
	}

	outcome := &PlanOutcome{}

	assignments, schedErr := ScheduleClusters(clusters, req.Today)
	if schedErr != nil {
		var pastDeadline *domain.PastDeadlineError
		if !errors.As(schedErr, &pastDeadline) {
			return nil, fmt.Errorf("plan deliveries: schedule clusters: %w", schedErr)
		}
		for _, v := range pastDeadline.Violations {
			outcome.Failures = append(outcome.Failures, ClusterFailure{
				Postcodes: postcodesOf(v.Requests),
				Err:       &domain.PastDeadlineError{Today: domain.DateOnly(req.Today), Violations: []domain.DeadlineViolation{v}},
			})
		}
	}

	for _, a := range assignments {
		plan, err := planCluster(ctx, req, depotCoord, a, travel)
		if err != nil {
			outcome.Failures = append(outcome.Failures, ClusterFailure{
				Postcodes: a.Cluster.Postcodes(),
				Date:      a.Date,
				Err:       err,
			})
			continue
		}
		outcome.Plans = append(outcome.Plans, plan)
	}

	SortPlans(outcome.Plans)
	return outcome, nil
}

// planCluster fetches one drive-time matrix for the cluster and turns it into
// an evaluated day plan.
func planCluster(
	ctx context.Context,
	req PlanDeliveriesRequest,
	depotCoord domain.Coordinates,
	a Assignment,
	travel ports.TravelTimeProvider,
) (domain.DayPlan, error) {
	locs := make([]ports.Location, 0, 1+len(a.Cluster.Members))
	locs = append(locs, ports.Location{ID: req.Depot, Coord: depotCoord})
	for _, m := range a.Cluster.Members {
		locs = append(locs, ports.Location{ID: m.Postcode, Coord: m.Coordinate})
	}

	matrix, err := travel.RouteMatrix(ctx, locs)
	if err != nil {
		return domain.DayPlan{}, fmt.Errorf("route matrix: %w", err)
	}

	route, err := BuildRoute(req.Depot, a.Cluster, matrix, req.ServiceMinutes)
	if err != nil {
		return domain.DayPlan{}, err
	}

	if req.TwoOpt {
		route, err = ImproveRoute(req.Depot, route, matrix, req.ServiceMinutes)
		if err != nil {
			return domain.DayPlan{}, err
		}
	}

	return EvaluateRoute(a.Date, route, req.ServiceMinutes, req.WorkdayMinutes), nil
}

// geocodePostcodes resolves unique postcodes with a bounded worker pool and
// reassembles results by postcode key, keeping downstream stages independent
// of completion order.
func geocodePostcodes(ctx context.Context, geocoder ports.Geocoder, postcodes []string) (map[string]domain.Coordinates, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, geocodeWorkers)
	results := make(chan geocodeResult, len(postcodes))
	var wg sync.WaitGroup

	for _, pc := range postcodes {
		wg.Add(1)
		go func(postcode string) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			coord, err := geocoder.Geocode(ctx, postcode)
			if err != nil {
				results <- geocodeResult{postcode: postcode, err: fmt.Errorf("geocode %q: %w", postcode, err)}
				cancel()
				return
			}
			if err := coord.Validate(); err != nil {
				results <- geocodeResult{postcode: postcode, err: fmt.Errorf("geocode %q: %w", postcode, err)}
				cancel()
				return
			}
			results <- geocodeResult{postcode: postcode, coord: coord}
		}(pc)
	}

	wg.Wait()
	close(results)

	out := make(map[string]domain.Coordinates, len(postcodes))
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		out[res.postcode] = res.coord
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return out, nil
}

// uniquePostcodes returns the sorted set of postcodes across requests.
func uniquePostcodes(requests []*domain.DeliveryRequest) []string {
	seen := make(map[string]struct{}, len(requests))
	out := make([]string, 0, len(requests))
	for _, r := range requests {
		if _, ok := seen[r.Postcode]; ok {
			continue
		}
		seen[r.Postcode] = struct{}{}
		out = append(out, r.Postcode)
	}
	sort.Strings(out)
	return out
}

func postcodesOf(requests []*domain.DeliveryRequest) []string {
	out := make([]string, 0, len(requests))
	for _, r := range requests {
		out = append(out, r.Postcode)
	}
	return out
}
