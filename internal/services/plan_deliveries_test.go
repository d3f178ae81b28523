package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"day-planner-service/internal/adapters/memory"
	"day-planner-service/internal/domain"
)

func reqPending(row int, postcode string, deadline time.Time) *domain.DeliveryRequest {
	return &domain.DeliveryRequest{
		Recipient: "r" + postcode,
		Postcode:  postcode,
		Deadline:  deadline,
		Row:       row,
	}
}

func planParams(today time.Time) PlanDeliveriesRequest {
	return PlanDeliveriesRequest{
		Depot:          "DEPOT",
		Today:          today,
		ThresholdKm:    12,
		ServiceMinutes: 10,
		WorkdayMinutes: 480,
	}
}

func TestPlanDeliveriesEndToEnd(t *testing.T) {
	today := day(2026, 8, 25)

	repo := &memory.StaticRepository{Requests: []*domain.DeliveryRequest{
		reqPending(2, "N1", day(2026, 9, 2)),
		reqPending(3, "F1", day(2026, 9, 1)),
		reqPending(4, "N2", day(2026, 9, 2)),
	}}
	geocoder := memory.NewStaticGeocoder(map[string]domain.Coordinates{
		"DEPOT": {Lat: 52.0, Lon: 0.0},
		"N1":    {Lat: 52.0, Lon: 0.01},
		"N2":    {Lat: 52.0 + kmNorth(5), Lon: 0.01},
		"F1":    {Lat: 52.0 + kmNorth(200), Lon: 0.0},
	})
	travel := memory.NewHaversineTravel(40)

	outcome, err := PlanDeliveries(context.Background(), planParams(today), repo, geocoder, travel)
	require.NoError(t, err)
	require.Empty(t, outcome.Failures)
	require.Len(t, outcome.Plans, 2)

	// Plans come back ordered by date: the far cluster's earlier deadline
	// schedules it first.
	far, near := outcome.Plans[0], outcome.Plans[1]
	assert.Equal(t, day(2026, 9, 1), far.Date)
	assert.Equal(t, day(2026, 9, 2), near.Date)

	require.Len(t, far.Stops, 1)
	assert.Equal(t, "F1", far.Stops[0].Request.Postcode)
	// 200 km out and back at 40 km/h is 600 min of driving; over budget.
	assert.False(t, far.Feasible)
	assert.NotEmpty(t, far.Reason)

	require.Len(t, near.Stops, 2)
	assert.True(t, near.Feasible)
	assert.Equal(t, 20.0, near.ServiceMinutes)
}

func TestPlanDeliveriesIsolatesPastDeadline(t *testing.T) {
	today := day(2026, 8, 25)

	repo := &memory.StaticRepository{Requests: []*domain.DeliveryRequest{
		reqPending(2, "LATE", day(2026, 8, 20)),
		reqPending(3, "OK", day(2026, 9, 1)),
	}}
	geocoder := memory.NewStaticGeocoder(map[string]domain.Coordinates{
		"DEPOT": {Lat: 52.0, Lon: 0.0},
		"LATE":  {Lat: 52.0 + kmNorth(100), Lon: 0.0},
		"OK":    {Lat: 52.0, Lon: 0.01},
	})

	outcome, err := PlanDeliveries(context.Background(), planParams(today), repo, geocoder, memory.NewHaversineTravel(40))
	require.NoError(t, err)

	require.Len(t, outcome.Plans, 1)
	assert.Equal(t, "OK", outcome.Plans[0].Stops[0].Request.Postcode)

	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, []string{"LATE"}, outcome.Failures[0].Postcodes)
	var past *domain.PastDeadlineError
	require.ErrorAs(t, outcome.Failures[0].Err, &past)
	require.Len(t, past.Violations, 1)
	assert.Equal(t, day(2026, 8, 20), past.Violations[0].Deadline)
}

func TestPlanDeliveriesIsolatesMissingMatrixEntry(t *testing.T) {
	today := day(2026, 8, 25)

	repo := &memory.StaticRepository{Requests: []*domain.DeliveryRequest{
		reqPending(2, "A", day(2026, 9, 1)),
		reqPending(3, "B", day(2026, 9, 2)),
	}}
	geocoder := memory.NewStaticGeocoder(map[string]domain.Coordinates{
		"DEPOT": {Lat: 52.0, Lon: 0.0},
		"A":     {Lat: 52.0, Lon: 0.01},
		"B":     {Lat: 52.0 + kmNorth(100), Lon: 0.0},
	})

	// The provider covers cluster A but has no entries for B.
	travel := &memory.StaticTravel{Matrix: domain.TravelMatrix{
		{From: "DEPOT", To: "A"}: 5,
		{From: "A", To: "DEPOT"}: 5,
	}}

	outcome, err := PlanDeliveries(context.Background(), planParams(today), repo, geocoder, travel)
	require.NoError(t, err)

	require.Len(t, outcome.Plans, 1)
	assert.Equal(t, "A", outcome.Plans[0].Stops[0].Request.Postcode)

	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, []string{"B"}, outcome.Failures[0].Postcodes)
	assert.Equal(t, day(2026, 9, 2), outcome.Failures[0].Date)
	var missing *domain.MissingMatrixEntryError
	require.ErrorAs(t, outcome.Failures[0].Err, &missing)
	assert.Equal(t, "DEPOT", missing.From)
	assert.Equal(t, "B", missing.To)
}

func TestPlanDeliveriesUnknownPostcodeIsFatal(t *testing.T) {
	today := day(2026, 8, 25)

	repo := &memory.StaticRepository{Requests: []*domain.DeliveryRequest{
		reqPending(2, "KNOWN", day(2026, 9, 1)),
		reqPending(3, "GHOST", day(2026, 9, 1)),
	}}
	geocoder := memory.NewStaticGeocoder(map[string]domain.Coordinates{
		"DEPOT": {Lat: 52.0, Lon: 0.0},
		"KNOWN": {Lat: 52.0, Lon: 0.01},
	})

	_, err := PlanDeliveries(context.Background(), planParams(today), repo, geocoder, memory.NewHaversineTravel(40))
	var notFound *domain.GeocodeNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "GHOST", notFound.Query)
}

func TestPlanDeliveriesUnresolvableDepotIsFatal(t *testing.T) {
	repo := &memory.StaticRepository{Requests: []*domain.DeliveryRequest{
		reqPending(2, "A", day(2026, 9, 1)),
	}}
	geocoder := memory.NewStaticGeocoder(map[string]domain.Coordinates{
		"A": {Lat: 52.0, Lon: 0.0},
	})

	_, err := PlanDeliveries(context.Background(), planParams(day(2026, 8, 25)), repo, geocoder, memory.NewHaversineTravel(40))
	var notFound *domain.GeocodeNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "DEPOT", notFound.Query)
}

func TestPlanDeliveriesEmptyRepository(t *testing.T) {
	repo := &memory.StaticRepository{}
	geocoder := memory.NewStaticGeocoder(map[string]domain.Coordinates{
		"DEPOT": {Lat: 52.0, Lon: 0.0},
	})

	_, err := PlanDeliveries(context.Background(), planParams(day(2026, 8, 25)), repo, geocoder, memory.NewHaversineTravel(40))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no delivery requests")
}
