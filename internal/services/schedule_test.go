package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"day-planner-service/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestScheduleClustersEarliestDeadlineGoverns(t *testing.T) {
	d1 := day(2026, 9, 1)
	d2 := day(2026, 9, 3)
	d3 := day(2026, 9, 7)

	cluster := &domain.Cluster{Members: []*domain.DeliveryRequest{
		reqAt(2, "A", 52.0, 0.0, d2),
		reqAt(3, "B", 52.0, 0.01, d1),
		reqAt(4, "C", 52.0, 0.02, d3),
	}}

	assignments, err := ScheduleClusters([]*domain.Cluster{cluster}, day(2026, 8, 25))
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, d1, assignments[0].Date)
}

func TestScheduleClustersSharedDateAllowed(t *testing.T) {
	d := day(2026, 9, 1)
	c1 := &domain.Cluster{Members: []*domain.DeliveryRequest{reqAt(2, "A", 52.0, 0.0, d)}}
	c2 := &domain.Cluster{Members: []*domain.DeliveryRequest{reqAt(3, "B", 53.0, 0.0, d)}}

	assignments, err := ScheduleClusters([]*domain.Cluster{c1, c2}, day(2026, 8, 25))
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, d, assignments[0].Date)
	assert.Equal(t, d, assignments[1].Date)
}

func TestScheduleClustersCollectsPastDeadlines(t *testing.T) {
	today := day(2026, 8, 25)

	late1 := &domain.Cluster{Members: []*domain.DeliveryRequest{reqAt(2, "L1", 52.0, 0.0, day(2026, 8, 24))}}
	ok := &domain.Cluster{Members: []*domain.DeliveryRequest{reqAt(3, "OK", 53.0, 0.0, day(2026, 9, 1))}}
	late2 := &domain.Cluster{Members: []*domain.DeliveryRequest{reqAt(4, "L2", 54.0, 0.0, day(2026, 8, 20))}}

	assignments, err := ScheduleClusters([]*domain.Cluster{late1, ok, late2}, today)

	// The valid cluster is still assigned.
	require.Len(t, assignments, 1)
	assert.Equal(t, "OK", assignments[0].Cluster.Members[0].Postcode)

	// Both violations are reported in one error.
	var past *domain.PastDeadlineError
	require.ErrorAs(t, err, &past)
	require.Len(t, past.Violations, 2)
	assert.Equal(t, "L1", past.Violations[0].Requests[0].Postcode)
	assert.Equal(t, "L2", past.Violations[1].Requests[0].Postcode)
	assert.Contains(t, past.Error(), "L1")
	assert.Contains(t, past.Error(), "L2")
}

func TestScheduleClustersDeadlineTodayIsValid(t *testing.T) {
	today := day(2026, 8, 25)
	c := &domain.Cluster{Members: []*domain.DeliveryRequest{reqAt(2, "A", 52.0, 0.0, today)}}

	assignments, err := ScheduleClusters([]*domain.Cluster{c}, today)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, today, assignments[0].Date)
	assert.False(t, errors.As(err, new(*domain.PastDeadlineError)))
}
