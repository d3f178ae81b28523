package services

import (
	"time"

	"day-planner-service/internal/domain"
)

// Assignment pairs a cluster with its delivery date.
type Assignment struct {
	Cluster *domain.Cluster
	Date    time.Time
}

// ScheduleClusters assigns each cluster a calendar day on or before its
// binding deadline.
//
// The assigned date is the cluster's earliest member deadline, the latest
// permissible date. Earlier assignment offers no declared benefit and the
// scheduler performs no look-ahead bin-packing, so multiple clusters may share
// a date; the workday budget is enforced per cluster route, not across
// clusters sharing a day.
//
// A cluster whose earliest deadline is strictly before today is a violation.
// Violations are collected across ALL clusters and returned as a single
// *domain.PastDeadlineError; assignments for the remaining clusters are still
// returned so one bad cluster never blocks the rest of the run.
func ScheduleClusters(clusters []*domain.Cluster, today time.Time) ([]Assignment, error) {
	today = domain.DateOnly(today)

	assignments := make([]Assignment, 0, len(clusters))
	var violations []domain.DeadlineViolation

	for _, cluster := range clusters {
		deadline := domain.DateOnly(cluster.EarliestDeadline())
		if deadline.Before(today) {
			violations = append(violations, domain.DeadlineViolation{
				Deadline: deadline,
				Requests: cluster.Members,
			})
			continue
		}

		assignments = append(assignments, Assignment{Cluster: cluster, Date: deadline})
	}

	if len(violations) > 0 {
		return assignments, &domain.PastDeadlineError{Today: today, Violations: violations}
	}
	return assignments, nil
}
