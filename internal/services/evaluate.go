package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"day-planner-service/internal/domain"
)

// EvaluateRoute classifies a built route against the workday budget and
// produces the immutable DayPlan for the cluster's assigned date.
//
// Service time is serviceMinutes per stop; the plan is feasible exactly when
// drive plus service time fits within workdayMinutes. The route is never
// mutated: an over-budget day keeps its full stop order and carries a reason.
func EvaluateRoute(date time.Time, route *domain.Route, serviceMinutes, workdayMinutes float64) domain.DayPlan {
	service := float64(len(route.Stops)) * serviceMinutes
	total := route.DriveMinutes + service
	feasible := total <= workdayMinutes

	reason := ""
	if !feasible {
		reason = fmt.Sprintf("estimated %.1f min exceeds workday limit (%.0f min)", total, workdayMinutes)
	}

	return domain.DayPlan{
		PlanID:         uuid.New(),
		Date:           domain.DateOnly(date),
		Stops:          route.Stops,
		DriveMinutes:   route.DriveMinutes,
		ServiceMinutes: service,
		Feasible:       feasible,
		Reason:         reason,
	}
}
