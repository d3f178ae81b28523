package services

import (
	"sort"

	"day-planner-service/internal/domain"
)

// SortPlans orders day plans by assigned date. The sort is stable, so plans
// sharing a date keep their cluster emission order. This is the final seam
// before presentation.
func SortPlans(plans []domain.DayPlan) {
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].Date.Before(plans[j].Date)
	})
}
