package domain

import (
	"time"

	"github.com/google/uuid"
)

// A Stop is one visit in a day's route: the request being served and the
// cumulative offset in minutes from depot departure to arrival at the stop.
type Stop struct {
	Request             *DeliveryRequest
	ArriveOffsetMinutes float64
}

// A Route is an ordered depot-to-depot visiting sequence for one cluster.
// The depot is both endpoints but not itself a stop. DriveMinutes covers all
// legs including depot-to-first and last-to-depot.
type Route struct {
	Stops        []Stop
	DriveMinutes float64
}

// A DayPlan is the evaluated plan for a single delivery day. It is immutable
// once produced: the stop sequence is a permutation of its cluster's members
// even when the plan is infeasible.
type DayPlan struct {
	PlanID         uuid.UUID
	Date           time.Time
	Stops          []Stop
	DriveMinutes   float64
	ServiceMinutes float64
	Feasible       bool
	Reason         string
}

// TotalMinutes is the full workday load: drive plus service time.
func (p DayPlan) TotalMinutes() float64 {
	return p.DriveMinutes + p.ServiceMinutes
}
