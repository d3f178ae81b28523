package domain

import (
	"fmt"
	"strings"
	"time"
)

// InvalidCoordinateError reports coordinates outside valid lat/lon ranges.
type InvalidCoordinateError struct {
	Lat float64
	Lon float64
}

func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate: lat=%v lon=%v", e.Lat, e.Lon)
}

// GeocodeNotFoundError reports a postcode or address the geocoder could not
// resolve.
type GeocodeNotFoundError struct {
	Query string
}

func (e *GeocodeNotFoundError) Error() string {
	return fmt.Sprintf("geocode not found for %q", e.Query)
}

// MissingMatrixEntryError reports a directed location pair absent from a
// travel matrix.
type MissingMatrixEntryError struct {
	From string
	To   string
}

func (e *MissingMatrixEntryError) Error() string {
	return fmt.Sprintf("missing travel matrix entry %q -> %q", e.From, e.To)
}

// DeadlineViolation lists the requests of one cluster whose binding deadline
// already passed.
type DeadlineViolation struct {
	Deadline time.Time
	Requests []*DeliveryRequest
}

// PastDeadlineError aggregates every cluster whose earliest deadline is
// strictly before the reference date. Violations are collected across the
// whole run so a single failure reports all offenders.
type PastDeadlineError struct {
	Today      time.Time
	Violations []DeadlineViolation
}

func (e *PastDeadlineError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "deadline before %s for", e.Today.Format(time.DateOnly))
	for i, v := range e.Violations {
		if i > 0 {
			b.WriteString(";")
		}
		fmt.Fprintf(&b, " %s:", v.Deadline.Format(time.DateOnly))
		for j, r := range v.Requests {
			if j > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, " %s (row %d)", r.Postcode, r.Row)
		}
	}
	return b.String()
}
