package domain

import "time"

// Represents a single delivery request handled by the system.
//
// A request is built from one source row (CSV or database). The postcode is
// both the geocoding key and the dedup key; the deadline is the latest
// acceptable delivery date. Coordinates are assigned once after geocoding and
// never change afterwards. Requests are read-only for the rest of a planning
// run.
type DeliveryRequest struct {
	Recipient  string
	Postcode   string
	Deadline   time.Time
	Notes      string
	Row        int
	Coordinate Coordinates
	geocoded   bool
}

// SetCoordinate attaches geocoded coordinates. The first call wins; a request's
// coordinate is immutable once set.
func (r *DeliveryRequest) SetCoordinate(c Coordinates) {
	if r.geocoded {
		return
	}
	r.Coordinate = c
	r.geocoded = true
}

// Geocoded reports whether coordinates have been attached.
func (r *DeliveryRequest) Geocoded() bool { return r.geocoded }

// DateOnly normalizes a timestamp to a calendar date (midnight UTC).
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
