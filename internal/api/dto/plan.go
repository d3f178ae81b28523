package dto

type PlanRequest struct {
	Depot          string   `json:"depot"`
	Today          string   `json:"today"`
	ThresholdKm    *float64 `json:"threshold_km"`
	ServiceMinutes *float64 `json:"service_minutes"`
	WorkdayMinutes *float64 `json:"workday_minutes"`
	TwoOpt         *bool    `json:"two_opt"`
}

type StopResponse struct {
	Postcode            string  `json:"postcode"`
	Recipient           string  `json:"recipient"`
	ArriveOffsetMinutes float64 `json:"arrive_offset_minutes"`
}

type DayPlanResponse struct {
	PlanID         string         `json:"plan_id"`
	Date           string         `json:"date"`
	Stops          []StopResponse `json:"stops"`
	DriveMinutes   float64        `json:"drive_minutes"`
	ServiceMinutes float64        `json:"service_minutes"`
	TotalMinutes   float64        `json:"total_minutes"`
	Feasible       bool           `json:"feasible"`
	Reason         string         `json:"reason,omitempty"`
}

type ClusterFailureResponse struct {
	Postcodes []string `json:"postcodes"`
	Date      string   `json:"date,omitempty"`
	Error     string   `json:"error"`
}

type PlanRunResponse struct {
	Plans    []DayPlanResponse        `json:"plans"`
	Failures []ClusterFailureResponse `json:"failures,omitempty"`
}
