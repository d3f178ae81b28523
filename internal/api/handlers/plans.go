package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"day-planner-service/internal/api/dto"
	"day-planner-service/internal/config"
	"day-planner-service/internal/metrics"
	"day-planner-service/internal/ports"
	"day-planner-service/internal/services"
)

type PlanHandler struct {
	Repo     ports.RequestRepository
	Geocoder ports.Geocoder
	Travel   ports.TravelTimeProvider
	Defaults config.Planner
}

// Plan runs the full planning pipeline: geocoding, clustering, scheduling,
// routing and feasibility evaluation. Request fields override the configured
// defaults per run.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil && err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	depot := strings.TrimSpace(req.Depot)
	if depot == "" {
		depot = strings.TrimSpace(h.Defaults.Depot)
	}
	if depot == "" {
		writeError(w, r, http.StatusBadRequest, "depot is required")
		return
	}

	today := time.Now().UTC()
	if req.Today != "" {
		parsed, err := time.Parse(time.DateOnly, req.Today)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "today must be YYYY-MM-DD")
			return
		}
		today = parsed
	}

	svcReq := services.PlanDeliveriesRequest{
		Depot:          depot,
		Today:          today,
		ThresholdKm:    h.Defaults.ThresholdKm,
		ServiceMinutes: h.Defaults.ServiceMinutes,
		WorkdayMinutes: h.Defaults.WorkdayMinutes,
		TwoOpt:         h.Defaults.TwoOpt,
	}
	if req.ThresholdKm != nil {
		if *req.ThresholdKm <= 0 {
			writeError(w, r, http.StatusBadRequest, "threshold_km must be positive")
			return
		}
		svcReq.ThresholdKm = *req.ThresholdKm
	}
	if req.ServiceMinutes != nil {
		if *req.ServiceMinutes < 0 {
			writeError(w, r, http.StatusBadRequest, "service_minutes must not be negative")
			return
		}
		svcReq.ServiceMinutes = *req.ServiceMinutes
	}
	if req.WorkdayMinutes != nil {
		if *req.WorkdayMinutes <= 0 {
			writeError(w, r, http.StatusBadRequest, "workday_minutes must be positive")
			return
		}
		svcReq.WorkdayMinutes = *req.WorkdayMinutes
	}
	if req.TwoOpt != nil {
		svcReq.TwoOpt = *req.TwoOpt
	}

	outcome, err := services.PlanDeliveries(r.Context(), svcReq, h.Repo, h.Geocoder, h.Travel)
	if err != nil {
		log.Printf("plan deliveries failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.PlanRunResponse{Plans: make([]dto.DayPlanResponse, 0, len(outcome.Plans))}
	for _, p := range outcome.Plans {
		metrics.PlansBuilt.WithLabelValues(strconv.FormatBool(p.Feasible)).Inc()

		stops := make([]dto.StopResponse, 0, len(p.Stops))
		for _, s := range p.Stops {
			stops = append(stops, dto.StopResponse{
				Postcode:            s.Request.Postcode,
				Recipient:           s.Request.Recipient,
				ArriveOffsetMinutes: s.ArriveOffsetMinutes,
			})
		}

		res.Plans = append(res.Plans, dto.DayPlanResponse{
			PlanID:         p.PlanID.String(),
			Date:           p.Date.Format(time.DateOnly),
			Stops:          stops,
			DriveMinutes:   p.DriveMinutes,
			ServiceMinutes: p.ServiceMinutes,
			TotalMinutes:   p.TotalMinutes(),
			Feasible:       p.Feasible,
			Reason:         p.Reason,
		})
	}

	for _, f := range outcome.Failures {
		metrics.ClusterFailures.Inc()

		fr := dto.ClusterFailureResponse{
			Postcodes: f.Postcodes,
			Error:     f.Err.Error(),
		}
		if !f.Date.IsZero() {
			fr.Date = f.Date.Format(time.DateOnly)
		}
		res.Failures = append(res.Failures, fr)
	}

	writeJSON(w, r, http.StatusOK, res)
}
