package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"day-planner-service/internal/api/handlers"
	"day-planner-service/internal/config"
	"day-planner-service/internal/metrics"
	"day-planner-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(
	repo ports.RequestRepository,
	geocoder ports.Geocoder,
	travel ports.TravelTimeProvider,
	defaults config.Planner,
) http.Handler {
	metrics.Register()

	mux := http.NewServeMux()

	reqHandler := &handlers.RequestHandler{Repo: repo}
	planHandler := &handlers.PlanHandler{
		Repo:     repo,
		Geocoder: geocoder,
		Travel:   travel,
		Defaults: defaults,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/requests", reqHandler.List)
	mux.HandleFunc("/plans", planHandler.Plan)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return loggingMiddleware(mux)
}
