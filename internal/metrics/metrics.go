package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// GeocodeCalls counts external geocoder calls by result.
	GeocodeCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "geocode_calls_total", Help: "External geocode calls by result."},
		[]string{"result"},
	)
	// MatrixCalls counts external route-matrix calls by result.
	MatrixCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_matrix_calls_total", Help: "External route matrix calls by result."},
		[]string{"result"},
	)
	// PlansBuilt counts produced day plans by feasibility.
	PlansBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "day_plans_built_total", Help: "Day plans built by feasibility."},
		[]string{"feasible"},
	)
	// ClusterFailures counts clusters that could not be planned.
	ClusterFailures = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "cluster_failures_total", Help: "Clusters that failed planning."},
	)
)

var regOnce sync.Once

// Register installs all collectors on the service registry.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(GeocodeCalls)
		Registry.MustRegister(MatrixCalls)
		Registry.MustRegister(PlansBuilt)
		Registry.MustRegister(ClusterFailures)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
