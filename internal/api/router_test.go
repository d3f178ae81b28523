package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"day-planner-service/internal/adapters/memory"
	"day-planner-service/internal/api/dto"
	"day-planner-service/internal/config"
	"day-planner-service/internal/domain"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	deadline := func(d int) time.Time {
		return time.Date(2026, 9, d, 0, 0, 0, 0, time.UTC)
	}

	repo := &memory.StaticRepository{Requests: []*domain.DeliveryRequest{
		{Recipient: "Alice", Postcode: "N1", Deadline: deadline(2), Row: 2},
		{Recipient: "Bob", Postcode: "F1", Deadline: deadline(1), Row: 3},
	}}
	geocoder := memory.NewStaticGeocoder(map[string]domain.Coordinates{
		"Main Depot": {Lat: 52.0, Lon: 0.0},
		"N1":         {Lat: 52.0, Lon: 0.01},
		"F1":         {Lat: 53.5, Lon: 0.0},
	})

	defaults := config.Planner{
		Depot:          "Main Depot",
		ThresholdKm:    12,
		ServiceMinutes: 10,
		WorkdayMinutes: 480,
	}
	return NewRouter(repo, geocoder, memory.NewHaversineTravel(40), defaults)
}

func TestPlansEndpoint(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	body := `{"today": "2026-08-25"}`
	resp, err := http.Post(srv.URL+"/plans", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run dto.PlanRunResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	require.Len(t, run.Plans, 2)
	assert.Empty(t, run.Failures)

	// Plans come back ordered by date.
	assert.Equal(t, "2026-09-01", run.Plans[0].Date)
	assert.Equal(t, "2026-09-02", run.Plans[1].Date)
	assert.Equal(t, "F1", run.Plans[0].Stops[0].Postcode)
	assert.Equal(t, "Bob", run.Plans[0].Stops[0].Recipient)
	assert.NotEmpty(t, run.Plans[0].PlanID)
	assert.Equal(t, run.Plans[0].DriveMinutes+run.Plans[0].ServiceMinutes, run.Plans[0].TotalMinutes)
}

func TestPlansEndpointOverrides(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	// A tiny workday makes every plan infeasible.
	body := `{"today": "2026-08-25", "workday_minutes": 1}`
	resp, err := http.Post(srv.URL+"/plans", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run dto.PlanRunResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	require.Len(t, run.Plans, 2)
	for _, p := range run.Plans {
		assert.False(t, p.Feasible)
		assert.NotEmpty(t, p.Reason)
	}
}

func TestPlansEndpointReportsFailures(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	// With today after both deadlines, every cluster fails and no plans remain.
	body := `{"today": "2026-09-10"}`
	resp, err := http.Post(srv.URL+"/plans", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var run dto.PlanRunResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&run))
	assert.Empty(t, run.Plans)
	require.Len(t, run.Failures, 2)
	for _, f := range run.Failures {
		assert.NotEmpty(t, f.Postcodes)
		assert.Contains(t, f.Error, "deadline")
	}
}

func TestPlansEndpointValidation(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"today":`},
		{"unknown field", `{"tomorrow": "2026-08-25"}`},
		{"two objects", `{"today": "2026-08-25"}{}`},
		{"bad date", `{"today": "25/08/2026"}`},
		{"bad threshold", `{"threshold_km": -1}`},
		{"bad workday", `{"workday_minutes": 0}`},
		{"bad service", `{"service_minutes": -5}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/plans", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestPlansEndpointMethodNotAllowed(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/plans")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))
}

func TestRequestsEndpoint(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/requests")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list dto.ListRequestsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list.Requests, 2)
	assert.Equal(t, "Alice", list.Requests[0].Recipient)
	assert.Equal(t, "2026-09-02", list.Requests[0].Deadline)
}

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
