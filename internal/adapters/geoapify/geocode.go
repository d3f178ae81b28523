package geoapify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"day-planner-service/internal/domain"
	"day-planner-service/internal/metrics"
	"day-planner-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves a postcode or address via /v1/geocode/search, consulting
// the persistent geocode cache first. An empty feature list is
// domain.GeocodeNotFoundError.
func (c *Client) Geocode(ctx context.Context, query string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "geoapify.Geocode")(&err)

	norm := c.normalize(query)
	if norm == "" {
		return domain.Coordinates{}, &domain.GeocodeNotFoundError{Query: query}
	}

	if c.geocodeCache != nil {
		hits, err := c.geocodeCache.GetMany(ctx, []string{norm})
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("geocode cache: %w", err)
		}
		if coord, ok := hits[norm]; ok {
			return coord, nil
		}
	}

	endpoint := c.baseURL + "/v1/geocode/search"
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("format", "json")
		if c.country != "" {
			q.Set("filter", "countrycode:"+c.country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		metrics.GeocodeCalls.WithLabelValues("error").Inc()
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}
	defer resp.Body.Close()
	metrics.GeocodeCalls.WithLabelValues("ok").Inc()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, &domain.GeocodeNotFoundError{Query: norm}
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", norm)
	}

	coord := domain.Coordinates{Lon: coords[0], Lat: coords[1]}
	if err := coord.Validate(); err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", norm, err)
	}

	if c.geocodeCache != nil {
		if err := c.geocodeCache.PutMany(ctx, map[string]domain.Coordinates{norm: coord}); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return coord, nil
}
