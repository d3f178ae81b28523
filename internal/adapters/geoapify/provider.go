package geoapify

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"day-planner-service/internal/ports"
)

// Client implements the Geocoder and TravelTimeProvider ports using the
// Geoapify geocoding and route-matrix APIs.
//
// It coordinates:
//   - Query normalization
//   - Persistent geocode caching
//   - Persistent travel-time caching
//   - External API calls with retry/backoff
//
// The client is safe for concurrent use.
type Client struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	mode         string
	country      string
	geocodeCache ports.GeocodeCache
	travelCache  ports.TravelTimeCache
}

func NewClient(
	apiKey string,
	country string,
	geocodeCache ports.GeocodeCache,
	travelCache ports.TravelTimeCache,
) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("geoapify api key is empty")
	}

	return &Client{
		session:      &http.Client{Timeout: 30 * time.Second},
		apiKey:       apiKey,
		baseURL:      "https://api.geoapify.com",
		mode:         "drive",
		country:      strings.ToLower(strings.TrimSpace(country)),
		geocodeCache: geocodeCache,
		travelCache:  travelCache,
	}, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func (c *Client) normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
