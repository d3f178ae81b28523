package geoapify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"day-planner-service/internal/domain"
	"day-planner-service/internal/metrics"
	"day-planner-service/internal/platform/obs"
	"day-planner-service/internal/ports"
)

// Geoapify rejects matrices above sources * targets = 1000 cells.
const maxMatrixCells = 1000

type matrixLocation struct {
	Location []float64 `json:"location"`
	ID       string    `json:"id"`
}

type matrixRequest struct {
	Mode      string           `json:"mode"`
	Sources   []int            `json:"sources"`
	Targets   []int            `json:"targets"`
	Locations []matrixLocation `json:"locations"`
}

type matrixResponse struct {
	SourcesToTargets [][]struct {
		Time *float64 `json:"time"`
	} `json:"sources_to_targets"`
}

// RouteMatrix returns the directed drive-time matrix over the given locations
// (one call per cluster). The persistent travel cache is consulted first; a
// single /v1/routematrix request covers everything on any cache miss.
//
// Cells the API cannot route are left out of the matrix, so downstream route
// construction surfaces them as MissingMatrixEntryError instead of silently
// assuming zero travel.
func (c *Client) RouteMatrix(ctx context.Context, locations []ports.Location) (_ domain.TravelMatrix, err error) {
	defer obs.Time(ctx, "geoapify.RouteMatrix")(&err)

	locs := dedupeLocations(locations)
	if len(locs) < 2 {
		return domain.TravelMatrix{}, nil
	}
	if len(locs)*len(locs) > maxMatrixCells {
		return nil, fmt.Errorf("route matrix request exceeds cell limit (%d locations, max %d cells)", len(locs), maxMatrixCells)
	}

	if cached, ok, err := c.cachedMatrix(ctx, locs); err != nil {
		return nil, err
	} else if ok {
		return cached, nil
	}

	matrix, err := c.fetchMatrix(ctx, locs)
	if err != nil {
		metrics.MatrixCalls.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.MatrixCalls.WithLabelValues("ok").Inc()

	c.storeMatrix(ctx, locs, matrix)
	return matrix, nil
}

// cachedMatrix assembles the full matrix from the travel cache. ok is false
// when any directed pair is absent.
func (c *Client) cachedMatrix(ctx context.Context, locs []ports.Location) (domain.TravelMatrix, bool, error) {
	if c.travelCache == nil {
		return nil, false, nil
	}

	matrix := make(domain.TravelMatrix, len(locs)*len(locs))
	for _, from := range locs {
		targets := make([]string, 0, len(locs)-1)
		for _, to := range locs {
			if to.ID != from.ID {
				targets = append(targets, to.ID)
			}
		}

		hits, err := c.travelCache.GetMany(ctx, from.ID, targets)
		if err != nil {
			return nil, false, fmt.Errorf("travel cache: %w", err)
		}
		if len(hits) < len(targets) {
			return nil, false, nil
		}
		for to, minutes := range hits {
			matrix[domain.MatrixKey{From: from.ID, To: to}] = minutes
		}
	}

	return matrix, true, nil
}

func (c *Client) fetchMatrix(ctx context.Context, locs []ports.Location) (domain.TravelMatrix, error) {
	body := matrixRequest{
		Mode:      c.mode,
		Sources:   make([]int, 0, len(locs)),
		Targets:   make([]int, 0, len(locs)),
		Locations: make([]matrixLocation, 0, len(locs)),
	}
	for i, loc := range locs {
		body.Sources = append(body.Sources, i)
		body.Targets = append(body.Targets, i)
		body.Locations = append(body.Locations, matrixLocation{
			Location: loc.Coord.CoordsToList(),
			ID:       loc.ID,
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	endpoint := c.baseURL + "/v1/routematrix"
	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.SourcesToTargets) != len(locs) {
		return nil, fmt.Errorf("expected %d source rows; got %d", len(locs), len(mr.SourcesToTargets))
	}

	matrix := make(domain.TravelMatrix, len(locs)*len(locs))
	for i, row := range mr.SourcesToTargets {
		if len(row) != len(locs) {
			return nil, fmt.Errorf("row %d length %d does not match %d targets", i, len(row), len(locs))
		}
		for j, cell := range row {
			if i == j || cell.Time == nil {
				continue
			}
			matrix[domain.MatrixKey{From: locs[i].ID, To: locs[j].ID}] = *cell.Time / 60.0
		}
	}

	return matrix, nil
}

func (c *Client) storeMatrix(ctx context.Context, locs []ports.Location, matrix domain.TravelMatrix) {
	if c.travelCache == nil {
		return
	}

	for _, from := range locs {
		minutes := make(map[string]float64)
		for _, to := range locs {
			if m, ok := matrix[domain.MatrixKey{From: from.ID, To: to.ID}]; ok {
				minutes[to.ID] = m
			}
		}
		if len(minutes) == 0 {
			continue
		}
		if err := c.travelCache.PutMany(ctx, from.ID, minutes); err != nil {
			log.Printf("travel cache write failed: %v", err)
		}
	}
}

// dedupeLocations drops duplicate IDs while preserving order.
func dedupeLocations(locations []ports.Location) []ports.Location {
	seen := make(map[string]struct{}, len(locations))
	out := make([]ports.Location, 0, len(locations))
	for _, loc := range locations {
		if _, ok := seen[loc.ID]; ok {
			continue
		}
		seen[loc.ID] = struct{}{}
		out = append(out, loc)
	}
	return out
}
