package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"day-planner-service/internal/domain"
)

var requiredHeaders = []string{"recipient", "postcode", "deadline"}

// ReadCSV parses delivery requests from a CSV file. The header row must carry
// recipient, postcode and deadline columns; notes, lat and lon are optional.
// Row numbers match the file (header = row 1) so errors point at the source.
//
// When lat/lon columns are present the coordinates are attached to the
// request, which lets the planner run without a live geocoder (dry-run mode).
func ReadCSV(path string) ([]*domain.DeliveryRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read csv: open %q: %w", path, err)
	}
	defer f.Close()

	return parseRows(csv.NewReader(f))
}

func parseRows(r *csv.Reader) ([]*domain.DeliveryRequest, error) {
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv: header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, h := range requiredHeaders {
		if _, ok := col[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("read csv: missing columns: %s", strings.Join(missing, ", "))
	}

	var requests []*domain.DeliveryRequest
	for row := 2; ; row++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: row %d: %w", row, err)
		}

		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		postcode := field("postcode")
		if postcode == "" {
			return nil, fmt.Errorf("read csv: row %d: postcode is empty", row)
		}

		deadline, err := ParseDeadline(field("deadline"))
		if err != nil {
			return nil, fmt.Errorf("read csv: row %d: %w", row, err)
		}

		req := &domain.DeliveryRequest{
			Recipient: field("recipient"),
			Postcode:  postcode,
			Deadline:  deadline,
			Notes:     field("notes"),
			Row:       row,
		}

		if latStr, lonStr := field("lat"), field("lon"); latStr != "" && lonStr != "" {
			lat, err := strconv.ParseFloat(latStr, 64)
			if err != nil {
				return nil, fmt.Errorf("read csv: row %d: lat: %w", row, err)
			}
			lon, err := strconv.ParseFloat(lonStr, 64)
			if err != nil {
				return nil, fmt.Errorf("read csv: row %d: lon: %w", row, err)
			}

			coord := domain.Coordinates{Lat: lat, Lon: lon}
			if err := coord.Validate(); err != nil {
				return nil, fmt.Errorf("read csv: row %d: %w", row, err)
			}
			req.SetCoordinate(coord)
		}

		requests = append(requests, req)
	}

	return requests, nil
}
