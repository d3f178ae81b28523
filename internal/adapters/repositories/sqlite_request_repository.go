package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"day-planner-service/internal/domain"
)

// SQLite-backed implementation of the RequestRepository port.
type SqliteRequestRepository struct{ DB *sql.DB }

func NewSqliteRequestRepository(db *sql.DB) *SqliteRequestRepository {
	return &SqliteRequestRepository{DB: db}
}

// Return all delivery requests stored in the database, in source row order.
func (s *SqliteRequestRepository) ListRequests(ctx context.Context) ([]*domain.DeliveryRequest, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite request repository: DB is nil")
	}

	query := `
	SELECT
		row,
		recipient,
		postcode,
		deadline,
		notes
	FROM delivery_requests
	ORDER BY row;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list requests: query delivery_requests table: %w", err)
	}
	defer rows.Close()

	requests := make([]*domain.DeliveryRequest, 0, 64)
	for rows.Next() {
		var row int
		var recipient, postcode, deadline, notes string
		if err := rows.Scan(&row, &recipient, &postcode, &deadline, &notes); err != nil {
			return nil, fmt.Errorf("list requests: scan row: %w", err)
		}

		due, err := time.Parse(time.DateOnly, deadline)
		if err != nil {
			return nil, fmt.Errorf("list requests: row %d: parse deadline %q: %w", row, deadline, err)
		}

		requests = append(requests, &domain.DeliveryRequest{
			Recipient: recipient,
			Postcode:  postcode,
			Deadline:  domain.DateOnly(due),
			Notes:     notes,
			Row:       row,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list requests: row iteration: %w", err)
	}

	return requests, nil
}
