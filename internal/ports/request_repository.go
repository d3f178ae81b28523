package ports

import (
	"context"

	"day-planner-service/internal/domain"
)

// Port: a boundary for retrieving DeliveryRequest entities from a data source.
type RequestRepository interface {
	// Retrieve all delivery requests available for planning, in source order.
	ListRequests(ctx context.Context) ([]*domain.DeliveryRequest, error)
}
