package interfaces

import (
	"context"

	"tripway/internal/models"
)

// TripGateway is the persistence backend's trip resource, consumed over
// REST. Auth failures surface as models.ErrAuthRequired, never as a crash.
type TripGateway interface {
	List(ctx context.Context) ([]models.Trip, error)
	Get(ctx context.Context, id int64) (*models.Trip, error)
	Create(ctx context.Context, payload *models.TripPayload) (*models.Trip, error)
	Update(ctx context.Context, id int64, payload *models.TripPayload) (*models.Trip, error)
	Delete(ctx context.Context, id int64) error
}
