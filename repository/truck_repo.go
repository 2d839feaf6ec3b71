package repository

import (
	"context"
	"time"

	"freightbroker/models"
	"freightbroker/query"
)

type TruckRepository interface {
	Create(ctx context.Context, t *models.Truck) error
	GetByID(ctx context.Context, id string) (*models.Truck, error)
	List(ctx context.Context, q *query.Query) ([]*models.Truck, int64, error)

	// Candidates returns trucks on the given equipment whose origin falls
	// in any of the boxes (empty boxes means no geo pre-filter).
	Candidates(ctx context.Context, equipment string, boxes []models.GeoBounds) ([]*models.Truck, error)

	RefreshAge(ctx context.Context, id string, t time.Time) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
