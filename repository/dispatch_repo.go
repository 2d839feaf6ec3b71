package repository

import (
	"context"
	"time"

	"freightbroker/models"
	"freightbroker/query"
)

// TransitionUpdate is the one atomic unit a status change commits: the new
// status plus any identifier assigned on the way in. Either everything here
// lands or nothing does.
type TransitionUpdate struct {
	Status        models.LoadStatus
	LoadNumber    *int64
	InvoiceNumber *int64
	InvoiceDate   *time.Time
	UpdatedAt     time.Time
}

type DispatchRepository interface {
	Create(ctx context.Context, d *models.Dispatch) error
	GetByID(ctx context.Context, id string) (*models.Dispatch, error)
	List(ctx context.Context, q *query.Query) ([]*models.Dispatch, int64, error)

	// ApplyTransition commits upd only when the record still holds the
	// expected previous status; it reports whether a record matched.
	ApplyTransition(ctx context.Context, id string, from models.LoadStatus, upd TransitionUpdate) (bool, error)

	// Candidates returns published dispatches on the given equipment whose
	// shipper location falls in any of the boxes (empty boxes means no geo
	// pre-filter). The boxes are an index hint; callers re-check distance.
	Candidates(ctx context.Context, equipment string, boxes []models.GeoBounds) ([]*models.Dispatch, error)

	RefreshAge(ctx context.Context, id string, t time.Time) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
