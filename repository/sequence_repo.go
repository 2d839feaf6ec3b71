package repository

import "context"

// SequenceRepository is the atomic counter primitive behind identifier
// allocation. Next must be an increment-and-get against the counter record
// itself; scanning the entity collection for a maximum is not an
// implementation of this interface.
type SequenceRepository interface {
	// Next atomically increments the named counter and returns the new
	// value, creating the counter at 1 on first use.
	Next(ctx context.Context, name string) (int64, error)

	// Raise lifts the counter to at least value so a later Next can never
	// re-issue an explicitly reserved number.
	Raise(ctx context.Context, name string, value int64) error

	// ValueInUse reports whether an entity already holds value for the
	// named sequence (loadNumber and invoiceNumber live on dispatches,
	// referenceNumber on trucks).
	ValueInUse(ctx context.Context, name string, value int64) (bool, error)
}
