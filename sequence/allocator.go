// Package sequence issues the business identifiers: load, invoice, work
// order and reference numbers. Values are unique per sequence name and
// numerically increasing; gaps are permitted.
package sequence

import (
	"context"

	"freightbroker/apperrors"
	"freightbroker/models"
	"freightbroker/repository"
)

type Allocator struct {
	repo repository.SequenceRepository
}

func NewAllocator(repo repository.SequenceRepository) *Allocator {
	return &Allocator{repo: repo}
}

// Next returns a fresh identifier for the named sequence. The underlying
// increment is atomic in the store; there is deliberately no fallback to
// scanning the entity collection when it fails. A broken counter is fatal
// to the request.
func (a *Allocator) Next(ctx context.Context, name string) (int64, error) {
	if !models.ValidSequence(name) {
		return 0, apperrors.NewValidation("unknown sequence: " + name)
	}
	return a.repo.Next(ctx, name)
}

// Reserve claims an explicit, caller-supplied value. On conflict it returns
// an IdentifierConflictError carrying the would-be-next value; callers
// surface that suggestion verbatim. A successful reservation lifts the
// counter so Next never re-issues the value.
func (a *Allocator) Reserve(ctx context.Context, name string, value int64) error {
	if !models.ValidSequence(name) {
		return apperrors.NewValidation("unknown sequence: " + name)
	}
	if value <= 0 {
		return apperrors.NewValidation("identifier value must be positive")
	}

	inUse, err := a.repo.ValueInUse(ctx, name, value)
	if err != nil {
		return err
	}
	if inUse {
		suggested, err := a.repo.Next(ctx, name)
		if err != nil {
			return err
		}
		return &apperrors.IdentifierConflictError{Sequence: name, Value: value, Suggested: suggested}
	}

	return a.repo.Raise(ctx, name, value)
}
