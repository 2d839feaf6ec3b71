package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Business errors recovered at the request boundary. Anything that is not one
// of these (store down, counter primitive unavailable) is fatal to the request
// and surfaces as a 500 with no detail leaked.

type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

type IdentifierConflictError struct {
	Sequence  string
	Value     int64
	Suggested int64
}

func (e *IdentifierConflictError) Error() string {
	return fmt.Sprintf("%s %d is already in use, next available is %d", e.Sequence, e.Value, e.Suggested)
}

type InvalidSearchError struct {
	Field string
	Value string
}

func (e *InvalidSearchError) Error() string {
	return fmt.Sprintf("search field %q expects a numeric value, got %q", e.Field, e.Value)
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidation(msg string) error { return &ValidationError{Msg: msg} }

// HTTPStatus maps a business error to its response code; unrecognized errors
// are internal failures.
func HTTPStatus(err error) int {
	var (
		it *InvalidTransitionError
		ic *IdentifierConflictError
		is *InvalidSearchError
		nf *NotFoundError
		ve *ValidationError
	)
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ic):
		return http.StatusConflict
	case errors.As(err, &it), errors.As(err, &is), errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// IsBusiness reports whether the error is part of the client-facing taxonomy,
// meaning its message is safe to return to the caller.
func IsBusiness(err error) bool {
	return HTTPStatus(err) != http.StatusInternalServerError
}
