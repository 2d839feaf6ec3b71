package models

import "freightbroker/apperrors"

// LoadStatus is the closed dispatch lifecycle enum. Legacy free-string values
// outside this set are rejected, never coerced.
type LoadStatus string

const (
	StatusDraft        LoadStatus = "Draft"
	StatusPublished    LoadStatus = "Published"
	StatusInTransit    LoadStatus = "InTransit"
	StatusDelivered    LoadStatus = "Delivered"
	StatusCompleted    LoadStatus = "Completed"
	StatusInvoiced     LoadStatus = "Invoiced"
	StatusInvoicedPaid LoadStatus = "InvoicedPaid"
	StatusCancelled    LoadStatus = "Cancelled"
)

var allStatuses = map[LoadStatus]bool{
	StatusDraft:        true,
	StatusPublished:    true,
	StatusInTransit:    true,
	StatusDelivered:    true,
	StatusCompleted:    true,
	StatusInvoiced:     true,
	StatusInvoicedPaid: true,
	StatusCancelled:    true,
}

func (s LoadStatus) Valid() bool { return allStatuses[s] }

func ParseLoadStatus(raw string) (LoadStatus, error) {
	s := LoadStatus(raw)
	if !s.Valid() {
		return "", apperrors.NewValidation("unknown dispatch status: " + raw)
	}
	return s, nil
}
