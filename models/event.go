package models

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventStatusChanged EventType = "StatusChanged"
	EventMatchFound    EventType = "MatchFound"
)

// Event is the payload handed to the notification collaborator. Delivery is
// at-most-once best effort; the transition that produced it has already
// committed.
type Event struct {
	ID           string         `json:"id"`
	Type         EventType      `json:"type"`
	Recipients   []string       `json:"recipients"`
	TemplateData map[string]any `json:"template_data"`
	OccurredAt   time.Time      `json:"occurred_at"`
}

func NewStatusChanged(d *Dispatch, previous, next LoadStatus, recipients []string) Event {
	data := map[string]any{
		"dispatch_id":     d.ID,
		"previous_status": string(previous),
		"new_status":      string(next),
	}
	if d.LoadNumber != nil {
		data["load_number"] = *d.LoadNumber
	}
	if d.InvoiceNumber != nil {
		data["invoice_number"] = *d.InvoiceNumber
	}
	return Event{
		ID:           uuid.NewString(),
		Type:         EventStatusChanged,
		Recipients:   recipients,
		TemplateData: data,
		OccurredAt:   time.Now().UTC(),
	}
}

func NewMatchFound(loadID string, truckIDs []string, recipients []string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       EventMatchFound,
		Recipients: recipients,
		TemplateData: map[string]any{
			"load_id":   loadID,
			"truck_ids": truckIDs,
		},
		OccurredAt: time.Now().UTC(),
	}
}
