package models

import (
	"time"

	"freightbroker/apperrors"
)

// Truck is a carrier capacity posting: a lane, an equipment type, and the
// capacity available on it. A nil Destination means the truck services any
// destination.
type Truck struct {
	ID              string    `json:"id" bson:"_id,omitempty" db:"id"`
	ReferenceNumber *int64    `json:"reference_number,omitempty" bson:"reference_number,omitempty" db:"reference_number"`
	Origin          GeoPoint  `json:"origin" bson:"origin"`
	Destination     *GeoPoint `json:"destination,omitempty" bson:"destination,omitempty"`

	AvailableFrom  time.Time  `json:"available_from" bson:"available_from" db:"available_from"`
	AvailableUntil *time.Time `json:"available_until,omitempty" bson:"available_until,omitempty" db:"available_until"`

	Equipment           string  `json:"equipment" bson:"equipment" db:"equipment"`
	Weight              float64 `json:"weight" bson:"weight" db:"weight"`
	Length              float64 `json:"length" bson:"length" db:"length"`
	AllInRate           float64 `json:"all_in_rate" bson:"all_in_rate" db:"all_in_rate"`
	SpecialInstructions string  `json:"special_instructions,omitempty" bson:"special_instructions,omitempty" db:"special_instructions"`

	PostedBy string `json:"posted_by" bson:"posted_by" db:"posted_by"`
	BrokerID string `json:"broker_id" bson:"broker_id" db:"broker_id"`

	Age       time.Time  `json:"age" bson:"age" db:"age"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty" db:"updated_at"`
}

// AvailabilityWindow collapses to a point when AvailableUntil is absent,
// which reproduces the legacy single-date posting as a degenerate window.
func (t *Truck) AvailabilityWindow() (time.Time, time.Time) {
	if t.AvailableUntil != nil {
		return t.AvailableFrom, *t.AvailableUntil
	}
	return t.AvailableFrom, t.AvailableFrom
}

func (t *Truck) Validate() error {
	if err := t.Origin.Validate("origin"); err != nil {
		return err
	}
	if t.Destination != nil {
		if err := t.Destination.Validate("destination"); err != nil {
			return err
		}
	}
	if t.Equipment == "" {
		return apperrors.NewValidation("equipment is required")
	}
	if t.Weight < 0 {
		return apperrors.NewValidation("weight must not be negative")
	}
	if t.Length < 0 {
		return apperrors.NewValidation("length must not be negative")
	}
	if t.AvailableFrom.IsZero() {
		return apperrors.NewValidation("available_from is required")
	}
	if t.AvailableUntil != nil && t.AvailableUntil.Before(t.AvailableFrom) {
		return apperrors.NewValidation("available_until precedes available_from")
	}
	return nil
}
