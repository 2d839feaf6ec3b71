package models

import (
	"time"

	"freightbroker/apperrors"
)

// Stop is one end of a shipment: where, when, and how much freight.
type Stop struct {
	Location    GeoPoint  `json:"location" bson:"location"`
	WindowStart time.Time `json:"window_start" bson:"window_start" db:"window_start"`
	WindowEnd   time.Time `json:"window_end" bson:"window_end" db:"window_end"`
	Weight      float64   `json:"weight" bson:"weight" db:"weight"`
	Quantity    int64     `json:"quantity" bson:"quantity" db:"quantity"`
}

// Dispatch tracks a load from posting through delivery and invoicing.
// LoadNumber and InvoiceNumber, once set, are immutable and globally unique.
type Dispatch struct {
	ID            string     `json:"id" bson:"_id,omitempty" db:"id"`
	LoadNumber    *int64     `json:"load_number,omitempty" bson:"load_number,omitempty" db:"load_number"`
	InvoiceNumber *int64     `json:"invoice_number,omitempty" bson:"invoice_number,omitempty" db:"invoice_number"`
	WONumber      *int64     `json:"wo_number,omitempty" bson:"wo_number,omitempty" db:"wo_number"`
	Status        LoadStatus `json:"status" bson:"status" db:"status"`
	Equipment     string     `json:"equipment" bson:"equipment" db:"equipment"`

	Shipper   Stop `json:"shipper" bson:"shipper"`
	Consignee Stop `json:"consignee" bson:"consignee"`

	Length              float64 `json:"length" bson:"length" db:"length"`
	SpecialInstructions string  `json:"special_instructions,omitempty" bson:"special_instructions,omitempty" db:"special_instructions"`

	CarrierFee   float64 `json:"carrier_fee" bson:"carrier_fee" db:"carrier_fee"`
	OtherCharges float64 `json:"other_charges" bson:"other_charges" db:"other_charges"`
	AllInRate    float64 `json:"all_in_rate" bson:"all_in_rate" db:"all_in_rate"`

	BrokerID   string `json:"broker_id" bson:"broker_id" db:"broker_id"`
	CustomerID string `json:"customer_id" bson:"customer_id" db:"customer_id"`
	CarrierID  string `json:"carrier_id,omitempty" bson:"carrier_id,omitempty" db:"carrier_id"`
	PostedBy   string `json:"posted_by" bson:"posted_by" db:"posted_by"`

	InvoiceDate *time.Time `json:"invoice_date,omitempty" bson:"invoice_date,omitempty" db:"invoice_date"`

	// Age is the posted-freshness timestamp, refreshed manually by the
	// broker; it is not CreatedAt.
	Age       time.Time  `json:"age" bson:"age" db:"age"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" bson:"updated_at,omitempty" db:"updated_at"`
}

// Weight is the load's freight weight, carried on the shipper stop.
func (d *Dispatch) Weight() float64 { return d.Shipper.Weight }

// PickupWindow is the interval the matching engine overlaps against truck
// availability.
func (d *Dispatch) PickupWindow() (time.Time, time.Time) {
	return d.Shipper.WindowStart, d.Shipper.WindowEnd
}

func (d *Dispatch) Validate() error {
	if !d.Status.Valid() {
		return apperrors.NewValidation("unknown dispatch status: " + string(d.Status))
	}
	if d.Equipment == "" {
		return apperrors.NewValidation("equipment is required")
	}
	if err := d.Shipper.Location.Validate("shipper.location"); err != nil {
		return err
	}
	if err := d.Consignee.Location.Validate("consignee.location"); err != nil {
		return err
	}
	if d.Shipper.Weight < 0 || d.Consignee.Weight < 0 {
		return apperrors.NewValidation("weight must not be negative")
	}
	if d.Length < 0 {
		return apperrors.NewValidation("length must not be negative")
	}
	if d.Shipper.WindowEnd.Before(d.Shipper.WindowStart) {
		return apperrors.NewValidation("shipper window ends before it starts")
	}
	return nil
}
