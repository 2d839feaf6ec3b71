package query

// Per-entity filter whitelists. Field names are the stored (bson/column)
// names the repositories understand.

var DispatchFields = EntityFields{
	Fields: map[string]FieldType{
		"load_number":    FieldNumeric,
		"invoice_number": FieldNumeric,
		"wo_number":      FieldNumeric,
		"status":         FieldString,
		"equipment":      FieldString,
		"broker_id":      FieldString,
		"customer_id":    FieldString,
		"carrier_id":     FieldString,
		"posted_by":      FieldString,
		"all_in_rate":    FieldNumeric,
		"carrier_fee":    FieldNumeric,
		"age":            FieldDate,
		"created_at":     FieldDate,
		"invoice_date":   FieldDate,
	},
	Multi: map[string][]string{
		"location": {"shipper.location.str", "consignee.location.str"},
	},
}

var TruckFields = EntityFields{
	Fields: map[string]FieldType{
		"reference_number": FieldNumeric,
		"equipment":        FieldString,
		"weight":           FieldNumeric,
		"length":           FieldNumeric,
		"all_in_rate":      FieldNumeric,
		"broker_id":        FieldString,
		"posted_by":        FieldString,
		"available_from":   FieldDate,
		"age":              FieldDate,
		"created_at":       FieldDate,
	},
	Multi: map[string][]string{
		"location": {"origin.str", "destination.str"},
	},
}
