package models

// Sequence names are the business identifier counters. Each one is a single
// counter document/row keyed by name; allocation is an atomic
// increment-and-get against it, never a scan of the entity collection.
const (
	SeqLoadNumber      = "loadNumber"
	SeqInvoiceNumber   = "invoiceNumber"
	SeqWONumber        = "WONumber"
	SeqReferenceNumber = "referenceNumber"
)

func ValidSequence(name string) bool {
	switch name {
	case SeqLoadNumber, SeqInvoiceNumber, SeqWONumber, SeqReferenceNumber:
		return true
	}
	return false
}

type Sequence struct {
	Name  string `json:"name" bson:"_id" db:"name"`
	Value int64  `json:"value" bson:"value" db:"value"`
}

// Role is a named permission set. Definitions are read far more often than
// they change, so they are served through the in-process cache-aside.
type Role struct {
	Name        string   `json:"name" bson:"_id" db:"name"`
	Permissions []string `json:"permissions" bson:"permissions" db:"permissions"`
}
