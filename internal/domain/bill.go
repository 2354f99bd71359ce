package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entity is one legal entity registered with the payables API.
type Entity struct {
	ID   string
	Name string
}

// Bill is one normalized payable, produced by the ingestion boundary.
// This is a domain struct, not a wire record; the ramp package maps the
// API's variant shapes (nested vendor/amount objects, flat fields) into it
// before any aging logic runs.
type Bill struct {
	ID         string
	VendorName string          // trimmed; case preserved
	Amount     decimal.Decimal // major currency units (API sends minor units)

	IssuedAt *time.Time
	DueAt    *time.Time // nil = bill cannot be bucketed

	PaidAt               *time.Time // settlement date reported by the API
	PaymentEffectiveDate *time.Time // preferred over PaidAt when present
}
