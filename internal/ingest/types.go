// Package ingest turns uploaded spreadsheets into validated, de-duplicated
// candidate rows. Everything here is pure: no store access happens until the
// batch is handed to the import service.
package ingest

import (
	"time"

	"github.com/shopspring/decimal"
)

// Logical fields a sheet column can map onto.
const (
	FieldUtility = "Utility"
	FieldAmount  = "Amount"
	FieldComplex = "Complex"
	FieldOwner   = "Owner"
	FieldMeter   = "Meter"
	FieldDate    = "Date"
)

// RawRow is one data row of a sheet, keyed by logical field.
type RawRow struct {
	Number int
	Cells  map[string]string
}

// Candidate is a normalized row. Nil pointers mark values that could not be
// normalized.
type Candidate struct {
	RowNumber   int
	UtilityType string
	Amount      *decimal.Decimal
	ComplexName string
	OwnerName   string
	MeterNumber string
	Date        *time.Time
}

// RowError is a field-level validation failure.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Composite identifies a row by the fields used for duplicate detection.
type Composite struct {
	Complex string  `json:"complex"`
	Meter   string  `json:"meter"`
	Amount  float64 `json:"amount"`
	Utility string  `json:"utility"`
	Date    string  `json:"date"`
}

// Warning reports a skipped row that is not an error.
type Warning struct {
	Row       *int       `json:"row,omitempty"`
	Message   string     `json:"message"`
	Composite *Composite `json:"composite,omitempty"`
}

// Warning messages.
const (
	MsgDuplicateInFile = "Duplicate row within file — skipped"
	MsgDuplicateInDB   = "Duplicate in DB — skipped"
)

// AmountFloat returns the amount as float64, or 0 when absent.
func (c Candidate) AmountFloat() float64 {
	if c.Amount == nil {
		return 0
	}
	f, _ := c.Amount.Float64()
	return f
}

// DateString renders the date as RFC3339 in UTC, or "" when absent.
func (c Candidate) DateString() string {
	if c.Date == nil {
		return ""
	}
	return c.Date.UTC().Format(time.RFC3339)
}

// Composite returns the identity tuple used in duplicate warnings.
func (c Candidate) Composite() *Composite {
	return &Composite{
		Complex: c.ComplexName,
		Meter:   c.MeterNumber,
		Amount:  c.AmountFloat(),
		Utility: c.UtilityType,
		Date:    c.DateString(),
	}
}
