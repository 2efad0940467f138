package ingest

import (
	"math"

	"utilityledger/internal/models"
)

// Validate checks every field of c independently and returns all failures.
// An empty result means the row may proceed.
func Validate(c Candidate) []RowError {
	var errs []RowError
	if !models.UtilityType(c.UtilityType).Valid() {
		errs = append(errs, RowError{Row: c.RowNumber, Field: FieldUtility, Message: "Required/invalid"})
	}
	if !storableAmount(c) {
		errs = append(errs, RowError{Row: c.RowNumber, Field: FieldAmount, Message: "Invalid"})
	}
	if c.ComplexName == "" {
		errs = append(errs, RowError{Row: c.RowNumber, Field: FieldComplex, Message: "Required"})
	}
	if c.Date == nil || c.Date.IsZero() {
		errs = append(errs, RowError{Row: c.RowNumber, Field: FieldDate, Message: "Invalid/required"})
	}
	return errs
}

// storableAmount reports whether the amount survives conversion to the
// float64 column as a finite positive value.
func storableAmount(c Candidate) bool {
	if c.Amount == nil || !c.Amount.IsPositive() {
		return false
	}
	f, _ := c.Amount.Float64()
	return !math.IsInf(f, 0) && f > 0
}
