// Package uuid issues time-ordered identifiers for import runs and other
// records that are keyed by string.
package uuid

import (
	"strings"

	googleuuid "github.com/google/uuid"
)

const importPrefix = "imp_"

// New generates a UUIDv7. Falls back to a random v4 if the clock source fails.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// NewImportID returns a unique, time-sortable import run identifier.
func NewImportID() string {
	return importPrefix + New()
}

// IsImportID reports whether s looks like an id produced by NewImportID.
func IsImportID(s string) bool {
	rest, ok := strings.CutPrefix(s, importPrefix)
	if !ok {
		return false
	}
	return IsValid(rest)
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
