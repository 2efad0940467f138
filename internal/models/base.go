package models

import "time"

// Base contains common columns for mutable tables
type Base struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every model the schema is built from, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Owner{},
		&Complex{},
		&Transaction{},
		&ImportRun{},
	}
}
