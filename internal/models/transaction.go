package models

import "time"

// UtilityType is the closed set of metered utilities.
type UtilityType string

const (
	UtilityWater       UtilityType = "water"
	UtilityElectricity UtilityType = "electricity"
	UtilityGas         UtilityType = "gas"
)

// UtilityTypes lists every valid utility in reporting order.
var UtilityTypes = []UtilityType{UtilityWater, UtilityElectricity, UtilityGas}

// Valid reports whether u is one of the known utilities.
func (u UtilityType) Valid() bool {
	switch u {
	case UtilityWater, UtilityElectricity, UtilityGas:
		return true
	}
	return false
}

// Transaction is one committed consumption record in the ledger.
type Transaction struct {
	Base
	UtilityType UtilityType `gorm:"type:varchar(16);not null;index;check:chk_transactions_utility_type,utility_type IN ('water','electricity','gas')" json:"utility_type"`
	Amount      float64     `gorm:"not null;check:chk_transactions_amount,amount > 0" json:"amount"`
	ComplexID   uint        `gorm:"not null;index" json:"complex_id"`
	MeterNumber *string     `gorm:"type:varchar(128);index" json:"meter_number"`
	OwnerID     *uint       `gorm:"index" json:"owner_id"`
	Date        time.Time   `gorm:"not null;index" json:"date"`

	// Relationships
	Complex *Complex `gorm:"foreignKey:ComplexID" json:"-"`
	Owner   *Owner   `gorm:"foreignKey:OwnerID" json:"-"`
}

// TableName pins the table name.
func (Transaction) TableName() string { return "transactions" }
