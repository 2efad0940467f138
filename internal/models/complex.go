package models

import "gorm.io/gorm"

// Complex is a property complex, optionally belonging to an owner.
//
// Uniqueness is on (name, owner_scope). OwnerScope mirrors OwnerID with 0
// standing in for "no owner", so two ownerless complexes with the same name
// collide while NULL owner ids alone would not.
type Complex struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"type:varchar(255);not null;uniqueIndex:idx_complexes_name_scope,priority:1" json:"name"`
	OwnerID    *uint  `gorm:"index" json:"owner_id"`
	OwnerScope uint   `gorm:"not null;default:0;uniqueIndex:idx_complexes_name_scope,priority:2" json:"-"`
	Owner      *Owner `gorm:"foreignKey:OwnerID" json:"-"`
}

// TableName pins the table name.
func (Complex) TableName() string { return "complexes" }

// BeforeSave keeps OwnerScope in step with OwnerID.
func (c *Complex) BeforeSave(tx *gorm.DB) error {
	c.OwnerScope = ScopeOf(c.OwnerID)
	return nil
}

// ScopeOf maps an optional owner id onto the complex uniqueness scope.
func ScopeOf(ownerID *uint) uint {
	if ownerID == nil {
		return 0
	}
	return *ownerID
}
