package models

// Owner is shared reference data; names are unique.
type Owner struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(255);not null;uniqueIndex:idx_owners_name" json:"name"`
}

// TableName pins the table name.
func (Owner) TableName() string { return "owners" }
