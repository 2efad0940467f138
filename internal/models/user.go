package models

// UserRole controls access to administrative endpoints.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// User represents an API user
type User struct {
	Base
	Name     string   `gorm:"type:varchar(255);not null" json:"name"`
	Email    string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string   `gorm:"column:password_hash;not null" json:"-"`
	Role     UserRole `gorm:"type:varchar(16);not null;default:'user'" json:"role"`
}

// TableName pins the table name.
func (User) TableName() string { return "users" }
