package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"utilityledger/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email and the
// password "password123".
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestOwner creates an owner with the given name.
func CreateTestOwner(t *testing.T, db *gorm.DB, name string) *models.Owner {
	t.Helper()

	owner := &models.Owner{Name: name}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("failed to create test owner: %v", err)
	}
	return owner
}

// CreateTestComplex creates a complex, optionally attached to an owner.
func CreateTestComplex(t *testing.T, db *gorm.DB, name string, ownerID *uint) *models.Complex {
	t.Helper()

	cplx := &models.Complex{Name: name, OwnerID: ownerID}
	if err := db.Create(cplx).Error; err != nil {
		t.Fatalf("failed to create test complex: %v", err)
	}
	return cplx
}

// CreateTestTransaction inserts a ledger row directly.
func CreateTestTransaction(t *testing.T, db *gorm.DB, complexID uint, utility models.UtilityType, amount float64, date time.Time) *models.Transaction {
	t.Helper()

	txn := &models.Transaction{
		UtilityType: utility,
		Amount:      amount,
		ComplexID:   complexID,
		Date:        date.UTC(),
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return txn
}

// Day returns midnight UTC of the given calendar day.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
