package testutil_test

import (
	"testing"

	"utilityledger/internal/errors"
	"utilityledger/internal/ingest"
	"utilityledger/internal/models"
	"utilityledger/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	var count int64
	for _, table := range []string{"users", "owners", "complexes", "transactions", "imports"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	testutil.CreateTestOwner(t, first, "Acme")

	var count int64
	second.Model(&models.Owner{}).Count(&count)
	if count != 0 {
		t.Errorf("expected second database to be empty, got %d owners", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == 0 {
		t.Fatal("user should have a non-zero ID")
	}

	owner := testutil.CreateTestOwner(t, db, "Acme")
	cplx := testutil.CreateTestComplex(t, db, "Sunset", &owner.ID)
	if cplx.OwnerScope != owner.ID {
		t.Errorf("expected owner scope %d, got %d", owner.ID, cplx.OwnerScope)
	}

	txn := testutil.CreateTestTransaction(t, db, cplx.ID, models.UtilityWater, 12.5, testutil.Day(2024, 1, 1))
	if txn.Amount != 12.5 {
		t.Errorf("expected amount 12.5, got %v", txn.Amount)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	err := db.Create(&models.Transaction{
		UtilityType: models.UtilityGas,
		Amount:      1,
		ComplexID:   9999,
		Date:        testutil.Day(2024, 1, 1),
	}).Error
	if err == nil {
		t.Fatal("expected foreign key violation for unknown complex")
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrOwnerNotFound, "OWNER_NOT_FOUND")
	testutil.AssertAppError(t, errors.Wrap(errors.ErrEntityConflict, nil), "ENTITY_CONFLICT")
}

func TestAssertRowHelpers(t *testing.T) {
	row := 3
	testutil.AssertRowError(t, []ingest.RowError{{Row: 2, Field: ingest.FieldDate}, {Row: 3, Field: ingest.FieldAmount}}, 3, ingest.FieldAmount)
	testutil.AssertWarningRows(t, []ingest.Warning{{Row: &row}, {Message: "sheet level"}}, 3, 0)
}
