package services

import (
	"context"
	"testing"

	"utilityledger/internal/models"
	"utilityledger/internal/pagination"
	"utilityledger/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser(ctx, "Alice", "alice@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Email != "alice@example.com" {
			t.Errorf("expected email alice@example.com, got %s", user.Email)
		}
		if user.Role != models.RoleUser {
			t.Errorf("expected default role user, got %s", user.Role)
		}
		if user.Password == "password123" {
			t.Error("password should be stored hashed")
		}
	})

	t.Run("admin_role", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser(ctx, "Root", "root@example.com", "password123", models.RoleAdmin)
		testutil.AssertNoError(t, err)
		if user.Role != models.RoleAdmin {
			t.Errorf("expected admin role, got %s", user.Role)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser(ctx, "", "dup@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser(ctx, "", "DUP@example.com", "password456", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("empty_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser(ctx, "", "", "password123", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("empty_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser(ctx, "", "test@example.com", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("by_email_case_insensitive", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestUserWithEmail(t, db, "bob@example.com")

		user, err := svc.GetUserByEmail(ctx, "BOB@example.com")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("by_id_not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.GetUserByID(ctx, 9999)
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		created := testutil.CreateTestUserWithEmail(t, db, "carol@example.com")

		user, err := svc.Authenticate(ctx, "carol@example.com", "password123")
		testutil.AssertNoError(t, err)
		if user.ID != created.ID {
			t.Errorf("expected user %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		testutil.CreateTestUserWithEmail(t, db, "dave@example.com")

		_, err := svc.Authenticate(ctx, "dave@example.com", "nope")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.Authenticate(ctx, "nobody@example.com", "password123")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}

func TestListUsers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	first := testutil.CreateTestUser(t, db)
	testutil.CreateTestUser(t, db)

	page, err := svc.ListUsers(context.Background(), pagination.PageRequest{Limit: 1})
	testutil.AssertNoError(t, err)
	if page.TotalItems != 2 || len(page.Data) != 1 || page.Data[0].ID != first.ID {
		t.Errorf("unexpected page: %+v", page)
	}
}
