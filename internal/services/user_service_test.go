package services

import (
	"testing"

	"nivesh/internal/models"
	"nivesh/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice@example.com", "password123", "Alice")
		testutil.AssertNoError(t, err)

		if user.ID == 0 {
			t.Fatal("expected non-zero user ID")
		}
		if user.Name != "Alice" {
			t.Errorf("expected name Alice, got %s", user.Name)
		}
		if user.Password == "password123" {
			t.Error("expected password to be hashed")
		}
		if !user.IsActive {
			t.Error("expected user to be active")
		}
	})

	t.Run("first_user_is_admin", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		first, err := svc.CreateUser("first@example.com", "password123", "")
		testutil.AssertNoError(t, err)
		second, err := svc.CreateUser("second@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		if first.Role != models.RoleAdmin {
			t.Errorf("expected first user role %q, got %q", models.RoleAdmin, first.Role)
		}
		if second.Role != models.RoleClient {
			t.Errorf("expected second user role %q, got %q", models.RoleClient, second.Role)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("dup@example.com", "password123", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("DUP@example.com", "password456", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("empty_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("test@example.com", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestGetUserByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created := testutil.CreateTestUserWithEmail(t, db, "found@example.com")
		user, err := svc.GetUserByEmail("Found@Example.com")
		testutil.AssertNoError(t, err)

		if user.ID != created.ID {
			t.Errorf("expected user ID %d, got %d", created.ID, user.ID)
		}
	})

	t.Run("inactive_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user := testutil.CreateTestUserWithEmail(t, db, "inactive@example.com")
		db.Model(user).Update("is_active", false)

		_, err := svc.GetUserByEmail("inactive@example.com")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestGetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	created := testutil.CreateTestUser(t, db)
	user, err := svc.GetUserByID(created.ID)
	testutil.AssertNoError(t, err)
	if user.Email != created.Email {
		t.Errorf("expected email %s, got %s", created.Email, user.Email)
	}

	_, err = svc.GetUserByID(99999)
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}

func TestAttemptLogin(t *testing.T) {
	t.Run("success_records_login", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		created := testutil.CreateTestUserWithEmail(t, db, "login@example.com")
		user, err := svc.AttemptLogin("login@example.com", testutil.TestPassword)
		testutil.AssertNoError(t, err)

		if user.LastLoginAt == nil {
			t.Error("expected last_login_at to be set")
		}
		var stored models.User
		db.First(&stored, created.ID)
		if stored.LastLoginAt == nil {
			t.Error("expected last_login_at to be persisted")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		testutil.CreateTestUserWithEmail(t, db, "login@example.com")
		_, err := svc.AttemptLogin("login@example.com", "wrong")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", testutil.TestPassword)
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})
}
