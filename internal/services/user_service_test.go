package services

import (
	"testing"

	"finpal/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("creates_user_with_hashed_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Ada", "ada@example.com", "secret123")
		testutil.AssertNoError(t, err)

		if user.ID == "" {
			t.Fatal("expected non-empty user ID")
		}
		if user.Password == "secret123" {
			t.Error("password must not be stored in cleartext")
		}
		if !user.IsActive {
			t.Error("new users start active")
		}
	})

	t.Run("lowercases_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Ada", "Ada@Example.COM", "secret123")
		testutil.AssertNoError(t, err)
		if user.Email != "ada@example.com" {
			t.Errorf("expected lowercased email, got %q", user.Email)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("Ada", "dup@example.com", "secret123")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("Eve", "DUP@example.com", "secret456")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("Ada", "", "secret123")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateUser("Ada", "ada@example.com", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestAttemptLogin(t *testing.T) {
	t.Run("valid_credentials", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("Ada", "login@example.com", "secret123")
		testutil.AssertNoError(t, err)

		user, err := svc.AttemptLogin("login@example.com", "secret123")
		testutil.AssertNoError(t, err)
		if user.LastLoginAt == nil {
			t.Error("expected last login timestamp to be set")
		}
	})

	t.Run("wrong_password", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("Ada", "wrongpw@example.com", "secret123")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("wrongpw@example.com", "nope")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("unknown_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.AttemptLogin("nobody@example.com", "whatever")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
	})

	t.Run("locks_after_repeated_failures", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("Ada", "lockme@example.com", "secret123")
		testutil.AssertNoError(t, err)

		for i := 0; i < maxFailedLogins; i++ {
			_, err = svc.AttemptLogin("lockme@example.com", "nope")
			testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")
		}

		// Even the correct password is refused while locked.
		_, err = svc.AttemptLogin("lockme@example.com", "secret123")
		testutil.AssertAppError(t, err, "ACCOUNT_LOCKED")
	})

	t.Run("success_resets_failed_counter", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("Ada", "reset@example.com", "secret123")
		testutil.AssertNoError(t, err)

		_, err = svc.AttemptLogin("reset@example.com", "nope")
		testutil.AssertAppError(t, err, "INVALID_CREDENTIALS")

		user, err := svc.AttemptLogin("reset@example.com", "secret123")
		testutil.AssertNoError(t, err)
		if user.FailedLoginAttempts != 0 {
			t.Errorf("expected failed counter reset, got %d", user.FailedLoginAttempts)
		}
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("merges_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		name := "Grace"
		bio := "Compiler person"
		premium := true
		updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{Name: &name, Bio: &bio, Premium: &premium})
		testutil.AssertNoError(t, err)

		if updated.Name != "Grace" || updated.Bio != "Compiler person" || !updated.Premium {
			t.Errorf("profile not merged: %+v", updated)
		}
		if updated.Email != user.Email {
			t.Error("untouched fields must survive the update")
		}
	})

	t.Run("empty_name_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		name := ""
		_, err := svc.UpdateProfile(user.ID, ProfileUpdate{Name: &name})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("no_fields_is_noop", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{})
		testutil.AssertNoError(t, err)
		if updated.Name != user.Name {
			t.Error("no-op update must not change anything")
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		name := "Grace"
		_, err := svc.UpdateProfile("missing-id", ProfileUpdate{Name: &name})
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}

func TestRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123hash"))

	hash, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc123hash" {
		t.Errorf("expected stored hash back, got %q", hash)
	}
}
