package store

import (
	"testing"

	"github.com/innovastaff/staffsite/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreate(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.Create("Alice", "alice@example.com", "$2a$10$hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.Name != "Alice" {
		t.Errorf("name = %q, want %q", u.Name, "Alice")
	}
	if u.Role != "user" {
		t.Errorf("role = %q, want %q", u.Role, "user")
	}
	if u.IsAdmin {
		t.Error("new users must not be admin")
	}
	if u.PasswordHash != "" {
		t.Error("default projection must not include the password hash")
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("Alice", "alice@example.com", "h1"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create("Alice2", "alice@example.com", "h2"); err == nil {
		t.Fatal("expected error for duplicate email, got nil")
	}
}

func TestUserGetByEmail(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("Alice", "alice@example.com", "h1"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	u, err := us.GetByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.PasswordHash != "" {
		t.Error("default projection must not include the password hash")
	}
}

func TestUserGetByEmailNotFound(t *testing.T) {
	us := setupUserTestDB(t)

	u, err := us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent email")
	}
}

func TestUserGetByEmailWithPassword(t *testing.T) {
	us := setupUserTestDB(t)

	if _, err := us.Create("Alice", "alice@example.com", "$2a$10$hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	u, err := us.GetByEmailWithPassword("alice@example.com")
	if err != nil {
		t.Fatalf("get with password: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.PasswordHash != "$2a$10$hash" {
		t.Errorf("password hash = %q, want %q", u.PasswordHash, "$2a$10$hash")
	}
}

func TestUserList(t *testing.T) {
	us := setupUserTestDB(t)

	us.Create("Alice", "alice@example.com", "h1")
	us.Create("Bob", "bob@example.com", "h2")

	users, err := us.List()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len = %d, want 2", len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Errorf("list projection leaked a password hash for %s", u.Email)
		}
	}
}

func TestUserSetAdmin(t *testing.T) {
	us := setupUserTestDB(t)

	created, err := us.Create("Alice", "alice@example.com", "h1")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	u, err := us.SetAdmin(created.ID, true)
	if err != nil {
		t.Fatalf("set admin: %v", err)
	}
	if !u.IsAdmin {
		t.Error("expected is_admin true")
	}

	u, err = us.SetAdmin(created.ID, false)
	if err != nil {
		t.Fatalf("clear admin: %v", err)
	}
	if u.IsAdmin {
		t.Error("expected is_admin false")
	}
}

func TestUserUpdatePassword(t *testing.T) {
	us := setupUserTestDB(t)

	created, err := us.Create("Alice", "alice@example.com", "old-hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if err := us.UpdatePassword(created.ID, "new-hash"); err != nil {
		t.Fatalf("update password: %v", err)
	}

	u, err := us.GetByEmailWithPassword("alice@example.com")
	if err != nil {
		t.Fatalf("get with password: %v", err)
	}
	if u.PasswordHash != "new-hash" {
		t.Errorf("password hash = %q, want %q", u.PasswordHash, "new-hash")
	}
}
