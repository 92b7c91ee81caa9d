package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/innovastaff/staffsite/internal/model"
)

func setupUserHandler(t *testing.T) (*UserHandler, *authFixture) {
	t.Helper()
	f := setupAuthHandler(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUserHandler(f.userStore, logger), f
}

func TestUserListHidesPasswordHashes(t *testing.T) {
	h, f := setupUserHandler(t)
	f.createUser(t, "Alice", "alice@example.com", "pw123456")
	f.createUser(t, "Bob", "bob@example.com", "pw123456")

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/api/users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var users []model.User
	if err := json.Unmarshal(rec.Body.Bytes(), &users); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("users = %d, want 2", len(users))
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response leaked a password field")
	}
}

func TestUserListEmpty(t *testing.T) {
	h, _ := setupUserHandler(t)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/api/users", nil))

	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func putAdmin(t *testing.T, h *UserHandler, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("PUT", "/api/users/"+id+"/admin", strings.NewReader(body))
	req.SetPathValue("id", id)
	rec := httptest.NewRecorder()
	h.SetAdmin(rec, req)
	return rec
}

func TestSetAdminFlag(t *testing.T) {
	h, f := setupUserHandler(t)
	id := f.createUser(t, "Alice", "alice@example.com", "pw123456")

	rec := putAdmin(t, h, strconv.FormatInt(id, 10), `{"is_admin":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var u model.User
	if err := json.Unmarshal(rec.Body.Bytes(), &u); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !u.IsAdmin {
		t.Error("response user is not admin")
	}

	stored, err := f.userStore.GetByID(id)
	if err != nil || stored == nil {
		t.Fatalf("get user: %v", err)
	}
	if !stored.IsAdmin {
		t.Error("flag not persisted")
	}

	// And back off again.
	rec = putAdmin(t, h, strconv.FormatInt(id, 10), `{"is_admin":false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("revoke status = %d, want %d", rec.Code, http.StatusOK)
	}
	stored, _ = f.userStore.GetByID(id)
	if stored.IsAdmin {
		t.Error("flag not cleared")
	}
}

func TestSetAdminUnknownUser(t *testing.T) {
	h, _ := setupUserHandler(t)

	rec := putAdmin(t, h, "9999", `{"is_admin":true}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestSetAdminInvalidID(t *testing.T) {
	h, _ := setupUserHandler(t)

	rec := putAdmin(t, h, "abc", `{"is_admin":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
