package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/innovastaff/staffsite/internal/email"
	"github.com/innovastaff/staffsite/internal/model"
	"github.com/innovastaff/staffsite/internal/store"
)

func setupContactHandler(t *testing.T) (*ContactHandler, *store.ContactStore, *mailbox) {
	t.Helper()
	f := setupAuthHandler(t)
	cs := store.NewContactStore(f.db)
	ec := email.NewClient("tok", "no-reply@example.com", "http://api.test", "http://app.test",
		email.WithHTTPClient(f.mail.client(t)))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewContactHandler(cs, ec, "inbox@example.com", logger), cs, f.mail
}

const validContact = `{
	"fullName": "Alice Smith",
	"emailAddress": "alice@example.com",
	"inquiryType": "Careers",
	"message": "I would like to apply for a position."
}`

func TestContactCreate(t *testing.T) {
	h, cs, mail := setupContactHandler(t)

	rec := postJSON(t, h.Create, "/api/contact", validContact)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	reqs, err := cs.List()
	if err != nil {
		t.Fatalf("list contact requests: %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("stored requests = %d, want 1", len(reqs))
	}
	if reqs[0].FullName != "Alice Smith" || reqs[0].InquiryType != "Careers" {
		t.Errorf("stored request = %+v", reqs[0])
	}

	if len(mail.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(mail.sent))
	}
	if mail.sent[0].To != "inbox@example.com" {
		t.Errorf("notification To = %q, want agency inbox", mail.sent[0].To)
	}
}

func TestContactValidation(t *testing.T) {
	h, cs, _ := setupContactHandler(t)

	rec := postJSON(t, h.Create, "/api/contact", `{
		"fullName": "A",
		"emailAddress": "not-an-email",
		"inquiryType": "Spam",
		"message": "short"
	}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body struct {
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success {
		t.Error("success = true on validation failure")
	}
	if len(body.Errors) != 4 {
		t.Errorf("errors = %d (%v), want 4", len(body.Errors), body.Errors)
	}

	if reqs, _ := cs.List(); len(reqs) != 0 {
		t.Error("invalid submission must not be stored")
	}
}

func TestContactList(t *testing.T) {
	h, _, _ := setupContactHandler(t)

	rec := postJSON(t, h.Create, "/api/contact", validContact)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	lrec := httptest.NewRecorder()
	h.List(lrec, httptest.NewRequest("GET", "/api/contact", nil))
	if lrec.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", lrec.Code, lrec.Body.String())
	}

	var requests []model.ContactRequest
	if err := json.Unmarshal(lrec.Body.Bytes(), &requests); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(requests) != 1 || requests[0].FullName != "Alice Smith" {
		t.Errorf("requests = %+v, want the submitted one", requests)
	}
}

func TestContactListEmpty(t *testing.T) {
	h, _, _ := setupContactHandler(t)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest("GET", "/api/contact", nil))
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want empty array", body)
	}
}

func TestContactEmailFailure(t *testing.T) {
	h, _, mail := setupContactHandler(t)
	mail.status = http.StatusInternalServerError

	rec := postJSON(t, h.Create, "/api/contact", validContact)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Success || body.Error == "" {
		t.Errorf("body = %+v, want failure with error message", body)
	}
}
