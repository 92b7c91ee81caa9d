package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"github.com/innovastaff/staffsite/internal/email"
	"github.com/innovastaff/staffsite/internal/model"
	"github.com/innovastaff/staffsite/internal/store"
)

var inquiryTypes = map[string]bool{
	"General":          true,
	"Support":          true,
	"Careers":          true,
	"Business Inquiry": true,
}

type ContactHandler struct {
	contactStore *store.ContactStore
	emailClient  *email.Client
	inbox        string
	logger       *slog.Logger
}

func NewContactHandler(cs *store.ContactStore, ec *email.Client, inbox string, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contactStore: cs,
		emailClient:  ec,
		inbox:        inbox,
		logger:       logger,
	}
}

// Create validates a contact-form submission, persists it, and forwards
// it to the agency inbox.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName     string `json:"fullName"`
		EmailAddress string `json:"emailAddress"`
		InquiryType  string `json:"inquiryType"`
		Message      string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "Invalid data format"})
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.EmailAddress = normalizeEmail(req.EmailAddress)
	req.Message = strings.TrimSpace(req.Message)

	var errs []string
	if n := len(req.FullName); n < 2 || n > 100 {
		errs = append(errs, "Full name must be between 2 and 100 characters")
	}
	if _, err := mail.ParseAddress(req.EmailAddress); err != nil {
		errs = append(errs, "Please enter a valid email address")
	}
	if !inquiryTypes[req.InquiryType] {
		errs = append(errs, "Please select a valid inquiry type")
	}
	if n := len(req.Message); n < 10 || n > 5000 {
		errs = append(errs, "Message must be between 10 and 5000 characters")
	}
	if len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "errors": errs})
		return
	}

	if _, err := h.contactStore.Create(req.FullName, req.EmailAddress, req.InquiryType, req.Message); err != nil {
		h.logger.Error("save contact request", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Server error. Failed to send request."})
		return
	}

	// Header-injection guard: the submitted values end up in an email body.
	notify := func(s string) string { return strings.NewReplacer("\r", "", "\n", " ").Replace(s) }
	if err := h.emailClient.SendContactNotification(h.inbox, notify(req.FullName), req.EmailAddress, req.InquiryType, req.Message); err != nil {
		h.logger.Error("send contact notification", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Server error. Failed to send request."})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Contact request submitted successfully."})
}

// List returns stored contact requests, newest first. Admin only.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	requests, err := h.contactStore.List()
	if err != nil {
		h.logger.Error("list contact requests", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to list contact requests")
		return
	}
	if requests == nil {
		requests = []model.ContactRequest{}
	}
	writeJSON(w, http.StatusOK, requests)
}
