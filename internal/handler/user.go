package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/innovastaff/staffsite/internal/model"
	"github.com/innovastaff/staffsite/internal/store"
)

// UserHandler serves the admin-only user management endpoints. The
// routes are gated by RequireSession + RequireAdmin.
type UserHandler struct {
	userStore *store.UserStore
	logger    *slog.Logger
}

func NewUserHandler(us *store.UserStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{userStore: us, logger: logger}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List()
	if err != nil {
		h.logger.Error("list users", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to list users")
		return
	}
	if users == nil {
		users = []model.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) SetAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	var req struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	existing, err := h.userStore.GetByID(id)
	if err != nil {
		h.logger.Error("get user", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to get user")
		return
	}
	if existing == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user, err := h.userStore.SetAdmin(id, req.IsAdmin)
	if err != nil {
		h.logger.Error("set admin flag", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}
