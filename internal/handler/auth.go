package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/innovastaff/staffsite/internal/auth"
	"github.com/innovastaff/staffsite/internal/email"
	"github.com/innovastaff/staffsite/internal/middleware"
	"github.com/innovastaff/staffsite/internal/store"
	"github.com/innovastaff/staffsite/internal/token"
	"golang.org/x/crypto/bcrypt"
)

const sessionCookieMaxAge = 30 * 24 * 60 * 60 // 30 days, matches the token TTL

type AuthHandler struct {
	userStore   *store.UserStore
	resetStore  *store.PasswordResetStore
	issuer      *token.Issuer
	emailClient *email.Client
	frontendURL string
	production  bool
	logger      *slog.Logger
}

func NewAuthHandler(
	us *store.UserStore,
	prs *store.PasswordResetStore,
	issuer *token.Issuer,
	ec *email.Client,
	frontendURL string,
	production bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		userStore:   us,
		resetStore:  prs,
		issuer:      issuer,
		emailClient: ec,
		frontendURL: frontendURL,
		production:  production,
		logger:      logger,
	}
}

// Register validates the submitted credentials, mails a verification
// link, and stores nothing. The user record is only created when the
// link is followed.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Email = normalizeEmail(req.Email)
	if req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Password is required in the request body")
		return
	}
	if req.Email == "" {
		writeMessage(w, http.StatusBadRequest, "Email is required in the request body")
		return
	}

	existing, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("register lookup", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if existing != nil {
		writeMessage(w, http.StatusBadRequest, "User already exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}

	signed, err := h.issuer.IssueRegistration(strings.TrimSpace(req.Name), req.Email, string(hash))
	if err != nil {
		h.logger.Error("issue registration token", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}

	if err := h.emailClient.SendVerification(req.Email, signed); err != nil {
		h.logger.Error("send verification email", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Verification email could not be sent")
		return
	}

	writeMessage(w, http.StatusOK, "Verification link sent to email: "+req.Email)
}

// VerifyEmail exchanges a pending-registration token for a stored user.
// Every failure redirects to the login surface with a query flag; the
// underlying cause only reaches the logs.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	loginURL := h.frontendURL + "/login"

	raw := r.URL.Query().Get("token")
	if raw == "" {
		http.Redirect(w, r, loginURL+"?error=missing_token", http.StatusFound)
		return
	}

	claims, err := h.issuer.ParseRegistration(raw)
	if err != nil {
		h.logger.Warn("verify email token", "error", err)
		http.Redirect(w, r, loginURL+"?error=invalid_token", http.StatusFound)
		return
	}
	if claims.Email == "" || claims.PasswordHash == "" {
		// A token without credentials cannot mint an account.
		http.Redirect(w, r, loginURL+"?error=invalid_token", http.StatusFound)
		return
	}

	existing, err := h.userStore.GetByEmail(claims.Email)
	if err != nil {
		h.logger.Error("verify email lookup", "error", err)
		http.Redirect(w, r, loginURL+"?error=invalid_token", http.StatusFound)
		return
	}
	if existing != nil {
		// Already verified, e.g. the link was clicked twice. Not an error.
		http.Redirect(w, r, loginURL+"?verified=true", http.StatusFound)
		return
	}

	if _, err := h.userStore.Create(claims.Name, claims.Email, claims.PasswordHash); err != nil {
		// Two valid tokens for the same email can race; the unique
		// constraint decides the winner and the loser is treated as
		// already verified.
		if u, lookupErr := h.userStore.GetByEmail(claims.Email); lookupErr == nil && u != nil {
			http.Redirect(w, r, loginURL+"?verified=true", http.StatusFound)
			return
		}
		h.logger.Error("create verified user", "error", err)
		http.Redirect(w, r, loginURL+"?error=invalid_token", http.StatusFound)
		return
	}

	http.Redirect(w, r, loginURL+"?verified=true", http.StatusFound)
}

// Login checks the credentials and issues the session cookie. Unknown
// email and wrong password produce the identical response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userStore.GetByEmailWithPassword(normalizeEmail(req.Email))
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	signed, err := h.issuer.IssueSession(user.ID, user.Role)
	if err != nil {
		h.logger.Error("issue session token", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}

	http.SetCookie(w, h.sessionCookie(signed, sessionCookieMaxAge))

	writeJSON(w, http.StatusOK, map[string]any{
		"_id":   user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  user.Role,
		"token": signed,
	})
}

// Logout clears the session cookie. The session itself is stateless, so
// there is nothing server-side to invalidate.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := h.sessionCookie("", -1)
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)

	writeMessage(w, http.StatusOK, "Logged out successfully")
}

// Me returns the profile of the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userStore.GetByID(auth.UserID(r.Context()))
	if err != nil || user == nil {
		writeMessage(w, http.StatusInternalServerError, "Cannot fetch user profile")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ForgotPassword issues a one-time reset secret and emails it. The
// response never reveals whether the account exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userStore.GetByEmail(normalizeEmail(req.Email))
	if err != nil {
		h.logger.Error("forgot password lookup", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if user == nil {
		writeMessage(w, http.StatusOK, "If that email exists, a link has been sent")
		return
	}

	_, raw, err := h.resetStore.Create(user.ID)
	if err != nil {
		h.logger.Error("create reset record", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}

	if err := h.emailClient.SendPasswordReset(user.Email, raw); err != nil {
		// A valid reset record with no deliverable email is a latent
		// vulnerability; roll it back before surfacing the failure.
		h.logger.Error("send reset email", "error", err)
		if delErr := h.resetStore.DeleteByUser(user.ID); delErr != nil {
			h.logger.Error("rollback reset record", "error", delErr)
		}
		writeMessage(w, http.StatusInternalServerError, "Email could not be sent")
		return
	}

	writeMessage(w, http.StatusOK, "If that email exists, a link has been sent")
}

// ResetPassword consumes a reset secret and stores the new password
// hash. Deleting the record is what makes the secret one-time-use.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	rawSecret := r.PathValue("token")

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Password is required in the request body")
		return
	}

	reset, err := h.resetStore.GetByToken(rawSecret)
	if err != nil {
		h.logger.Error("reset token lookup", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if reset == nil {
		writeMessage(w, http.StatusBadRequest, "Invalid or Expired Token")
		return
	}

	user, err := h.userStore.GetByID(reset.UserID)
	if err != nil {
		h.logger.Error("reset user lookup", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if user == nil {
		writeMessage(w, http.StatusNotFound, "User no longer exists")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("hash new password", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}

	if err := h.userStore.UpdatePassword(user.ID, string(hash)); err != nil {
		h.logger.Error("update password", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal error")
		return
	}

	if err := h.resetStore.Delete(reset.ID); err != nil {
		h.logger.Error("delete consumed reset record", "error", err)
	}

	writeMessage(w, http.StatusOK, "Password Reset Successful")
}

// sessionCookie builds the session cookie with the flags shared by
// login and logout. Mismatched flags would fail to clear the cookie in
// some browsers.
func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
	}
	if h.production {
		// Cross-site front end over HTTPS.
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		// SameSite=None without Secure is rejected; Lax works on localhost.
		cookie.SameSite = http.SameSiteLaxMode
	}
	return cookie
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
