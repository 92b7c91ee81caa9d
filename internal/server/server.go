package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/innovastaff/staffsite/internal/config"
	"github.com/innovastaff/staffsite/internal/email"
	"github.com/innovastaff/staffsite/internal/handler"
	"github.com/innovastaff/staffsite/internal/middleware"
	"github.com/innovastaff/staffsite/internal/store"
	"github.com/innovastaff/staffsite/internal/token"
)

type Server struct {
	db          *sql.DB
	authH       *handler.AuthHandler
	userH       *handler.UserHandler
	contactH    *handler.ContactHandler
	issuer      *token.Issuer
	userStore   *store.UserStore
	resetStore  *store.PasswordResetStore
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, emailClient *email.Client, cfg config.Config, logger *slog.Logger) *Server {
	userStore := store.NewUserStore(db)
	resetStore := store.NewPasswordResetStore(db)
	contactStore := store.NewContactStore(db)

	issuer := token.NewIssuer(cfg.JWTSecret)

	return &Server{
		db:          db,
		authH:       handler.NewAuthHandler(userStore, resetStore, issuer, emailClient, cfg.FrontendURL, cfg.Production(), logger.With("component", "auth")),
		userH:       handler.NewUserHandler(userStore, logger.With("component", "users")),
		contactH:    handler.NewContactHandler(contactStore, emailClient, cfg.ContactInbox, logger.With("component", "contact")),
		issuer:      issuer,
		userStore:   userStore,
		resetStore:  resetStore,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// PasswordResetStore returns the reset store for cleanup tasks.
func (s *Server) PasswordResetStore() *store.PasswordResetStore {
	return s.resetStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Public credential endpoints; the unauthenticated ones that trigger
	// emails or hash passwords are rate limited per client IP.
	mux.HandleFunc("POST /api/auth/register", s.rateLimited(s.authH.Register))
	mux.HandleFunc("GET /api/auth/verify-email", s.authH.VerifyEmail)
	mux.HandleFunc("POST /api/auth/login", s.rateLimited(s.authH.Login))
	mux.HandleFunc("POST /api/auth/logout", s.authH.Logout)
	mux.HandleFunc("POST /api/auth/forgot-password", s.rateLimited(s.authH.ForgotPassword))
	mux.HandleFunc("PUT /api/auth/resetpassword/{token}", s.authH.ResetPassword)

	mux.HandleFunc("POST /api/contact", s.rateLimited(s.contactH.Create))

	// Session-gated routes
	sessionGate := middleware.RequireSession(s.issuer, s.userStore)
	mux.Handle("GET /api/auth/me", sessionGate(http.HandlerFunc(s.authH.Me)))
	mux.Handle("GET /api/users", sessionGate(middleware.RequireAdmin(http.HandlerFunc(s.userH.List))))
	mux.Handle("PUT /api/users/{id}/admin", sessionGate(middleware.RequireAdmin(http.HandlerFunc(s.userH.SetAdmin))))
	mux.Handle("GET /api/contact", sessionGate(middleware.RequireAdmin(http.HandlerFunc(s.contactH.List))))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
