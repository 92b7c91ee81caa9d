package middleware

import (
	"net/http"

	"github.com/innovastaff/staffsite/internal/auth"
	"github.com/innovastaff/staffsite/internal/store"
	"github.com/innovastaff/staffsite/internal/token"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "token"

// RequireSession validates the session cookie, resolves the user it
// names and attaches the identity to the request context. Missing,
// invalid and expired tokens all produce the same 401 body; the
// distinction only reaches server logs.
func RequireSession(issuer *token.Issuer, userStore *store.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			claims, err := issuer.ParseSession(cookie.Value)
			if err != nil {
				unauthorized(w)
				return
			}

			// A token for a user deleted since issuance is as stale as an
			// expired one.
			user, err := userStore.GetByID(claims.UserID)
			if err != nil || user == nil {
				unauthorized(w)
				return
			}

			id := auth.Identity{
				UserID:  user.ID,
				Name:    user.Name,
				Email:   user.Email,
				Role:    user.Role,
				IsAdmin: user.IsAdmin,
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdmin checks the administrative flag on the attached identity.
// It must run after RequireSession.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			writeError(w, http.StatusForbidden, "Not authorized as an admin")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "Not authorized")
}
