package model

import "time"

// PasswordReset stores the SHA-256 digest of a one-time reset secret. The
// raw secret only ever exists inside the emailed reset URL.
type PasswordReset struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TokenHash string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
