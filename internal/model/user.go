package model

import "time"

// RoleUser is the default role assigned at registration. Role is kept as a
// string column so a richer role model can grow without a migration.
const RoleUser = "user"

type User struct {
	ID    int64  `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	// PasswordHash is only populated by hash-including store projections
	// and is never serialized.
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
