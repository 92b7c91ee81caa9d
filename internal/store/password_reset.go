package store

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/innovastaff/staffsite/internal/model"
)

// resetTTL bounds how long an unused reset secret stays valid.
const resetTTL = time.Hour

type PasswordResetStore struct {
	db *sql.DB
}

func NewPasswordResetStore(db *sql.DB) *PasswordResetStore {
	return &PasswordResetStore{db: db}
}

const passwordResetCols = `id, user_id, token_hash, expires_at, created_at`

func scanPasswordReset(scanner interface{ Scan(...any) error }) (*model.PasswordReset, error) {
	var pr model.PasswordReset
	err := scanner.Scan(&pr.ID, &pr.UserID, &pr.TokenHash, &pr.ExpiresAt, &pr.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &pr, nil
}

// generateSecret returns a 32-byte random secret as hex.
func generateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func hashSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Create issues a fresh reset secret for the user and returns the raw
// value for the emailed link. Only the SHA-256 digest is stored. Any
// previous records for the user are deleted first, so at most one
// secret is live per user.
func (s *PasswordResetStore) Create(userID int64) (*model.PasswordReset, string, error) {
	if err := s.DeleteByUser(userID); err != nil {
		return nil, "", err
	}

	raw, err := generateSecret()
	if err != nil {
		return nil, "", err
	}
	expiresAt := time.Now().UTC().Add(resetTTL)

	result, err := s.db.Exec(
		`INSERT INTO password_resets (user_id, token_hash, expires_at) VALUES (?, ?, ?)`,
		userID, hashSecret(raw), expiresAt,
	)
	if err != nil {
		return nil, "", fmt.Errorf("insert password reset: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, "", fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+passwordResetCols+` FROM password_resets WHERE id = ?`, id)
	pr, err := scanPasswordReset(row)
	if err != nil {
		return nil, "", fmt.Errorf("get password reset: %w", err)
	}
	return pr, raw, nil
}

// GetByToken looks up the unexpired record matching the raw secret, or
// nil if none exists.
func (s *PasswordResetStore) GetByToken(raw string) (*model.PasswordReset, error) {
	row := s.db.QueryRow(
		`SELECT `+passwordResetCols+` FROM password_resets WHERE token_hash = ? AND expires_at > datetime('now')`,
		hashSecret(raw),
	)
	pr, err := scanPasswordReset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get password reset by token: %w", err)
	}
	return pr, nil
}

// Delete removes a consumed record; deletion is what makes the secret
// one-time-use.
func (s *PasswordResetStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM password_resets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete password reset: %w", err)
	}
	return nil
}

func (s *PasswordResetStore) DeleteByUser(userID int64) error {
	_, err := s.db.Exec(`DELETE FROM password_resets WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("delete password resets for user: %w", err)
	}
	return nil
}

func (s *PasswordResetStore) DeleteExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM password_resets WHERE expires_at <= datetime('now')`)
	if err != nil {
		return 0, fmt.Errorf("delete expired password resets: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
