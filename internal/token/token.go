package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// SessionTTL is how long an issued session token stays valid.
	SessionTTL = 30 * 24 * time.Hour
	// RegistrationTTL bounds the window between requesting registration
	// and clicking the verification link.
	RegistrationTTL = time.Hour
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Subject values distinguish the two token kinds. Both are signed with
// the same secret, so parsing enforces the subject to keep a session
// token from being replayed as a pending registration (or vice versa).
const (
	subjectSession      = "session"
	subjectRegistration = "registration"
)

// SessionClaims identify an authenticated user. The session is
// stateless: no server-side record backs it.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
}

// RegistrationClaims carry a pending registration between the register
// request and the verification link. The password is embedded already
// bcrypt-hashed, never in plaintext.
type RegistrationClaims struct {
	jwt.RegisteredClaims
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password"`
}

// Issuer signs and verifies the two token kinds with a shared HS256 secret.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret)}
}

// IssueSession returns a signed session token for the given user.
func (i *Issuer) IssueSession(userID int64, role string) (string, error) {
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subjectSession,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
		},
		UserID: userID,
		Role:   role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ParseSession validates a session token and returns its claims.
func (i *Issuer) ParseSession(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := i.parse(tokenString, claims, subjectSession); err != nil {
		return nil, err
	}
	return claims, nil
}

// IssueRegistration returns a signed pending-registration token. Nothing
// is persisted until the token is exchanged.
func (i *Issuer) IssueRegistration(name, email, passwordHash string) (string, error) {
	claims := RegistrationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectRegistration,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(RegistrationTTL)),
		},
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign registration token: %w", err)
	}
	return signed, nil
}

// ParseRegistration validates a pending-registration token and returns
// its claims.
func (i *Issuer) ParseRegistration(tokenString string) (*RegistrationClaims, error) {
	claims := &RegistrationClaims{}
	if err := i.parse(tokenString, claims, subjectRegistration); err != nil {
		return nil, err
	}
	return claims, nil
}

func (i *Issuer) parse(tokenString string, claims jwt.Claims, subject string) error {
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(subject),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return ErrInvalidToken
	}
	return nil
}
