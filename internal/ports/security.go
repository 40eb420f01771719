package ports

import (
	"time"

	"github.com/google/uuid"
)

type AuthClaims struct {
	ProfileID uuid.UUID
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type TokenIssuer interface {
	Sign(claims AuthClaims) (string, error)
	ParseAndValidate(raw string) (AuthClaims, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}
