// Package auth validates the bearer tokens issued by the external identity
// provider. Tokens are HS256 JWTs whose subject is the user's UUID.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for working with JWT authentication tokens.
type JWTService interface {
	// ValidateToken verifies the signature, time claims and issuer of
	// tokenString and returns its claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateToken mints a token for userID signed with the shared secret.
	// Used for local development; production tokens come from the provider.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)
}

// Claims is the validated content of a token.
type Claims struct {
	UserID    uuid.UUID
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
