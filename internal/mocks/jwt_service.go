package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing.
type MockJWTService struct {
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
	GenerateTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)

	// Claims and Err are returned by ValidateToken when ValidateTokenFn is nil.
	Claims *auth.Claims
	Err    error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// ValidateToken implements auth.JWTService
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.Err
}

// GenerateToken implements auth.JWTService
func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID)
	}
	return "mock-token", nil
}
