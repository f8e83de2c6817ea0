package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/api/shared"
	"github.com/lingocards/lingo-api/internal/mocks"
	"github.com/lingocards/lingo-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		claims         *auth.Claims
		expectedStatus int
		expectedUserID uuid.UUID
	}{
		{
			name:           "valid token",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{UserID: userID},
			expectedStatus: http.StatusOK,
			expectedUserID: userID,
		},
		{
			name:           "lowercase scheme",
			authHeader:     "bearer valid-token",
			claims:         &auth.Claims{UserID: userID},
			expectedStatus: http.StatusOK,
			expectedUserID: userID,
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid auth format",
			authHeader:     "InvalidFormat",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "basic scheme",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "subject is not a user id",
			authHeader:     "Bearer odd-subject",
			validateErr:    auth.ErrInvalidSubject,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unexpected validation failure",
			authHeader:     "Bearer token",
			validateErr:    errors.New("keystore offline"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jwtService := &mocks.MockJWTService{Claims: tt.claims, Err: tt.validateErr}
			m := NewAuthMiddleware(jwtService)

			var gotUserID uuid.UUID
			handler := m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID, _ = GetUserID(r)
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedUserID, gotUserID)
			if tt.expectedStatus != http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestAuthMiddleware_PassesTokenToValidator(t *testing.T) {
	var got string
	jwtService := &mocks.MockJWTService{
		ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
			got = token
			return &auth.Claims{UserID: uuid.New()}, nil
		},
	}

	handler := NewAuthMiddleware(jwtService).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := shared.UserIDFromContext(r.Context())
		assert.True(t, ok)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer  abc.def.ghi ")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "abc.def.ghi", got)
}
