package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/api/shared"
	"github.com/lingocards/lingo-api/internal/ratelimit"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit(t *testing.T) {
	store := ratelimit.NewStore(map[string]int{EndpointAIGenerate: 1}, time.Hour)
	handler := RateLimit(store, EndpointAIGenerate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(userID uuid.UUID) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/ai/generate", nil)
		req = req.WithContext(shared.WithUserID(req.Context(), userID))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	alice, bob := uuid.New(), uuid.New()

	assert.Equal(t, http.StatusNoContent, call(alice).Code)

	denied := call(alice)
	assert.Equal(t, http.StatusTooManyRequests, denied.Code)
	assert.Equal(t, "3600", denied.Header().Get("Retry-After"))
	assert.Contains(t, denied.Body.String(), "Rate limit exceeded. Try again in 3600 seconds")

	assert.Equal(t, http.StatusNoContent, call(bob).Code)
}

func TestRateLimit_RequiresUser(t *testing.T) {
	store := ratelimit.NewStore(map[string]int{EndpointAIGenerate: 1}, time.Hour)
	handler := RateLimit(store, EndpointAIGenerate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
