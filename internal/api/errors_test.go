package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/lingocards/lingo-api/internal/api/shared"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/generation"
	"github.com/lingocards/lingo-api/internal/service"
	"github.com/lingocards/lingo-api/internal/service/auth"
	"github.com/lingocards/lingo-api/internal/service/study"
	"github.com/lingocards/lingo-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"bad subject", auth.ErrInvalidSubject, http.StatusUnauthorized},
		{"study card not found", study.ErrCardNotFound, http.StatusNotFound},
		{"wrapped service not found", service.NewCardServiceError("get_card", "x", service.ErrCardNotFound), http.StatusNotFound},
		{"store not found", store.ErrCardNotFound, http.StatusNotFound},
		{"no cards", study.ErrNoCardsAvailable, http.StatusNotFound},
		{"bad JSON", fmt.Errorf("%w: eof", shared.ErrInvalidJSON), http.StatusBadRequest},
		{"field error", domain.NewValidationError("limit", "must be positive", domain.ErrValidation), http.StatusBadRequest},
		{"card count", study.ErrInvalidCardCount, http.StatusBadRequest},
		{"outcome", domain.ErrInvalidOutcome, http.StatusBadRequest},
		{"front", domain.ErrCardFrontInvalid, http.StatusBadRequest},
		{"not configured", generation.ErrNotConfigured, http.StatusServiceUnavailable},
		{"transient", fmt.Errorf("retries: %w", generation.ErrTransientFailure), http.StatusServiceUnavailable},
		{"blocked", generation.ErrContentBlocked, http.StatusUnprocessableEntity},
		{"bad model output", generation.ErrInvalidResponse, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage_DoesNotLeak(t *testing.T) {
	leaky := []error{
		errors.New(`pq: relation "cards" does not exist`),
		store.NewStoreError("card", "list", "query failed", errors.New("SELECT * FROM cards WHERE user_id = $1")),
		service.NewCardServiceError("export", "failed to list cards", errors.New("dial tcp 10.0.0.5:5432: connection refused")),
	}

	for _, err := range leaky {
		msg := GetSafeErrorMessage(err)
		assert.Equal(t, "An unexpected error occurred", msg)
	}

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
}

func TestGetSafeErrorMessage_Validation(t *testing.T) {
	assert.Equal(t, "limit must be between 1 and 100", GetSafeErrorMessage(service.ErrInvalidLimit))
	assert.Equal(t, "card_count must be between 1 and 50", GetSafeErrorMessage(study.ErrInvalidCardCount))
	assert.Equal(t, "limit must be between 1 and 100", GetSafeErrorMessage(study.ErrInvalidLimit))
	assert.Equal(t, "outcome must be one of correct, incorrect, skipped", GetSafeErrorMessage(domain.ErrInvalidOutcome))
	assert.Equal(t, domain.ErrCardBackInvalid.Error(), GetSafeErrorMessage(domain.ErrCardBackInvalid))
}
