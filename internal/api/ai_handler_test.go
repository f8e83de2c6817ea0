package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/generation"
	"github.com/lingocards/lingo-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	suggestions []generation.Suggestion
	err         error
}

func (s stubGenerator) GenerateSuggestions(ctx context.Context, text string, count int) ([]generation.Suggestion, error) {
	return s.suggestions, s.err
}

var longText = strings.Repeat("El perro come en la cocina. ", 5)

func TestGenerate(t *testing.T) {
	gen := generation.NewService(stubGenerator{suggestions: []generation.Suggestion{
		{ID: "abc", Front: "el perro", Back: "the dog", Tags: []string{"animals"}},
	}}, testLogger)
	h := NewAIHandler(gen, &fakeCardService{}, testLogger)

	rec := serve(t, http.MethodPost, "/ai/generate", h.Generate, "/ai/generate",
		`{"text":"`+longText+`","target_count":3}`, uuid.New())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"suggestion_id":"abc"`)
	assert.Contains(t, rec.Body.String(), `"suggested_tags":["animals"]`)
	assert.Contains(t, rec.Body.String(), `"cards_generated":1`)
	assert.Contains(t, rec.Body.String(), `"generation_id":"`)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		generator  generation.Generator
		wantStatus int
		wantError  string
	}{
		{
			name:       "text too short",
			body:       `{"text":"hola"}`,
			generator:  stubGenerator{},
			wantStatus: http.StatusBadRequest,
			wantError:  "text must be between 50 and 10000 characters",
		},
		{
			name:       "count too large",
			body:       `{"text":"` + longText + `","target_count":21}`,
			generator:  stubGenerator{},
			wantStatus: http.StatusBadRequest,
			wantError:  "target_count must be between 1 and 20",
		},
		{
			name:       "provider not configured",
			body:       `{"text":"` + longText + `"}`,
			generator:  generation.Disabled{},
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "AI service is not configured",
		},
		{
			name:       "provider keeps failing",
			body:       `{"text":"` + longText + `"}`,
			generator:  stubGenerator{err: fmt.Errorf("exceeded maximum retry attempts (3): %w", generation.ErrTransientFailure)},
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "temporarily unavailable",
		},
		{
			name:       "content blocked",
			body:       `{"text":"` + longText + `"}`,
			generator:  stubGenerator{err: generation.ErrContentBlocked},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "content filters",
		},
		{
			name:       "garbage response",
			body:       `{"text":"` + longText + `"}`,
			generator:  stubGenerator{err: generation.ErrInvalidResponse},
			wantStatus: http.StatusBadGateway,
			wantError:  "unusable response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAIHandler(generation.NewService(tt.generator, testLogger), &fakeCardService{}, testLogger)
			rec := serve(t, http.MethodPost, "/ai/generate", h.Generate, "/ai/generate", tt.body, uuid.New())
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantError)
		})
	}
}

func TestAccept(t *testing.T) {
	userID := uuid.New()

	var got []service.CardInput
	cards := &fakeCardService{
		AcceptSuggestionsFn: func(ctx context.Context, uid uuid.UUID, in []service.CardInput) ([]*domain.Card, error) {
			got = in
			out := make([]*domain.Card, 0, len(in))
			for _, c := range in {
				card, err := domain.NewCard(uid, c.Front, c.Back, c.Tags, c.Status, domain.CardSourceAI)
				require.NoError(t, err)
				card.CreatedAt = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
				out = append(out, card)
			}
			return out, nil
		},
	}
	h := NewAIHandler(generation.NewService(nil, testLogger), cards, testLogger)

	rec := serve(t, http.MethodPost, "/ai/accept", h.Accept, "/ai/accept",
		`{"cards":[{"front":"el perro","back":"the dog","tags":["animals"]},{"front":"el gato","back":"the cat","status":"review"}]}`,
		userID)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, got, 2)
	assert.Equal(t, domain.CardStatusReview, got[1].Status)
	assert.Contains(t, rec.Body.String(), `"total_created":2`)
	assert.Contains(t, rec.Body.String(), `"source":"ai"`)
}

func TestAccept_Validation(t *testing.T) {
	h := NewAIHandler(generation.NewService(nil, testLogger), &fakeCardService{}, testLogger)

	tooMany := make([]string, 51)
	for i := range tooMany {
		tooMany[i] = `{"front":"a","back":"b"}`
	}

	for _, body := range []string{
		`{"cards":[]}`,
		`{"cards":[{"front":"","back":"b"}]}`,
		`{"cards":[` + strings.Join(tooMany, ",") + `]}`,
	} {
		rec := serve(t, http.MethodPost, "/ai/accept", h.Accept, "/ai/accept", body, uuid.New())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}
