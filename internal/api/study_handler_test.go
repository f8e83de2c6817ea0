package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/service/study"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSession(t *testing.T) {
	userID := uuid.New()
	card := &domain.Card{ID: uuid.New(), Front: "perro", Back: "dog", Tags: []string{"animals"}, StudyWeight: 2.5}
	startedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	var gotFilters study.SessionFilters
	svc := &fakeStudyService{
		StartSessionFn: func(ctx context.Context, uid uuid.UUID, f study.SessionFilters) (*domain.StudySession, error) {
			assert.Equal(t, userID, uid)
			gotFilters = f
			return domain.NewStudySession([]*domain.Card{card}, startedAt), nil
		},
	}
	h := NewStudyHandler(svc, testLogger)

	rec := serve(t, http.MethodPost, "/study/session", h.StartSession,
		"/study/session?card_count=5&tags=animals,%20food&status=review", "", userID)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, study.SessionFilters{CardCount: 5, Tags: "animals, food", Status: domain.CardStatusReview}, gotFilters)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.EqualValues(t, 1, body["total_cards"])
	assert.Equal(t, "2025-06-15T12:00:00Z", body["started_at"])
	cards := body["cards"].([]interface{})
	require.Len(t, cards, 1)
	first := cards[0].(map[string]interface{})
	assert.Equal(t, "perro", first["front"])
	assert.EqualValues(t, 2.5, first["current_weight"])
	assert.NotContains(t, first, "back")
}

func TestStartSession_Errors(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{
			name:       "no cards",
			target:     "/study/session",
			serviceErr: study.ErrNoCardsAvailable,
			wantStatus: http.StatusNotFound,
			wantError:  "No cards available for study with the specified filters",
		},
		{
			name:       "count out of range",
			target:     "/study/session?card_count=51",
			serviceErr: study.ErrInvalidCardCount,
			wantStatus: http.StatusBadRequest,
			wantError:  "card_count must be between 1 and 50",
		},
		{
			name:       "count zero",
			target:     "/study/session?card_count=0",
			wantStatus: http.StatusBadRequest,
			wantError:  "card_count must be at least 1",
		},
		{
			name:       "count not a number",
			target:     "/study/session?card_count=many",
			wantStatus: http.StatusBadRequest,
			wantError:  "card_count must be an integer",
		},
		{
			name:       "storage failure",
			target:     "/study/session",
			serviceErr: errors.New("connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to start study session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeStudyService{
				StartSessionFn: func(ctx context.Context, uid uuid.UUID, f study.SessionFilters) (*domain.StudySession, error) {
					return nil, tt.serviceErr
				},
			}
			h := NewStudyHandler(svc, testLogger)

			rec := serve(t, http.MethodPost, "/study/session", h.StartSession, tt.target, "", uuid.New())
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantError)
			assert.NotContains(t, rec.Body.String(), "connection refused")
		})
	}
}

func TestStartSession_Unauthenticated(t *testing.T) {
	h := NewStudyHandler(&fakeStudyService{}, testLogger)
	rec := serve(t, http.MethodPost, "/study/session", h.StartSession, "/study/session", "", uuid.Nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitReview(t *testing.T) {
	userID, cardID := uuid.New(), uuid.New()
	reviewedAt := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	svc := &fakeStudyService{
		SubmitReviewFn: func(ctx context.Context, uid, cid uuid.UUID, o domain.ReviewOutcome) (*domain.Review, error) {
			assert.Equal(t, userID, uid)
			assert.Equal(t, cardID, cid)
			assert.Equal(t, domain.ReviewOutcomeIncorrect, o)
			return &domain.Review{
				ID: uuid.New(), UserID: uid, CardID: cid, Outcome: o,
				PreviousWeight: 2, NewWeight: 3, ReviewedAt: reviewedAt,
			}, nil
		},
	}
	h := NewStudyHandler(svc, testLogger)

	rec := serve(t, http.MethodPost, "/study/review", h.SubmitReview, "/study/review",
		`{"card_id":"`+cardID.String()+`","outcome":"incorrect"}`, userID)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, cardID.String(), body["card_id"])
	assert.EqualValues(t, 2, body["previous_weight"])
	assert.EqualValues(t, 3, body["new_weight"])
	assert.NotContains(t, body, "user_id")
}

func TestSubmitReview_Errors(t *testing.T) {
	cardID := uuid.New().String()

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantError  string
	}{
		{name: "malformed JSON", body: `{"card_id":`, wantStatus: http.StatusBadRequest, wantError: "Invalid request body"},
		{name: "unknown outcome", body: `{"card_id":"` + cardID + `","outcome":"maybe"}`, wantStatus: http.StatusBadRequest, wantError: "Invalid outcome"},
		{name: "bad card id", body: `{"card_id":"123","outcome":"correct"}`, wantStatus: http.StatusBadRequest, wantError: "Invalid card_id"},
		{name: "missing outcome", body: `{"card_id":"` + cardID + `"}`, wantStatus: http.StatusBadRequest, wantError: "Invalid outcome: required field"},
		{
			name:       "card not found",
			body:       `{"card_id":"` + cardID + `","outcome":"correct"}`,
			serviceErr: study.ErrCardNotFound,
			wantStatus: http.StatusNotFound,
			wantError:  "Card not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeStudyService{
				SubmitReviewFn: func(ctx context.Context, uid, cid uuid.UUID, o domain.ReviewOutcome) (*domain.Review, error) {
					return nil, tt.serviceErr
				},
			}
			h := NewStudyHandler(svc, testLogger)

			rec := serve(t, http.MethodPost, "/study/review", h.SubmitReview, "/study/review", tt.body, uuid.New())
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantError)
		})
	}
}

func TestGetStatistics(t *testing.T) {
	var gotPeriod domain.StudyPeriod
	svc := &fakeStudyService{
		GetStudyStatisticsFn: func(ctx context.Context, uid uuid.UUID, p domain.StudyPeriod) (*domain.StudyStatistics, error) {
			gotPeriod = p
			if !p.IsValid() && p != "" {
				return nil, domain.ErrInvalidPeriod
			}
			return &domain.StudyStatistics{Period: domain.StudyPeriodWeek, TotalReviews: 4, AccuracyRate: 66.67, AverageWeight: 1.0}, nil
		},
	}
	h := NewStudyHandler(svc, testLogger)

	rec := serve(t, http.MethodGet, "/study/statistics", h.GetStatistics, "/study/statistics?period=week", "", uuid.New())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StudyPeriodWeek, gotPeriod)
	assert.Contains(t, rec.Body.String(), `"accuracy_rate":66.67`)
	assert.Contains(t, rec.Body.String(), `"last_study_session":null`)

	rec = serve(t, http.MethodGet, "/study/statistics", h.GetStatistics, "/study/statistics?period=year", "", uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "period must be one of day, week, month, all")
}

func TestGetCardHistory(t *testing.T) {
	cardID := uuid.New()

	svc := &fakeStudyService{
		GetCardHistoryFn: func(ctx context.Context, uid, cid uuid.UUID, limit int) (*domain.CardHistory, error) {
			assert.Equal(t, cardID, cid)
			assert.Equal(t, 5, limit)
			return &domain.CardHistory{CardID: cid, Reviews: []domain.ReviewSummary{}, TotalReviews: 0}, nil
		},
	}
	h := NewStudyHandler(svc, testLogger)

	rec := serve(t, http.MethodGet, "/study/cards/{card_id}/history", h.GetCardHistory,
		"/study/cards/"+cardID.String()+"/history?limit=5", "", uuid.New())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reviews":[]`)

	rec = serve(t, http.MethodGet, "/study/cards/{card_id}/history", h.GetCardHistory,
		"/study/cards/not-a-uuid/history", "", uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "card_id has invalid format")

	rec = serve(t, http.MethodGet, "/study/cards/{card_id}/history", h.GetCardHistory,
		"/study/cards/"+cardID.String()+"/history?limit=0", "", uuid.New())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
