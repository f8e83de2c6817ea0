package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/api/shared"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/generation"
	"github.com/lingocards/lingo-api/internal/service"
	"github.com/lingocards/lingo-api/internal/service/study"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeStudyService struct {
	StartSessionFn       func(ctx context.Context, userID uuid.UUID, f study.SessionFilters) (*domain.StudySession, error)
	SubmitReviewFn       func(ctx context.Context, userID, cardID uuid.UUID, o domain.ReviewOutcome) (*domain.Review, error)
	GetStudyStatisticsFn func(ctx context.Context, userID uuid.UUID, p domain.StudyPeriod) (*domain.StudyStatistics, error)
	GetCardHistoryFn     func(ctx context.Context, userID, cardID uuid.UUID, limit int) (*domain.CardHistory, error)
}

var _ study.Service = (*fakeStudyService)(nil)

func (f *fakeStudyService) StartSession(ctx context.Context, userID uuid.UUID, filters study.SessionFilters) (*domain.StudySession, error) {
	return f.StartSessionFn(ctx, userID, filters)
}

func (f *fakeStudyService) SelectStudyCards(ctx context.Context, userID uuid.UUID, filters study.SessionFilters) ([]*domain.Card, error) {
	return nil, nil
}

func (f *fakeStudyService) SubmitReview(ctx context.Context, userID, cardID uuid.UUID, outcome domain.ReviewOutcome) (*domain.Review, error) {
	return f.SubmitReviewFn(ctx, userID, cardID, outcome)
}

func (f *fakeStudyService) GetStudyStatistics(ctx context.Context, userID uuid.UUID, period domain.StudyPeriod) (*domain.StudyStatistics, error) {
	return f.GetStudyStatisticsFn(ctx, userID, period)
}

func (f *fakeStudyService) CalculateStudyStreak(ctx context.Context, userID uuid.UUID) (int, error) {
	return 0, nil
}

func (f *fakeStudyService) GetCardHistory(ctx context.Context, userID, cardID uuid.UUID, limit int) (*domain.CardHistory, error) {
	return f.GetCardHistoryFn(ctx, userID, cardID, limit)
}

type fakeCardService struct {
	ListFn              func(ctx context.Context, userID uuid.UUID, q service.ListQuery) (*service.CardPage, error)
	GetFn               func(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)
	CreateFn            func(ctx context.Context, userID uuid.UUID, in service.CardInput) (*domain.Card, error)
	UpdateFn            func(ctx context.Context, userID, cardID uuid.UUID, e service.CardEdit) (*domain.Card, error)
	DeleteFn            func(ctx context.Context, userID, cardID uuid.UUID) (*service.DeleteResult, error)
	RestoreFn           func(ctx context.Context, userID, cardID uuid.UUID) (*service.RestoreResult, error)
	BulkDeleteFn        func(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (*service.BulkDeleteResult, error)
	ExportFn            func(ctx context.Context, userID uuid.UUID, q service.ExportQuery) (*service.Export, error)
	AcceptSuggestionsFn func(ctx context.Context, userID uuid.UUID, in []service.CardInput) ([]*domain.Card, error)
}

var _ service.CardService = (*fakeCardService)(nil)

func (f *fakeCardService) List(ctx context.Context, userID uuid.UUID, q service.ListQuery) (*service.CardPage, error) {
	return f.ListFn(ctx, userID, q)
}

func (f *fakeCardService) Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error) {
	return f.GetFn(ctx, userID, cardID)
}

func (f *fakeCardService) Create(ctx context.Context, userID uuid.UUID, in service.CardInput) (*domain.Card, error) {
	return f.CreateFn(ctx, userID, in)
}

func (f *fakeCardService) Update(ctx context.Context, userID, cardID uuid.UUID, e service.CardEdit) (*domain.Card, error) {
	return f.UpdateFn(ctx, userID, cardID, e)
}

func (f *fakeCardService) Delete(ctx context.Context, userID, cardID uuid.UUID) (*service.DeleteResult, error) {
	return f.DeleteFn(ctx, userID, cardID)
}

func (f *fakeCardService) Restore(ctx context.Context, userID, cardID uuid.UUID) (*service.RestoreResult, error) {
	return f.RestoreFn(ctx, userID, cardID)
}

func (f *fakeCardService) BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (*service.BulkDeleteResult, error) {
	return f.BulkDeleteFn(ctx, userID, ids)
}

func (f *fakeCardService) Export(ctx context.Context, userID uuid.UUID, q service.ExportQuery) (*service.Export, error) {
	return f.ExportFn(ctx, userID, q)
}

func (f *fakeCardService) AcceptSuggestions(ctx context.Context, userID uuid.UUID, in []service.CardInput) ([]*domain.Card, error) {
	return f.AcceptSuggestionsFn(ctx, userID, in)
}

type fakeSuggestions struct {
	GenerateFn func(ctx context.Context, userID uuid.UUID, text string, count int) (*generation.Result, error)
}

func (f *fakeSuggestions) Generate(ctx context.Context, userID uuid.UUID, text string, count int) (*generation.Result, error) {
	return f.GenerateFn(ctx, userID, text, count)
}

// serve routes one request through a chi router so path parameters resolve.
// A nil userID sends the request unauthenticated.
func serve(t *testing.T, method, pattern string, h http.HandlerFunc, target, body string, userID uuid.UUID) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.MethodFunc(method, pattern, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != uuid.Nil {
		req = req.WithContext(shared.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
