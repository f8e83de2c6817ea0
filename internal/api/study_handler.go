package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/api/shared"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/lingocards/lingo-api/internal/service/study"
)

// StudyHandler serves the study session endpoints.
type StudyHandler struct {
	studyService study.Service
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler
func NewStudyHandler(studyService study.Service, logger *slog.Logger) *StudyHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}
	return &StudyHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// StartSession handles POST /study/session?card_count&tags&status.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	count, err := queryInt(r, "card_count", 1)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	q := r.URL.Query()
	filters := study.SessionFilters{
		CardCount: count,
		Tags:      q.Get("tags"),
		Status:    domain.CardStatus(q.Get("status")),
	}

	session, err := h.studyService.StartSession(r.Context(), userID, filters)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start study session")
		return
	}

	log.Debug("study session started",
		slog.String("session_id", session.ID.String()),
		slog.Int("total_cards", session.TotalCards))
	shared.RespondWithJSON(w, r, http.StatusOK, session)
}

// SubmitReview handles POST /study/review.
func (h *StudyHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	cardID, err := uuid.Parse(req.CardID)
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("card_id", "has invalid format", domain.ErrInvalidID), "")
		return
	}

	review, err := h.studyService.SubmitReview(r.Context(), userID, cardID, domain.ReviewOutcome(req.Outcome))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to submit review")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, reviewToResponse(review))
}

// GetStatistics handles GET /study/statistics?period.
func (h *StudyHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	period := domain.StudyPeriod(r.URL.Query().Get("period"))
	stats, err := h.studyService.GetStudyStatistics(r.Context(), userID, period)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load study statistics")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetCardHistory handles GET /study/cards/{card_id}/history?limit.
func (h *StudyHandler) GetCardHistory(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "card_id", log)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit", 1)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	history, err := h.studyService.GetCardHistory(r.Context(), userID, cardID, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load card history")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, history)
}
