package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/api/shared"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/lingocards/lingo-api/internal/service"
	"github.com/lingocards/lingo-api/internal/store"
)

// CardHandler handles flashcard management requests
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}
	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// ListCards handles GET /flashcards.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	query, err := parseListQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	page, err := h.cardService.List(r.Context(), userID, query)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list flashcards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, CardListResponse{
		Data:       cardsToResponse(page.Cards),
		Pagination: page.Pagination,
	})
}

func parseListQuery(r *http.Request) (service.ListQuery, error) {
	q := r.URL.Query()
	query := service.ListQuery{
		Status: domain.CardStatus(q.Get("status")),
		Source: domain.CardSource(q.Get("source")),
		Tags:   q.Get("tags"),
		Sort:   store.CardSortField(q.Get("sort")),
		Order:  q.Get("order"),
	}

	var err error
	if query.IncludeDeleted, err = queryBool(r, "include_deleted"); err != nil {
		return query, err
	}
	if query.Limit, err = queryInt(r, "limit", 1); err != nil {
		return query, err
	}
	if query.Offset, err = queryInt(r, "offset", 0); err != nil {
		return query, err
	}
	return query, nil
}

// GetCard handles GET /flashcards/{id}.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	card, err := h.cardService.Get(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get flashcard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// CreateCard handles POST /flashcards.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	var req CreateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := h.cardService.Create(r.Context(), userID, service.CardInput{
		Front:  req.Front,
		Back:   req.Back,
		Tags:   req.Tags,
		Status: domain.CardStatus(req.Status),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create flashcard")
		return
	}

	log.Debug("flashcard created", slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// UpdateCard handles PATCH /flashcards/{id}.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	var req UpdateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	edit := service.CardEdit{
		Front: req.Front,
		Back:  req.Back,
		Tags:  req.Tags,
	}
	if req.Status != nil {
		status := domain.CardStatus(*req.Status)
		edit.Status = &status
	}

	card, err := h.cardService.Update(r.Context(), userID, cardID, edit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update flashcard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /flashcards/{id}.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	result, err := h.cardService.Delete(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete flashcard")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// RestoreCard handles POST /flashcards/{id}/restore.
func (h *CardHandler) RestoreCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	result, err := h.cardService.Restore(r.Context(), userID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to restore flashcard")
		return
	}

	switch result.Status {
	case service.RestoreStatusRestored:
		shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(result.Card))
	case service.RestoreStatusNotDeleted:
		shared.RespondWithError(w, r, http.StatusNotFound, "Flashcard is not deleted")
	case service.RestoreStatusPermanentlyDeleted:
		shared.RespondWithError(w, r, http.StatusGone,
			"Flashcard permanently deleted (past 30-day retention window)")
	default:
		shared.RespondWithError(w, r, http.StatusNotFound, "Card not found")
	}
}

// BulkDeleteCards handles POST /flashcards/bulk-delete.
func (h *CardHandler) BulkDeleteCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	var req BulkDeleteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	ids := make([]uuid.UUID, 0, len(req.FlashcardIDs))
	for _, raw := range req.FlashcardIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("flashcard_ids", "has invalid format", domain.ErrInvalidID), "")
			return
		}
		ids = append(ids, id)
	}

	result, err := h.cardService.BulkDelete(r.Context(), userID, ids)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete flashcards")
		return
	}

	log.Debug("flashcards bulk deleted",
		slog.Int("requested", len(ids)),
		slog.Int("deleted", result.DeletedCount))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// ExportCards handles GET /flashcards/export?format&status. CSV is sent as
// a dated attachment.
func (h *CardHandler) ExportCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	q := r.URL.Query()
	export, err := h.cardService.Export(r.Context(), userID, service.ExportQuery{
		Format: service.ExportFormat(q.Get("format")),
		Status: domain.CardStatus(q.Get("status")),
	})
	if err != nil {
		HandleAPIError(w, r, err, "Failed to export flashcards")
		return
	}

	if export.Format == service.ExportFormatJSON {
		shared.RespondWithJSON(w, r, http.StatusOK, export)
		return
	}

	filename := fmt.Sprintf("flashcards-export-%s.csv", export.ExportedAt.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w); err != nil {
		// Headers are already sent; the client sees a truncated body.
		log.Error("failed to write CSV export", slog.String("error", err.Error()))
	}
}
