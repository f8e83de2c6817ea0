package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/api/shared"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/generation"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/lingocards/lingo-api/internal/service"
)

// SuggestionService proposes flashcards for a piece of text.
type SuggestionService interface {
	Generate(ctx context.Context, userID uuid.UUID, text string, count int) (*generation.Result, error)
}

// AIHandler serves AI card generation and acceptance.
type AIHandler struct {
	suggestions SuggestionService
	cardService service.CardService
	logger      *slog.Logger
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(suggestions SuggestionService, cardService service.CardService, logger *slog.Logger) *AIHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AIHandler")
	}
	return &AIHandler{
		suggestions: suggestions,
		cardService: cardService,
		logger:      logger.With(slog.String("component", "ai_handler")),
	}
}

// Generate handles POST /ai/generate. Suggestions are returned, not stored.
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	var req GenerateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.suggestions.Generate(r.Context(), userID, req.Text, req.TargetCount)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate flashcards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Accept handles POST /ai/accept, saving the chosen suggestions as AI cards.
func (h *AIHandler) Accept(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := handleUserID(w, r, log)
	if !ok {
		return
	}

	var req AcceptRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inputs := make([]service.CardInput, 0, len(req.Cards))
	for _, c := range req.Cards {
		inputs = append(inputs, service.CardInput{
			Front:  c.Front,
			Back:   c.Back,
			Tags:   c.Tags,
			Status: domain.CardStatus(c.Status),
		})
	}

	cards, err := h.cardService.AcceptSuggestions(r.Context(), userID, inputs)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create flashcards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AcceptResponse{
		CreatedCards: cardsToResponse(cards),
		TotalCreated: len(cards),
	})
}
