package study

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/lingocards/lingo-api/internal/store"
)

// GetCardHistory implements Service.GetCardHistory.
func (s *studyServiceImpl) GetCardHistory(
	ctx context.Context,
	userID, cardID uuid.UUID,
	limit int,
) (*domain.CardHistory, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 1 || limit > MaxHistoryLimit {
		return nil, ErrInvalidLimit
	}

	// Soft-deleted cards keep their history, so GetByID rather than a live lookup.
	if _, err := s.cards.GetByID(ctx, userID, cardID); err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			log.Debug("card not found for history",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, ErrCardNotFound
		}
		return nil, NewServiceError("get_card_history", "failed to load card", err)
	}

	reviews, err := s.reviews.ListByCard(ctx, userID, cardID, limit)
	if err != nil {
		log.Error("failed to load card reviews",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewServiceError("get_card_history", "failed to load reviews", err)
	}

	counts, err := s.reviews.CountByCard(ctx, userID, cardID)
	if err != nil {
		log.Error("failed to count card reviews",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewServiceError("get_card_history", "failed to count reviews", err)
	}

	summaries := make([]domain.ReviewSummary, 0, len(reviews))
	for _, r := range reviews {
		summaries = append(summaries, domain.ReviewSummary{
			ID:             r.ID,
			Outcome:        r.Outcome,
			PreviousWeight: r.PreviousWeight,
			NewWeight:      r.NewWeight,
			ReviewedAt:     r.ReviewedAt,
		})
	}

	return &domain.CardHistory{
		CardID:           cardID,
		Reviews:          summaries,
		TotalReviews:     counts.Total,
		CorrectReviews:   counts.Correct,
		IncorrectReviews: counts.Incorrect,
		AccuracyRate:     accuracyRate(counts),
	}, nil
}
