package study

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/lingocards/lingo-api/internal/store"
)

// SubmitReview implements Service.SubmitReview.
func (s *studyServiceImpl) SubmitReview(
	ctx context.Context,
	userID, cardID uuid.UUID,
	outcome domain.ReviewOutcome,
) (*domain.Review, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !outcome.IsValid() {
		log.Warn("invalid review outcome",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.String("outcome", string(outcome)))
		return nil, ErrInvalidOutcome
	}

	var review *domain.Review
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)
		reviews := s.reviews.WithTx(tx)

		card, err := cards.GetForUpdate(ctx, userID, cardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return NewServiceError("submit_review", "failed to load card", err)
		}

		newWeight, err := s.weights.NextWeight(card.StudyWeight, outcome)
		if err != nil {
			return err
		}

		reviewedAt := s.now().UTC()
		review, err = domain.NewReview(userID, cardID, outcome, card.StudyWeight, newWeight, reviewedAt)
		if err != nil {
			return err
		}

		if err := reviews.Create(ctx, review); err != nil {
			return NewServiceError("submit_review", "failed to record review", err)
		}

		if err := cards.UpdateWeight(ctx, userID, cardID, newWeight, reviewedAt); err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return NewServiceError("submit_review", "failed to update study weight", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) {
			log.Debug("card not found for review",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
		} else {
			log.Error("failed to submit review",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
		}
		return nil, err
	}

	log.Info("review submitted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("outcome", string(outcome)),
		slog.Float64("previous_weight", review.PreviousWeight),
		slog.Float64("new_weight", review.NewWeight))
	return review, nil
}
