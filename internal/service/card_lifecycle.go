package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/lingocards/lingo-api/internal/store"
)

// Delete implements CardService.Delete
func (s *cardServiceImpl) Delete(ctx context.Context, userID, cardID uuid.UUID) (*DeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deletedAt := s.now().UTC()
	deleted, err := s.cards.SoftDelete(ctx, userID, []uuid.UUID{cardID}, deletedAt)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, NewCardServiceError("delete_card", "failed to delete card", err)
	}
	if len(deleted) == 0 {
		return nil, ErrCardNotFound
	}

	log.Info("card deleted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()))
	return &DeleteResult{ID: cardID, DeletedAt: deletedAt}, nil
}

// Restore implements CardService.Restore
func (s *cardServiceImpl) Restore(ctx context.Context, userID, cardID uuid.UUID) (*RestoreResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result RestoreResult
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)

		card, err := cards.GetByID(ctx, userID, cardID)
		if err != nil {
			if store.IsNotFoundError(err) {
				result.Status = RestoreStatusNotFound
				return nil
			}
			return NewCardServiceError("restore_card", "failed to load card", err)
		}

		now := s.now().UTC()
		switch {
		case !card.IsDeleted():
			result.Status = RestoreStatusNotDeleted
			return nil
		case !card.CanRestore(now):
			result.Status = RestoreStatusPermanentlyDeleted
			return nil
		}

		if err := cards.Restore(ctx, userID, cardID, now); err != nil {
			return NewCardServiceError("restore_card", "failed to restore card", err)
		}
		card.DeletedAt = nil
		card.UpdatedAt = now

		result = RestoreResult{Status: RestoreStatusRestored, Card: card}
		return nil
	})
	if err != nil {
		log.Error("failed to restore card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, err
	}

	log.Info("card restore attempted",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("status", string(result.Status)))
	return &result, nil
}

// BulkDelete implements CardService.BulkDelete
func (s *cardServiceImpl) BulkDelete(
	ctx context.Context,
	userID uuid.UUID,
	cardIDs []uuid.UUID,
) (*BulkDeleteResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cardIDs) == 0 {
		return nil, ErrNoCards
	}

	deleted, err := s.cards.SoftDelete(ctx, userID, cardIDs, s.now().UTC())
	if err != nil {
		log.Error("failed to bulk delete cards",
			slog.String("error", err.Error()),
			slog.Int("requested", len(cardIDs)))
		return nil, NewCardServiceError("bulk_delete", "failed to delete cards", err)
	}

	log.Info("cards deleted",
		slog.String("user_id", userID.String()),
		slog.Int("requested", len(cardIDs)),
		slog.Int("deleted", len(deleted)))
	return &BulkDeleteResult{DeletedCount: len(deleted), DeletedIDs: deleted}, nil
}

// AcceptSuggestions implements CardService.AcceptSuggestions
func (s *cardServiceImpl) AcceptSuggestions(
	ctx context.Context,
	userID uuid.UUID,
	inputs []CardInput,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	switch {
	case len(inputs) == 0:
		return nil, ErrNoCards
	case len(inputs) > MaxAcceptedSuggestions:
		return nil, ErrTooManyCards
	}

	cards := make([]*domain.Card, 0, len(inputs))
	for i, in := range inputs {
		card, err := domain.NewCard(userID, in.Front, in.Back, in.Tags, in.Status, domain.CardSourceAI)
		if err != nil {
			log.Debug("rejected suggestion",
				slog.Int("index", i),
				slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, card)
	}

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.cards.WithTx(tx).CreateMultiple(ctx, cards); err != nil {
			return NewCardServiceError("accept_suggestions", "failed to save cards", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to accept suggestions",
			slog.String("error", err.Error()),
			slog.Int("card_count", len(cards)))
		return nil, err
	}

	log.Info("suggestions accepted",
		slog.String("user_id", userID.String()),
		slog.Int("card_count", len(cards)))
	return cards, nil
}
