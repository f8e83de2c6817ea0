package study

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/lingocards/lingo-api/internal/store"
)

// normalize fills defaults and validates the filters.
func (f SessionFilters) normalize() (SessionFilters, error) {
	if f.CardCount == 0 {
		f.CardCount = DefaultCardCount
	}
	if f.CardCount < 1 || f.CardCount > MaxCardCount {
		return f, ErrInvalidCardCount
	}
	if f.Status == "" {
		f.Status = domain.CardStatusActive
	}
	if !f.Status.IsValid() {
		return f, ErrInvalidStatus
	}
	return f, nil
}

// candidatePoolSize over-fetches so the sampler has room to prefer heavy cards.
func candidatePoolSize(count int) int {
	return min(2*count, MaxCandidatePool)
}

// SelectStudyCards implements Service.SelectStudyCards.
func (s *studyServiceImpl) SelectStudyCards(
	ctx context.Context,
	userID uuid.UUID,
	filters SessionFilters,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	filters, err := filters.normalize()
	if err != nil {
		return nil, err
	}

	query := store.CandidateQuery{
		Status: filters.Status,
		Tags:   domain.ParseTagList(filters.Tags),
		Limit:  candidatePoolSize(filters.CardCount),
	}
	pool, err := s.cards.FindStudyCandidates(ctx, userID, query)
	if err != nil {
		log.Error("failed to load study candidates",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("select_study_cards", "failed to load candidates", err)
	}

	if len(pool) <= filters.CardCount {
		log.Debug("candidate pool within session size, skipping sampling",
			slog.String("user_id", userID.String()),
			slog.Int("pool", len(pool)))
		return pool, nil
	}

	selected := s.sampler.Sample(pool, filters.CardCount)
	log.Debug("sampled study cards",
		slog.String("user_id", userID.String()),
		slog.Int("pool", len(pool)),
		slog.Int("selected", len(selected)))
	return selected, nil
}

// StartSession implements Service.StartSession.
func (s *studyServiceImpl) StartSession(
	ctx context.Context,
	userID uuid.UUID,
	filters SessionFilters,
) (*domain.StudySession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.SelectStudyCards(ctx, userID, filters)
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		log.Debug("no cards available for session", slog.String("user_id", userID.String()))
		return nil, ErrNoCardsAvailable
	}

	session := domain.NewStudySession(cards, s.now())
	log.Info("study session started",
		slog.String("user_id", userID.String()),
		slog.String("session_id", session.ID.String()),
		slog.Int("cards", session.TotalCards))
	return session, nil
}
