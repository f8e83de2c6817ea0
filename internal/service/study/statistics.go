package study

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"golang.org/x/sync/errgroup"
)

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// accuracyRate is the correct share of answered (non-skipped) reviews, as a
// percentage. It is 0 when nothing was answered.
func accuracyRate(c domain.ReviewCounts) float64 {
	answered := c.Total - c.Skipped
	if answered <= 0 {
		return 0
	}
	return round2(float64(c.Correct) / float64(answered) * 100)
}

func averageWeight(weights []float64) float64 {
	if len(weights) == 0 {
		return domain.DefaultStudyWeight
	}
	var sum float64
	for _, w := range weights {
		sum += w
	}
	return round2(sum / float64(len(weights)))
}

// GetStudyStatistics implements Service.GetStudyStatistics.
func (s *studyServiceImpl) GetStudyStatistics(
	ctx context.Context,
	userID uuid.UUID,
	period domain.StudyPeriod,
) (*domain.StudyStatistics, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if period == "" {
		period = domain.StudyPeriodAll
	}
	if !period.IsValid() {
		return nil, ErrInvalidPeriod
	}

	now := s.now()
	since := period.Since(now)

	var (
		reviews []*domain.Review
		weights []float64
		stamps  []time.Time
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reviews, err = s.reviews.ListByUser(gctx, userID, since)
		return err
	})
	g.Go(func() error {
		var err error
		weights, err = s.cards.ActiveWeights(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		stamps, err = s.reviews.ListTimestamps(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to load study statistics",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("period", string(period)))
		return nil, NewServiceError("get_statistics", "failed to load statistics", err)
	}

	var counts domain.ReviewCounts
	studied := make(map[uuid.UUID]struct{})
	var last *time.Time
	for _, r := range reviews {
		counts.Add(r.Outcome)
		studied[r.CardID] = struct{}{}
		if last == nil || r.ReviewedAt.After(*last) {
			t := r.ReviewedAt
			last = &t
		}
	}

	return &domain.StudyStatistics{
		Period:           period,
		TotalReviews:     counts.Total,
		CorrectReviews:   counts.Correct,
		IncorrectReviews: counts.Incorrect,
		SkippedReviews:   counts.Skipped,
		AccuracyRate:     accuracyRate(counts),
		CardsStudied:     len(studied),
		AverageWeight:    averageWeight(weights),
		StudyStreakDays:  streakDays(stamps, now, s.location),
		LastStudySession: last,
	}, nil
}
