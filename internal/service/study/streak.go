package study

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/platform/logger"
)

type day struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, loc *time.Location) day {
	y, m, d := t.In(loc).Date()
	return day{y, m, d}
}

func (d day) previous(loc *time.Location) day {
	return dayOf(time.Date(d.year, d.month, d.day, 12, 0, 0, 0, loc).AddDate(0, 0, -1), loc)
}

// streakDays counts consecutive calendar days with at least one review,
// anchored on today or, failing that, yesterday.
func streakDays(stamps []time.Time, now time.Time, loc *time.Location) int {
	if len(stamps) == 0 {
		return 0
	}

	active := make(map[day]struct{}, len(stamps))
	for _, ts := range stamps {
		active[dayOf(ts, loc)] = struct{}{}
	}

	cursor := dayOf(now, loc)
	if _, ok := active[cursor]; !ok {
		cursor = cursor.previous(loc)
		if _, ok := active[cursor]; !ok {
			return 0
		}
	}

	streak := 0
	for {
		if _, ok := active[cursor]; !ok {
			return streak
		}
		streak++
		cursor = cursor.previous(loc)
	}
}

// CalculateStudyStreak implements Service.CalculateStudyStreak.
func (s *studyServiceImpl) CalculateStudyStreak(ctx context.Context, userID uuid.UUID) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stamps, err := s.reviews.ListTimestamps(ctx, userID)
	if err != nil {
		log.Error("failed to load review timestamps",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, NewServiceError("calculate_streak", "failed to load reviews", err)
	}
	return streakDays(stamps, s.now(), s.location), nil
}
