package domain

import (
	"time"

	"github.com/google/uuid"
)

// StudySession is a point-in-time selection of cards to study. It is
// materialized once and never stored.
type StudySession struct {
	ID         uuid.UUID     `json:"session_id"`
	Cards      []SessionCard `json:"cards"`
	TotalCards int           `json:"total_cards"`
	StartedAt  time.Time     `json:"started_at"`
}

// SessionCard is the study view of a card. The back is withheld until the
// user reveals it on the client.
type SessionCard struct {
	ID            uuid.UUID `json:"id"`
	Front         string    `json:"front"`
	Tags          []string  `json:"tags"`
	CurrentWeight float64   `json:"current_weight"`
}

// NewStudySession builds a session from the selected cards.
func NewStudySession(cards []*Card, startedAt time.Time) *StudySession {
	sessionCards := make([]SessionCard, 0, len(cards))
	for _, c := range cards {
		sessionCards = append(sessionCards, SessionCard{
			ID:            c.ID,
			Front:         c.Front,
			Tags:          c.Tags,
			CurrentWeight: c.StudyWeight,
		})
	}
	return &StudySession{
		ID:         uuid.New(),
		Cards:      sessionCards,
		TotalCards: len(sessionCards),
		StartedAt:  startedAt.UTC(),
	}
}

// StudyPeriod selects the time window for statistics.
type StudyPeriod string

const (
	StudyPeriodDay   StudyPeriod = "day"
	StudyPeriodWeek  StudyPeriod = "week"
	StudyPeriodMonth StudyPeriod = "month"
	StudyPeriodAll   StudyPeriod = "all"
)

// IsValid reports whether p is a known period.
func (p StudyPeriod) IsValid() bool {
	switch p {
	case StudyPeriodDay, StudyPeriodWeek, StudyPeriodMonth, StudyPeriodAll:
		return true
	default:
		return false
	}
}

// Since returns the lower bound of the period relative to now, or nil for all time.
func (p StudyPeriod) Since(now time.Time) *time.Time {
	var since time.Time
	switch p {
	case StudyPeriodDay:
		since = now.Add(-24 * time.Hour)
	case StudyPeriodWeek:
		since = now.Add(-7 * 24 * time.Hour)
	case StudyPeriodMonth:
		since = now.Add(-30 * 24 * time.Hour)
	default:
		return nil
	}
	return &since
}

// StudyStatistics summarizes a user's reviews over a period.
type StudyStatistics struct {
	Period           StudyPeriod `json:"period"`
	TotalReviews     int         `json:"total_reviews"`
	CorrectReviews   int         `json:"correct_reviews"`
	IncorrectReviews int         `json:"incorrect_reviews"`
	SkippedReviews   int         `json:"skipped_reviews"`
	AccuracyRate     float64     `json:"accuracy_rate"`
	CardsStudied     int         `json:"cards_studied"`
	AverageWeight    float64     `json:"average_weight"`
	StudyStreakDays  int         `json:"study_streak_days"`
	LastStudySession *time.Time  `json:"last_study_session"`
}

// ReviewCounts tallies reviews by outcome.
type ReviewCounts struct {
	Total     int
	Correct   int
	Incorrect int
	Skipped   int
}

// Add records one outcome.
func (c *ReviewCounts) Add(outcome ReviewOutcome) {
	c.Total++
	switch outcome {
	case ReviewOutcomeCorrect:
		c.Correct++
	case ReviewOutcomeIncorrect:
		c.Incorrect++
	case ReviewOutcomeSkipped:
		c.Skipped++
	}
}

// CardHistory is the review history of a single card.
type CardHistory struct {
	CardID           uuid.UUID       `json:"card_id"`
	Reviews          []ReviewSummary `json:"reviews"`
	TotalReviews     int             `json:"total_reviews"`
	CorrectReviews   int             `json:"correct_reviews"`
	IncorrectReviews int             `json:"incorrect_reviews"`
	AccuracyRate     float64         `json:"accuracy_rate"`
}

// ReviewSummary is a review without its owner.
type ReviewSummary struct {
	ID             uuid.UUID     `json:"id"`
	Outcome        ReviewOutcome `json:"outcome"`
	PreviousWeight float64       `json:"previous_weight"`
	NewWeight      float64       `json:"new_weight"`
	ReviewedAt     time.Time     `json:"reviewed_at"`
}
