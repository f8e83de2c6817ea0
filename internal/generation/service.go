package generation

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/lithammer/shortuuid/v4"
)

const (
	MinTextLength      = 50
	MaxTextLength      = 10000
	DefaultTargetCount = 10
	MaxTargetCount     = 20
)

// Result is one generation run. Nothing about it is stored.
type Result struct {
	GenerationID   string       `json:"generation_id"`
	Suggestions    []Suggestion `json:"suggestions"`
	InputLength    int          `json:"input_length"`
	CardsGenerated int          `json:"cards_generated"`
	Timestamp      time.Time    `json:"timestamp"`
}

// Service validates generation requests and delegates to a Generator.
type Service struct {
	generator Generator
	now       func() time.Time
	logger    *slog.Logger
}

// NewService creates a Service. A nil generator behaves like Disabled.
func NewService(generator Generator, logger *slog.Logger) *Service {
	if generator == nil {
		generator = Disabled{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		generator: generator,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "generation_service")),
	}
}

// Generate proposes up to count flashcards for text. A zero count means
// DefaultTargetCount.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, text string, count int) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	text = strings.TrimSpace(text)
	n := utf8.RuneCountInString(text)
	if n < MinTextLength || n > MaxTextLength {
		return nil, ErrInvalidText
	}
	if count == 0 {
		count = DefaultTargetCount
	}
	if count < 1 || count > MaxTargetCount {
		return nil, ErrInvalidCount
	}

	start := s.now()
	suggestions, err := s.generator.GenerateSuggestions(ctx, text, count)
	if err != nil {
		log.Error("suggestion generation failed",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.Int("input_length", n))
		return nil, err
	}
	if len(suggestions) > count {
		suggestions = suggestions[:count]
	}

	log.Info("suggestions generated",
		slog.String("user_id", userID.String()),
		slog.Int("input_length", n),
		slog.Int("requested", count),
		slog.Int("generated", len(suggestions)),
		slog.Duration("duration", s.now().Sub(start)))

	return &Result{
		GenerationID:   shortuuid.New(),
		Suggestions:    suggestions,
		InputLength:    n,
		CardsGenerated: len(suggestions),
		Timestamp:      s.now().UTC(),
	}, nil
}
