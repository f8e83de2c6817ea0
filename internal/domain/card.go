package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardFrontInvalid is returned when the front text is empty or too long.
	ErrCardFrontInvalid = errors.New("card front must be between 1 and 2000 characters")

	// ErrCardBackInvalid is returned when the back text is empty or too long.
	ErrCardBackInvalid = errors.New("card back must be between 1 and 2000 characters")

	// ErrCardWeightInvalid is returned when a study weight is not positive.
	ErrCardWeightInvalid = errors.New("card study weight must be positive")
)

const (
	// MaxCardTextLength is the maximum number of characters on either side of a card.
	MaxCardTextLength = 2000

	// DefaultStudyWeight is the weight every new card starts with.
	DefaultStudyWeight = 1.0

	// MinStudyWeight and MaxStudyWeight bound the study weight of every card.
	MinStudyWeight = 0.5
	MaxStudyWeight = 5.0

	// RestoreWindow is how long a soft-deleted card can still be restored.
	RestoreWindow = 30 * 24 * time.Hour
)

// CardStatus is the lifecycle status of a card.
type CardStatus string

const (
	CardStatusReview   CardStatus = "review"
	CardStatusActive   CardStatus = "active"
	CardStatusArchived CardStatus = "archived"
)

// IsValid reports whether s is a known status.
func (s CardStatus) IsValid() bool {
	switch s {
	case CardStatusReview, CardStatusActive, CardStatusArchived:
		return true
	default:
		return false
	}
}

// CardSource records how a card was authored.
type CardSource string

const (
	CardSourceManual CardSource = "manual"
	CardSourceAI     CardSource = "ai"
)

// IsValid reports whether s is a known source.
func (s CardSource) IsValid() bool {
	return s == CardSourceManual || s == CardSourceAI
}

// Card is a single flashcard owned by a user.
//
// StudyWeight is the card's priority for study sessions: higher weights are
// drawn more often. It only changes as the result of a review and always stays
// within [MinStudyWeight, MaxStudyWeight]. Edits to the card's text, tags or
// status never touch it.
type Card struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Front       string     `json:"front"`
	Back        string     `json:"back"`
	Tags        []string   `json:"tags"`
	Status      CardStatus `json:"status"`
	Source      CardSource `json:"source"`
	StudyWeight float64    `json:"study_weight"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewCard creates a new active-or-given-status card with the default study weight.
// An empty status defaults to active and an empty source to manual.
func NewCard(
	userID uuid.UUID,
	front, back string,
	tags []string,
	status CardStatus,
	source CardSource,
) (*Card, error) {
	if status == "" {
		status = CardStatusActive
	}
	if source == "" {
		source = CardSourceManual
	}

	now := time.Now().UTC()
	card := &Card{
		ID:          uuid.New(),
		UserID:      userID,
		Front:       front,
		Back:        back,
		Tags:        NormalizeTags(tags),
		Status:      status,
		Source:      source,
		StudyWeight: DefaultStudyWeight,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}
	if !validCardText(c.Front) {
		return ErrCardFrontInvalid
	}
	if !validCardText(c.Back) {
		return ErrCardBackInvalid
	}
	if !c.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !c.Source.IsValid() {
		return ErrInvalidSource
	}
	if c.StudyWeight <= 0 {
		return ErrCardWeightInvalid
	}
	return nil
}

// IsDeleted reports whether the card has been soft-deleted.
func (c *Card) IsDeleted() bool {
	return c.DeletedAt != nil
}

// CanRestore reports whether a soft-deleted card is still inside the restore window at now.
func (c *Card) CanRestore(now time.Time) bool {
	return c.DeletedAt != nil && now.Sub(*c.DeletedAt) <= RestoreWindow
}

// ApplyEdit updates the editable fields that are non-nil and bumps UpdatedAt.
// The study weight is left untouched. On validation failure the card is unchanged.
func (c *Card) ApplyEdit(front, back *string, tags []string, status *CardStatus) error {
	edited := *c
	if front != nil {
		edited.Front = *front
	}
	if back != nil {
		edited.Back = *back
	}
	if tags != nil {
		edited.Tags = NormalizeTags(tags)
	}
	if status != nil {
		edited.Status = *status
	}
	if err := edited.Validate(); err != nil {
		return err
	}

	edited.UpdatedAt = time.Now().UTC()
	*c = edited
	return nil
}

// ParseTagList splits a comma-separated tag list, trimming whitespace and
// dropping empty entries.
func ParseTagList(raw string) []string {
	if raw == "" {
		return nil
	}
	return NormalizeTags(strings.Split(raw, ","))
}

// NormalizeTags trims each tag and drops empties. It never returns nil so
// stored cards always carry an empty tag set rather than NULL.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

func validCardText(s string) bool {
	n := utf8.RuneCountInString(s)
	return strings.TrimSpace(s) != "" && n <= MaxCardTextLength
}
