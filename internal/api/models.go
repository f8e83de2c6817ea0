package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/service"
)

// SubmitReviewRequest is the body of POST /study/review.
type SubmitReviewRequest struct {
	CardID  string `json:"card_id" validate:"required,uuid"`
	Outcome string `json:"outcome" validate:"required,oneof=correct incorrect skipped"`
}

// ReviewResponse is a recorded review without its owner.
type ReviewResponse struct {
	ID             uuid.UUID            `json:"id"`
	CardID         uuid.UUID            `json:"card_id"`
	Outcome        domain.ReviewOutcome `json:"outcome"`
	PreviousWeight float64              `json:"previous_weight"`
	NewWeight      float64              `json:"new_weight"`
	ReviewedAt     time.Time            `json:"reviewed_at"`
}

// CreateCardRequest is the body of POST /flashcards.
type CreateCardRequest struct {
	Front  string   `json:"front" validate:"required,max=2000"`
	Back   string   `json:"back" validate:"required,max=2000"`
	Tags   []string `json:"tags" validate:"omitempty,max=50"`
	Status string   `json:"status" validate:"omitempty,oneof=review active archived"`
}

// UpdateCardRequest is the body of PATCH /flashcards/{id}. Omitted fields
// are left unchanged; an empty tags array clears the tags.
type UpdateCardRequest struct {
	Front  *string  `json:"front" validate:"omitempty,min=1,max=2000"`
	Back   *string  `json:"back" validate:"omitempty,min=1,max=2000"`
	Tags   []string `json:"tags" validate:"omitempty,max=50"`
	Status *string  `json:"status" validate:"omitempty,oneof=review active archived"`
}

// BulkDeleteRequest is the body of POST /flashcards/bulk-delete.
type BulkDeleteRequest struct {
	FlashcardIDs []string `json:"flashcard_ids" validate:"required,min=1,dive,uuid"`
}

// GenerateRequest is the body of POST /ai/generate. Text length and target
// count are checked by the generation service.
type GenerateRequest struct {
	Text        string `json:"text" validate:"required"`
	TargetCount int    `json:"target_count"`
}

// AcceptedCard is one suggestion the user chose to keep, possibly edited.
type AcceptedCard struct {
	Front  string   `json:"front" validate:"required,max=2000"`
	Back   string   `json:"back" validate:"required,max=2000"`
	Tags   []string `json:"tags" validate:"omitempty,max=50"`
	Status string   `json:"status" validate:"omitempty,oneof=review active archived"`
}

// AcceptRequest is the body of POST /ai/accept.
type AcceptRequest struct {
	Cards []AcceptedCard `json:"cards" validate:"required,min=1,max=50,dive"`
}

// CardResponse is a card as returned to its owner.
type CardResponse struct {
	ID          uuid.UUID         `json:"id"`
	Front       string            `json:"front"`
	Back        string            `json:"back"`
	Tags        []string          `json:"tags"`
	Status      domain.CardStatus `json:"status"`
	Source      domain.CardSource `json:"source"`
	StudyWeight float64           `json:"study_weight"`
	DeletedAt   *time.Time        `json:"deleted_at,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// CardListResponse is one page of cards.
type CardListResponse struct {
	Data       []CardResponse     `json:"data"`
	Pagination service.Pagination `json:"pagination"`
}

// AcceptResponse lists the cards created from accepted suggestions.
type AcceptResponse struct {
	CreatedCards []CardResponse `json:"created_cards"`
	TotalCreated int            `json:"total_created"`
}

func reviewToResponse(r *domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:             r.ID,
		CardID:         r.CardID,
		Outcome:        r.Outcome,
		PreviousWeight: r.PreviousWeight,
		NewWeight:      r.NewWeight,
		ReviewedAt:     r.ReviewedAt,
	}
}

func cardToResponse(c *domain.Card) CardResponse {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return CardResponse{
		ID:          c.ID,
		Front:       c.Front,
		Back:        c.Back,
		Tags:        tags,
		Status:      c.Status,
		Source:      c.Source,
		StudyWeight: c.StudyWeight,
		DeletedAt:   c.DeletedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func cardsToResponse(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, cardToResponse(c))
	}
	return out
}
