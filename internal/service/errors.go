package service

import (
	"errors"

	"github.com/lingocards/lingo-api/internal/domain"
)

// Card service sentinel errors. Callers check them with errors.Is; the API
// layer maps them to status codes.
var (
	// ErrCardNotFound indicates the card does not exist, is not owned by the
	// caller, or is not in a state the operation accepts (e.g. already deleted).
	// API layer should map this to HTTP 404 Not Found.
	ErrCardNotFound = errors.New("card not found")

	// ErrEmptyEdit is returned when an update names no field to change.
	ErrEmptyEdit = domain.NewValidationError("update", "must set at least one field", domain.ErrValidation)

	// ErrInvalidLimit is returned when a page size is outside 1..MaxListLimit.
	ErrInvalidLimit = domain.NewValidationError("limit", "must be between 1 and 100", domain.ErrValidation)

	// ErrInvalidOffset is returned for a negative page offset.
	ErrInvalidOffset = domain.NewValidationError("offset", "must not be negative", domain.ErrValidation)

	// ErrInvalidSort is returned for an unknown sort field or order.
	ErrInvalidSort = domain.NewValidationError("sort", "must be created_at or updated_at, asc or desc", domain.ErrValidation)

	// ErrInvalidExportFormat is returned when the export format is not csv or json.
	ErrInvalidExportFormat = domain.NewValidationError("format", "must be csv or json", domain.ErrValidation)

	// ErrNoCards is returned when a bulk operation receives an empty set.
	ErrNoCards = domain.NewValidationError("cards", "must not be empty", domain.ErrValidation)

	// ErrTooManyCards is returned when more than MaxAcceptedSuggestions cards are accepted at once.
	ErrTooManyCards = domain.NewValidationError("cards", "must contain at most 50 entries", domain.ErrValidation)
)
