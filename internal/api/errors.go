package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lingocards/lingo-api/internal/api/shared"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/generation"
	"github.com/lingocards/lingo-api/internal/service"
	"github.com/lingocards/lingo-api/internal/service/auth"
	"github.com/lingocards/lingo-api/internal/service/study"
	"github.com/lingocards/lingo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusOK

	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidSubject),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, study.ErrCardNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, study.ErrNoCardsAvailable):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, shared.ErrInvalidJSON),
		errors.As(err, &validationErrs),
		domain.IsValidationError(err),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Language model errors
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity
	case errors.Is(err, generation.ErrNotConfigured),
		errors.Is(err, generation.ErrTransientFailure):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		validationErrs validator.ValidationErrors
		fieldErr       *domain.ValidationError
	)

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidSubject):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"

	// Not found errors
	case errors.Is(err, study.ErrNoCardsAvailable):
		return "No cards available for study with the specified filters"
	case errors.Is(err, study.ErrCardNotFound),
		errors.Is(err, service.ErrCardNotFound),
		errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	// Bad request errors
	case errors.Is(err, shared.ErrInvalidJSON):
		return "Invalid request body"
	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.As(err, &fieldErr):
		return fieldErr.Error()
	case errors.Is(err, study.ErrInvalidCardCount):
		return fmt.Sprintf("card_count must be between 1 and %d", study.MaxCardCount)
	case errors.Is(err, study.ErrInvalidLimit):
		return fmt.Sprintf("limit must be between 1 and %d", study.MaxHistoryLimit)
	case errors.Is(err, domain.ErrInvalidOutcome):
		return "outcome must be one of correct, incorrect, skipped"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "status must be one of review, active, archived"
	case errors.Is(err, domain.ErrInvalidSource):
		return "source must be one of manual, ai"
	case errors.Is(err, domain.ErrInvalidPeriod):
		return "period must be one of day, week, month, all"
	case errors.Is(err, domain.ErrCardFrontInvalid):
		return domain.ErrCardFrontInvalid.Error()
	case errors.Is(err, domain.ErrCardBackInvalid):
		return domain.ErrCardBackInvalid.Error()
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"
	case domain.IsValidationError(err),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation error"

	// Language model errors
	case errors.Is(err, generation.ErrNotConfigured):
		return "AI service is not configured"
	case errors.Is(err, generation.ErrContentBlocked):
		return "The text was rejected by the AI provider's content filters"
	case errors.Is(err, generation.ErrTransientFailure):
		return "AI service is temporarily unavailable, please try again later"
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrGenerationFailed):
		return "AI service returned an unusable response"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns the first struct validation failure into a
// message naming the JSON field and the broken rule.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag(), fe.Param()))
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "required field"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "oneof":
		return "must be one of " + param
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic message for unexpected server errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
