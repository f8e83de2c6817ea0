package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lingocards/lingo-api/internal/api/shared"
	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lingocards/lingo-api/internal/service/auth"
)

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handleUserID extracts the authenticated user or writes a 401.
func handleUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := shared.UserIDFromContext(r.Context())
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, auth.ErrMissingToken, "")
		return uuid.Nil, false
	}
	return userID, true
}

// handleUserIDAndPathUUID is a composite helper that extracts both the user ID from context
// and a UUID from the path parameters. It writes an error response if either extraction fails.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := handleUserID(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter", slog.String("param_name", paramName))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, pathID, true
}

// queryInt parses an optional integer query parameter. A missing or empty
// parameter yields 0. Present values must be at least min.
func queryInt(r *http.Request, name string, min int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", domain.ErrValidation)
	}
	if v < min {
		return 0, domain.NewValidationError(name, "must be at least "+strconv.Itoa(min), domain.ErrValidation)
	}
	return v, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, domain.NewValidationError(name, "must be true or false", domain.ErrValidation)
	}
	return v, nil
}

// decodeAndValidate reads a JSON body into v and validates it, writing a
// 400 on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(w, r, v); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		HandleAPIError(w, r, err, "")
		return false
	}
	return true
}
