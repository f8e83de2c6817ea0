package auth

import "errors"

// Token validation failures. The API layer maps all of them to 401.
var (
	// ErrInvalidToken covers malformed tokens, bad signatures, unexpected
	// signing methods and issuer mismatches.
	ErrInvalidToken = errors.New("invalid authentication token")

	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid is returned when nbf is in the future beyond the
	// allowed clock skew.
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrInvalidSubject means sub is missing or not a user UUID.
	ErrInvalidSubject = errors.New("authentication token subject is not a user id")

	// ErrMissingToken is returned when a request reaches a protected handler
	// without an authenticated user.
	ErrMissingToken = errors.New("authentication token is missing")
)
