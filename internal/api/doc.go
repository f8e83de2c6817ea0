// Package api handles incoming HTTP requests, request validation and
// response formatting for the study, flashcard and AI endpoints. Handlers
// translate HTTP concerns into service calls and map service errors to
// status codes with MapErrorToStatusCode and GetSafeErrorMessage.
package api
