// Package gemini provides an implementation of the generation.Generator interface
// that uses Google's Gemini API for generating flashcard suggestions from text.
//
// This package is an infrastructure adapter: it turns the shared prompt into a
// GenerateContent call, maps the API's failure modes onto the generation
// package's errors, and retries transient failures with exponential backoff.
//
// The package depends on the google.golang.org/genai client library.
package gemini
