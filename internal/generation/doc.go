// Package generation turns study material into flashcard suggestions using an
// external LLM. It owns the provider-neutral parts of that flow: the Generator
// interface, the fixed prompt, parsing of the model's JSON answer, retry with
// backoff, and input validation in Service. Provider adapters live under
// internal/platform (gemini and openrouter).
//
// Suggestions are never persisted here; accepted suggestions are saved through
// the card service.
package generation
