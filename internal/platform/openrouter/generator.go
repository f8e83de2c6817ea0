// Package openrouter implements generation.Generator over OpenRouter's
// OpenAI-compatible chat completions API.
package openrouter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/lingocards/lingo-api/internal/config"
	"github.com/lingocards/lingo-api/internal/generation"
	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultBaseURL is OpenRouter's API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel is used when the configuration names no model.
	DefaultModel = "openai/gpt-4o-mini"
)

// Generator asks an OpenAI-compatible chat model for flashcard suggestions.
type Generator struct {
	client    *openai.Client
	model     string
	temp      float32
	maxTokens int
	policy    generation.RetryPolicy
	logger    *slog.Logger
}

var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Generator from the LLM configuration.
func NewGenerator(logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if cfg.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("%w: openrouter API key cannot be empty", generation.ErrInvalidConfig)
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := openai.DefaultConfig(cfg.OpenRouterAPIKey)
	clientConfig.BaseURL = DefaultBaseURL
	if cfg.OpenRouterBaseURL != "" {
		clientConfig.BaseURL = cfg.OpenRouterBaseURL
	}
	if cfg.TimeoutSeconds > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Generator{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     model,
		temp:      float32(cfg.Temperature),
		maxTokens: cfg.MaxTokens,
		policy: generation.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
		},
		logger: logger.With(slog.String("component", "openrouter_generator")),
	}, nil
}

// GenerateSuggestions implements generation.Generator.
func (g *Generator) GenerateSuggestions(
	ctx context.Context,
	text string,
	count int,
) ([]generation.Suggestion, error) {
	prompt, err := generation.BuildPrompt(text, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: generation.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temp,
		MaxTokens:   g.maxTokens,
	}

	var suggestions []generation.Suggestion
	err = generation.Retry(ctx, g.logger, g.policy, func(ctx context.Context) error {
		g.logger.InfoContext(ctx, "making OpenRouter API call", "model", g.model)

		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return classify(err)
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse)
		}

		choice := resp.Choices[0]
		if choice.FinishReason == openai.FinishReasonContentFilter {
			return fmt.Errorf("%w: content filtered", generation.ErrContentBlocked)
		}

		suggestions, err = generation.ParseSuggestions(choice.Message.Content, count)
		return err
	})
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}

// classify maps client errors onto the generation error set. Rate limits,
// server errors and transport failures are transient; other HTTP errors
// (bad key, bad model, bad request) are not.
func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	if status == 0 || status == http.StatusTooManyRequests || status >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}
	return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
}
