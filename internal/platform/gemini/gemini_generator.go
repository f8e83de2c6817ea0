package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lingocards/lingo-api/internal/config"
	"github.com/lingocards/lingo-api/internal/generation"
	"google.golang.org/genai"
)

// DefaultModel is used when the configuration names no model.
const DefaultModel = "gemini-2.0-flash"

// contentGenerator is the part of *genai.Models the generator uses.
type contentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger *slog.Logger
	models contentGenerator
	model  string
	temp   float32
	policy generation.RetryPolicy
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a GeminiGenerator from the LLM configuration.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return newGenerator(logger, client.Models, cfg), nil
}

func newGenerator(logger *slog.Logger, models contentGenerator, cfg config.LLMConfig) *GeminiGenerator {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{
		logger: logger.With(slog.String("component", "gemini_generator")),
		models: models,
		model:  model,
		temp:   float32(cfg.Temperature),
		policy: generation.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
		},
	}
}

// GenerateSuggestions implements generation.Generator.
func (g *GeminiGenerator) GenerateSuggestions(
	ctx context.Context,
	text string,
	count int,
) ([]generation.Suggestion, error) {
	prompt, err := generation.BuildPrompt(text, count)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	genConfig := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: generation.SystemPrompt}}},
		Temperature:       genai.Ptr(g.temp),
		ResponseMIMEType:  "application/json",
	}

	var suggestions []generation.Suggestion
	err = generation.Retry(ctx, g.logger, g.policy, func(ctx context.Context) error {
		g.logger.InfoContext(ctx, "making Gemini API call", "model", g.model)

		resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), genConfig)
		if err != nil {
			// API and network errors are assumed transient.
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}

		raw, err := responseText(resp)
		if err != nil {
			return err
		}

		suggestions, err = generation.ParseSuggestions(raw, count)
		return err
	})
	if err != nil {
		return nil, err
	}
	return suggestions, nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	switch {
	case resp == nil:
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	case resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "":
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	case len(resp.Candidates) == 0:
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
