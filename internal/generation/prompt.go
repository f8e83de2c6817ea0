package generation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/lingocards/lingo-api/internal/domain"
	"github.com/lithammer/shortuuid/v4"
)

// SystemPrompt frames the model as a flashcard author and pins the output format.
const SystemPrompt = `You are a flashcard generation assistant. Generate high-quality flashcards ` +
	`from the provided text. Each flashcard should have a clear question (front) and a concise ` +
	`answer (back). Include relevant tags for categorization. Return your response as a JSON ` +
	`array of objects with "front", "back", and "tags" fields.`

var userPrompt = template.Must(template.New("suggestions").Parse(
	"Generate {{.Count}} flashcards from the following text:\n\n{{.Text}}\n\nReturn a JSON array of flashcard objects.",
))

type promptData struct {
	Count int
	Text  string
}

// BuildPrompt renders the user prompt for count suggestions over text.
func BuildPrompt(text string, count int) (string, error) {
	var buf bytes.Buffer
	if err := userPrompt.Execute(&buf, promptData{Count: count, Text: text}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

type rawCard struct {
	Front string   `json:"front"`
	Back  string   `json:"back"`
	Tags  []string `json:"tags"`
}

// ParseSuggestions decodes a model answer into at most limit suggestions.
// The answer may be a bare JSON array, an object with a "cards" or
// "flashcards" array, and may be wrapped in a markdown code fence. Entries
// with an empty or oversized side are dropped; an answer with no usable entry
// is an ErrInvalidResponse.
func ParseSuggestions(raw string, limit int) ([]Suggestion, error) {
	body := stripCodeFence(raw)

	var cards []rawCard
	if err := json.Unmarshal([]byte(body), &cards); err != nil {
		var wrapped struct {
			Cards      []rawCard `json:"cards"`
			Flashcards []rawCard `json:"flashcards"`
		}
		if err := json.Unmarshal([]byte(body), &wrapped); err != nil {
			return nil, fmt.Errorf("%w: failed to parse JSON response: %v", ErrInvalidResponse, err)
		}
		cards = wrapped.Cards
		if len(cards) == 0 {
			cards = wrapped.Flashcards
		}
	}

	suggestions := make([]Suggestion, 0, len(cards))
	for _, c := range cards {
		if limit > 0 && len(suggestions) == limit {
			break
		}
		front := strings.TrimSpace(c.Front)
		back := strings.TrimSpace(c.Back)
		if !usableSide(front) || !usableSide(back) {
			continue
		}
		suggestions = append(suggestions, Suggestion{
			ID:    shortuuid.New(),
			Front: front,
			Back:  back,
			Tags:  domain.NormalizeTags(c.Tags),
		})
	}

	if len(suggestions) == 0 {
		return nil, fmt.Errorf("%w: no usable cards in response", ErrInvalidResponse)
	}
	return suggestions, nil
}

func usableSide(s string) bool {
	return s != "" && utf8.RuneCountInString(s) <= domain.MaxCardTextLength
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the language tag, if any, up to the first newline.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
