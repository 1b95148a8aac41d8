// File: services/nlu/gemini.go
package nlu

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"concierge/models"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const classifyPrompt = `Classify the user utterance into exactly one of these intents:
book, cancel, show_availability, show_bookings, system, greet, unknown.
Reply with JSON only: {"label": "...", "confidence": 0.0-1.0}.
Utterance: %q`

// GeminiRecognizer classifies intents with a Gemini model. Entities still
// come from the deterministic parser so downstream slot filling is identical
// to the rule path. On any model failure it falls back to the rule-based
// recognizer rather than surfacing an error.
type GeminiRecognizer struct {
	model    *genai.GenerativeModel
	fallback *DefaultRecognizer
}

func NewGeminiRecognizer(apiKey string, fallback *DefaultRecognizer) (*GeminiRecognizer, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel("models/gemini-1.5-pro")
	return &GeminiRecognizer{model: model, fallback: fallback}, nil
}

func (g *GeminiRecognizer) Recognize(ctx context.Context, utt models.Utterance) ([]models.Intent, error) {
	raw, err := g.generate(ctx, fmt.Sprintf(classifyPrompt, utt.Text))
	if err != nil {
		return g.fallback.Recognize(ctx, utt)
	}

	var parsed struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return g.fallback.Recognize(ctx, utt)
	}
	label := models.IntentLabel(parsed.Label)
	switch label {
	case models.IntentBook, models.IntentCancel, models.IntentShowAvailability,
		models.IntentShowBookings, models.IntentSystem, models.IntentGreet, models.IntentUnknown:
	default:
		return g.fallback.Recognize(ctx, utt)
	}
	if parsed.Confidence < 0 || parsed.Confidence > 1 {
		return g.fallback.Recognize(ctx, utt)
	}

	entities := ExtractAll(g.fallback.Parser, utt.Text, utt.Timestamp)
	return []models.Intent{{Label: label, Confidence: parsed.Confidence, Entities: entities}}, nil
}

func (g *GeminiRecognizer) generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

// extractJSON trims markdown fences and surrounding prose from a model reply.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}
