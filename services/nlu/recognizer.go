package nlu

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"concierge/models"
)

// intentDef pairs an intent label with its trigger vocabulary. Keywords are
// matched against whole tokens, phrases against the raw lowered text.
// Required entity kinds penalize the score when absent.
type intentDef struct {
	label    models.IntentLabel
	keywords []string
	phrases  []string
	requires []models.EntityKind
}

// Definition order is the deterministic tiebreak for equal scores.
var intentDefs = []intentDef{
	{
		label:    models.IntentBook,
		keywords: []string{"book", "schedule", "reserve", "arrange", "appointment", "meeting", "slot"},
		phrases:  []string{"set up"},
		requires: []models.EntityKind{models.EntityDate, models.EntityTime},
	},
	{
		label:    models.IntentCancel,
		keywords: []string{"cancel", "drop", "remove", "delete", "unbook"},
	},
	{
		label:    models.IntentShowAvailability,
		keywords: []string{"available", "availability", "free", "openings", "vacancies"},
	},
	{
		label:    models.IntentShowBookings,
		keywords: []string{"bookings", "booked", "agenda"},
		phrases:  []string{"my bookings", "my schedule", "my appointments"},
	},
	{
		label:    models.IntentSystem,
		keywords: []string{"open", "launch", "run", "execute", "shutdown", "restart"},
	},
	{
		label:    models.IntentGreet,
		keywords: []string{"hello", "hi", "hey"},
		phrases:  []string{"good morning", "good afternoon", "good evening"},
	},
}

var tokenPattern = regexp.MustCompile(`[a-z]+|\d+`)

// DefaultRecognizer is the rule-based intent classifier. Confidence combines
// keyword match strength with entity-extraction completeness, and the
// ranking is deterministic for identical input.
type DefaultRecognizer struct {
	Parser Parser
}

func NewDefaultRecognizer(parser Parser) *DefaultRecognizer {
	return &DefaultRecognizer{Parser: parser}
}

func (r *DefaultRecognizer) Recognize(_ context.Context, utt models.Utterance) ([]models.Intent, error) {
	lower := strings.ToLower(utt.Text)
	tokens := make(map[string]bool)
	for _, t := range tokenPattern.FindAllString(lower, -1) {
		tokens[t] = true
	}

	entities := ExtractAll(r.Parser, utt.Text, utt.Timestamp)

	var candidates []models.Intent
	for _, def := range intentDefs {
		hits := 0
		for _, kw := range def.keywords {
			if tokens[kw] {
				hits++
			}
		}
		for _, ph := range def.phrases {
			if strings.Contains(lower, ph) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}

		// One keyword hit scores 0.9; each further hit adds 0.1 up to 1.0.
		confidence := 0.9 + 0.1*float64(hits-1)
		if confidence > 1.0 {
			confidence = 1.0
		}
		// Each required entity kind that was not extracted costs 0.1.
		for _, kind := range def.requires {
			if !hasEntityFor(entities, kind) {
				confidence -= 0.1
			}
		}
		if confidence < 0 {
			confidence = 0
		}

		candidates = append(candidates, models.Intent{
			Label:      def.label,
			Confidence: confidence,
			Entities:   entities,
		})
	}

	if len(candidates) == 0 {
		return []models.Intent{{Label: models.IntentUnknown, Confidence: 0, Entities: entities}}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates, nil
}

// hasEntityFor treats a "first available" reference as satisfying the TIME
// requirement, so "book tomorrow, any time" is a complete booking request.
func hasEntityFor(entities []models.Entity, kind models.EntityKind) bool {
	for _, e := range entities {
		if e.Kind == kind {
			return true
		}
		if kind == models.EntityTime && e.Kind == models.EntityReference {
			return true
		}
	}
	return false
}
