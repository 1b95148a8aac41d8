// Package nlu turns raw utterance text into scored intents and normalized
// entities. The rule-based recognizer is fully deterministic; a Gemini-backed
// recognizer can be swapped in behind the same interface.
package nlu

import (
	"context"
	"iter"
	"time"

	"concierge/models"
)

// Parser extracts typed entities from utterance text. Entities returns a
// lazy, restartable sequence; unparsable spans are omitted, never errors.
type Parser interface {
	Entities(text string, ref time.Time) iter.Seq[models.Entity]
}

// Recognizer classifies an utterance into ranked intent candidates, best
// first. Rankings must be deterministic for identical input.
type Recognizer interface {
	Recognize(ctx context.Context, utt models.Utterance) ([]models.Intent, error)
}

// ExtractAll drains the parser's entity sequence into a slice.
func ExtractAll(p Parser, text string, ref time.Time) []models.Entity {
	var out []models.Entity
	for e := range p.Entities(text, ref) {
		out = append(out, e)
	}
	return out
}
