package models

import "time"

// Utterance is one transcribed user turn. Immutable once received.
type Utterance struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"` // reference instant for relative time expressions
}

// EntityKind classifies an extracted span.
type EntityKind string

const (
	EntityDate      EntityKind = "DATE"
	EntityTime      EntityKind = "TIME"
	EntityDuration  EntityKind = "DURATION"
	EntityName      EntityKind = "NAME"
	EntityReference EntityKind = "REFERENCE" // e.g. "first available", "any time"
)

// Entity is a typed, normalized value extracted from an utterance.
// DATE values are "2006-01-02" strings; TIME and DURATION carry minutes
// (from midnight, or total) in Minutes with Value as the display form.
type Entity struct {
	Kind    EntityKind `json:"kind"`
	Value   string     `json:"value"`
	Minutes int        `json:"minutes,omitempty"`
	// Source offsets into the utterance text.
	SpanStart int `json:"spanStart"`
	SpanEnd   int `json:"spanEnd"`
	// Ambiguous marks values resolved by the daytime-bias rule (e.g. a bare
	// hour with no AM/PM); they contribute less confidence.
	Ambiguous bool `json:"ambiguous,omitempty"`
}
