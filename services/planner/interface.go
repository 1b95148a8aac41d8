// Package planner decides the next Action for a turn from the recognized
// intent candidates and the session's dialogue state. Per session it is an
// explicit state machine: Idle -> Collecting -> AwaitingConfirmation ->
// back to Idle once a turn executes or is abandoned.
package planner

import "concierge/models"

// Planner consumes one turn's recognition output and mutates the dialogue
// context to its next state. The returned Action is either executable
// (book, cancel, show_*, system_task) or purely conversational.
type Planner interface {
	Plan(dlg *models.DialogContext, utt models.Utterance, entities []models.Entity, candidates []models.Intent) models.Action
}

// Config carries the dialogue policy tunables.
type Config struct {
	AcceptThreshold  float64
	ClarifyThreshold float64
	ClarifyRetryCap  int
	ConfirmRetryCap  int
	// NearTieMargin is the top-2 confidence gap below which the planner asks
	// the user to choose rather than guessing.
	NearTieMargin float64
}
