package executor

import (
	"context"

	"concierge/models"
)

// Executor carries out one approved Action, producing exactly one
// ExecutionResult. It never retries; retry policy belongs to the planner on
// a later turn.
type Executor interface {
	Execute(ctx context.Context, sessionID string, action models.Action) models.ExecutionResult
}

// SystemTaskRunner is the external collaborator boundary for system tasks
// (opening files, launching apps). The core treats it as opaque.
type SystemTaskRunner interface {
	Perform(ctx context.Context, kind string, args map[string]string) models.ExecutionResult
}

// ReminderScheduler enqueues an appointment reminder for a confirmed
// booking.
type ReminderScheduler interface {
	Schedule(booking models.Booking) error
}
