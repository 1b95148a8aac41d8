package models

// ActionType tags the variant of an Action.
type ActionType string

const (
	ActionAskClarify       ActionType = "ask_clarify"
	ActionRequestConfirm   ActionType = "request_confirm"
	ActionBook             ActionType = "book"
	ActionCancel           ActionType = "cancel"
	ActionShowAvailability ActionType = "show_availability"
	ActionShowBookings     ActionType = "show_bookings"
	ActionSystemTask       ActionType = "system_task"
	ActionReject           ActionType = "reject"
	ActionSay              ActionType = "say" // plain response, nothing to execute
)

// Action is the planner's decision for one turn. Exactly one variant's
// fields are populated, per Type.
type Action struct {
	Type ActionType `json:"type"`

	MissingSlot string `json:"missingSlot,omitempty"` // ask_clarify
	Slot        *Slot  `json:"slot,omitempty"`        // request_confirm, book
	BookingID   string `json:"bookingId,omitempty"`   // cancel
	Date        string `json:"date,omitempty"`        // show_availability, show_bookings

	TaskKind string            `json:"taskKind,omitempty"` // system_task
	TaskArgs map[string]string `json:"taskArgs,omitempty"`

	Reason  string `json:"reason,omitempty"`  // reject
	Message string `json:"message,omitempty"` // say, and prompts for clarify/confirm
}

// Destructive reports whether the action mutates the booking ledger and so
// requires an explicit confirmation turn before executing.
func (a Action) Destructive() bool {
	return a.Type == ActionBook || a.Type == ActionCancel
}

// ExecutionResult is the terminal outcome of executing one Action.
type ExecutionResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BookingID string `json:"bookingId,omitempty"` // artifact reference for calendar export
}
