package scheduler

import "errors"

// Domain errors surfaced to the planner and executor. None are fatal; all
// translate into user-facing rejection messages.
var (
	// ErrSlotUnavailable means the slot is already held by a confirmed booking.
	ErrSlotUnavailable = errors.New("slot unavailable")
	// ErrSlotUnknown means the slot does not exist in the calendar template.
	ErrSlotUnknown = errors.New("slot unknown")
	// ErrBookingNotFound means no booking carries the given id.
	ErrBookingNotFound = errors.New("booking not found")
)
