package scheduler

import "concierge/models"

// Engine owns the slot inventory and the booking ledger. Reserve and Cancel
// are atomic per slot: concurrent reserves on one slot produce exactly one
// confirmed booking.
type Engine interface {
	// QueryAvailable returns the day's free slots ordered by start time.
	QueryAvailable(date string) ([]models.Slot, error)
	// Reserve books the slot, failing with ErrSlotUnavailable or ErrSlotUnknown.
	Reserve(sessionID string, slot models.Slot) (*models.Booking, error)
	// Cancel marks the booking Cancelled and frees its slot. Cancelling an
	// already-cancelled booking is an idempotent no-op.
	Cancel(bookingID string) (*models.Booking, error)
	// ListBookings returns ledger records matching the filter.
	ListBookings(filter models.BookingFilter) ([]models.Booking, error)
	// FindSlot resolves a (date, start) pair against the calendar template.
	FindSlot(date string, start int) (models.Slot, bool)
}
