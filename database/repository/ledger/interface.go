// Package ledgerRepo persists the booking ledger. The scheduler keeps the
// authoritative in-memory state and writes through here; on startup it
// reloads confirmed bookings to rebuild slot occupancy.
package ledgerRepo

import "concierge/models"

// Repository stores booking records keyed by booking id.
type Repository interface {
	CreateBooking(booking *models.Booking) error
	UpdateBookingStatus(bookingID, status string) error
	ListConfirmed() ([]models.Booking, error)
}
