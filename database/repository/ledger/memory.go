package ledgerRepo

import (
	"fmt"
	"sync"

	"concierge/models"
)

// MemoryLedgerRepo is an in-process Repository for tests and redis/mongo-less
// development runs.
type MemoryLedgerRepo struct {
	mu       sync.Mutex
	bookings map[string]models.Booking
}

func NewMemoryLedgerRepo() *MemoryLedgerRepo {
	return &MemoryLedgerRepo{bookings: make(map[string]models.Booking)}
}

func (repo *MemoryLedgerRepo) CreateBooking(booking *models.Booking) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.bookings[booking.ID] = *booking
	return nil
}

func (repo *MemoryLedgerRepo) UpdateBookingStatus(bookingID, status string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	b, ok := repo.bookings[bookingID]
	if !ok {
		return fmt.Errorf("booking %s not found", bookingID)
	}
	b.Status = status
	repo.bookings[bookingID] = b
	return nil
}

func (repo *MemoryLedgerRepo) ListConfirmed() ([]models.Booking, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var out []models.Booking
	for _, b := range repo.bookings {
		if b.Status == models.BookingConfirmed {
			out = append(out, b)
		}
	}
	return out, nil
}
