package scheduler

import (
	"fmt"
	"sort"
	"sync"

	ledgerRepo "concierge/database/repository/ledger"
	"concierge/models"
	"concierge/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultEngine is the production Engine. Slot occupancy lives in memory and
// is serialized with a mutex per slot, so unrelated slots never contend;
// booking records are written through to the ledger repository.
type DefaultEngine struct {
	Calendar Calendar
	Repo     ledgerRepo.Repository

	locksMu   sync.Mutex
	slotLocks map[string]*sync.Mutex

	ledgerMu sync.RWMutex
	bookings map[string]models.Booking // by booking id
	occupied map[string]string         // slot id -> confirmed booking id
}

// NewDefaultEngine builds an engine and rebuilds slot occupancy from the
// repository's confirmed bookings.
func NewDefaultEngine(cal Calendar, repo ledgerRepo.Repository) (*DefaultEngine, error) {
	se := &DefaultEngine{
		Calendar:  cal,
		Repo:      repo,
		slotLocks: make(map[string]*sync.Mutex),
		bookings:  make(map[string]models.Booking),
		occupied:  make(map[string]string),
	}
	confirmed, err := repo.ListConfirmed()
	if err != nil {
		return nil, fmt.Errorf("loading booking ledger: %w", err)
	}
	for _, b := range confirmed {
		se.bookings[b.ID] = b
		se.occupied[b.SlotID] = b.ID
	}
	return se, nil
}

// lockFor returns the mutex guarding one slot, creating it on first use.
func (se *DefaultEngine) lockFor(slotID string) *sync.Mutex {
	se.locksMu.Lock()
	defer se.locksMu.Unlock()

	lock, exists := se.slotLocks[slotID]
	if !exists {
		lock = &sync.Mutex{}
		se.slotLocks[slotID] = lock
	}
	return lock
}

// QueryAvailable computes the day's free slots, skipping slots that already
// ended today and slots held by a confirmed booking.
func (se *DefaultEngine) QueryAvailable(date string) ([]models.Slot, error) {
	now := se.Calendar.now()
	nowMinutes := now.Hour()*60 + now.Minute()
	today := now.Format("2006-01-02")

	var available []models.Slot
	se.ledgerMu.RLock()
	for _, slot := range se.Calendar.SlotsFor(date) {
		if slot.Date == today && slot.End <= nowMinutes {
			continue
		}
		if _, taken := se.occupied[slot.ID()]; taken {
			continue
		}
		available = append(available, slot)
	}
	se.ledgerMu.RUnlock()

	return available, nil
}

// Reserve books the slot atomically: the slot's own mutex makes concurrent
// reserves on the same slot yield exactly one confirmed booking.
func (se *DefaultEngine) Reserve(sessionID string, slot models.Slot) (*models.Booking, error) {
	template, ok := se.Calendar.FindSlot(slot.Date, slot.Start)
	if !ok {
		return nil, ErrSlotUnknown
	}
	slotID := template.ID()

	lock := se.lockFor(slotID)
	lock.Lock()
	defer lock.Unlock()

	se.ledgerMu.RLock()
	_, taken := se.occupied[slotID]
	se.ledgerMu.RUnlock()
	if taken {
		return nil, ErrSlotUnavailable
	}

	booking := models.Booking{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		SlotID:    slotID,
		Date:      template.Date,
		Start:     template.Start,
		End:       template.End,
		Status:    models.BookingConfirmed,
		CreatedAt: se.Calendar.now(),
	}
	if err := se.Repo.CreateBooking(&booking); err != nil {
		return nil, fmt.Errorf("persisting booking: %w", err)
	}

	se.ledgerMu.Lock()
	se.bookings[booking.ID] = booking
	se.occupied[slotID] = booking.ID
	se.ledgerMu.Unlock()

	return &booking, nil
}

// Cancel marks the booking Cancelled and frees its slot. The in-memory
// ledger is authoritative; a write-through failure is logged, not surfaced.
func (se *DefaultEngine) Cancel(bookingID string) (*models.Booking, error) {
	se.ledgerMu.RLock()
	booking, ok := se.bookings[bookingID]
	se.ledgerMu.RUnlock()
	if !ok {
		return nil, ErrBookingNotFound
	}
	if booking.Status == models.BookingCancelled {
		return &booking, nil
	}

	lock := se.lockFor(booking.SlotID)
	lock.Lock()
	defer lock.Unlock()

	se.ledgerMu.Lock()
	booking = se.bookings[bookingID]
	if booking.Status != models.BookingCancelled {
		booking.Status = models.BookingCancelled
		se.bookings[bookingID] = booking
		if se.occupied[booking.SlotID] == bookingID {
			delete(se.occupied, booking.SlotID)
		}
	}
	se.ledgerMu.Unlock()

	if err := se.Repo.UpdateBookingStatus(bookingID, models.BookingCancelled); err != nil {
		utils.GetLogger().Warn("failed to persist booking cancellation",
			zap.String("bookingID", bookingID), zap.Error(err))
	}
	return &booking, nil
}

// ListBookings returns matching ledger records ordered by date, start time
// and creation time.
func (se *DefaultEngine) ListBookings(filter models.BookingFilter) ([]models.Booking, error) {
	se.ledgerMu.RLock()
	var out []models.Booking
	for _, b := range se.bookings {
		if filter.Matches(b) {
			out = append(out, b)
		}
	}
	se.ledgerMu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// FindSlot exposes the calendar template lookup.
func (se *DefaultEngine) FindSlot(date string, start int) (models.Slot, bool) {
	return se.Calendar.FindSlot(date, start)
}
