package scheduler

import (
	"sync"
	"testing"
	"time"

	ledgerRepo "concierge/database/repository/ledger"
	"concierge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday 2025-03-03, 08:00. Sixteen half-hour slots from 09:00, Mon-Fri,
// over a seven day window.
var testNow = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

func testCalendar(now time.Time) Calendar {
	cal := NewCalendar(540, 30, 16, 7, []string{"monday", "tuesday", "wednesday", "thursday", "friday"})
	cal.Now = func() time.Time { return now }
	return cal
}

func newTestEngine(t *testing.T, now time.Time) *DefaultEngine {
	t.Helper()
	engine, err := NewDefaultEngine(testCalendar(now), ledgerRepo.NewMemoryLedgerRepo())
	require.NoError(t, err)
	return engine
}

func TestQueryAvailable(t *testing.T) {
	engine := newTestEngine(t, testNow)

	slots, err := engine.QueryAvailable("2025-03-03")
	require.NoError(t, err)
	require.Len(t, slots, 16)
	assert.Equal(t, 540, slots[0].Start)
	assert.Equal(t, 570, slots[0].End)
	assert.Equal(t, "2025-03-03@09:00", slots[0].ID())

	for _, date := range []string{
		"2025-03-08", // Saturday
		"2025-02-28", // past
		"2025-03-20", // beyond the window
		"not-a-date",
	} {
		slots, err := engine.QueryAvailable(date)
		require.NoError(t, err)
		assert.Empty(t, slots, "date %s", date)
	}
}

func TestQueryAvailableSkipsEndedSlots(t *testing.T) {
	engine := newTestEngine(t, time.Date(2025, 3, 3, 12, 0, 0, 0, time.UTC))

	slots, err := engine.QueryAvailable("2025-03-03")
	require.NoError(t, err)
	require.Len(t, slots, 10)
	assert.Equal(t, 720, slots[0].Start)

	// Tomorrow is unaffected by today's clock.
	slots, err = engine.QueryAvailable("2025-03-04")
	require.NoError(t, err)
	assert.Len(t, slots, 16)
}

func TestReserveAndCancel(t *testing.T) {
	engine := newTestEngine(t, testNow)
	slot := models.Slot{Date: "2025-03-04", Start: 600, End: 630}

	booking, err := engine.Reserve("session-1", slot)
	require.NoError(t, err)
	assert.Equal(t, models.BookingConfirmed, booking.Status)
	assert.Equal(t, "2025-03-04@10:00", booking.SlotID)
	assert.NotEmpty(t, booking.ID)

	slots, err := engine.QueryAvailable("2025-03-04")
	require.NoError(t, err)
	assert.Len(t, slots, 15)

	_, err = engine.Reserve("session-2", slot)
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	cancelled, err := engine.Cancel(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, cancelled.Status)

	slots, err = engine.QueryAvailable("2025-03-04")
	require.NoError(t, err)
	assert.Len(t, slots, 16)

	// Cancelling again is a no-op, not an error.
	again, err := engine.Cancel(booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCancelled, again.Status)

	_, err = engine.Cancel("no-such-booking")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestReserveUnknownSlot(t *testing.T) {
	engine := newTestEngine(t, testNow)

	_, err := engine.Reserve("session-1", models.Slot{Date: "2025-03-04", Start: 475, End: 505})
	assert.ErrorIs(t, err, ErrSlotUnknown)

	_, err = engine.Reserve("session-1", models.Slot{Date: "2025-03-09", Start: 600, End: 630})
	assert.ErrorIs(t, err, ErrSlotUnknown)
}

func TestReserveConcurrent(t *testing.T) {
	engine := newTestEngine(t, testNow)
	slot := models.Slot{Date: "2025-03-05", Start: 540, End: 570}

	const attempts = 25
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Reserve("racing-session", slot)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, unavailable int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case err == ErrSlotUnavailable:
			unavailable++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, unavailable)
}

func TestEngineRebuildsFromLedger(t *testing.T) {
	repo := ledgerRepo.NewMemoryLedgerRepo()
	engine, err := NewDefaultEngine(testCalendar(testNow), repo)
	require.NoError(t, err)

	booking, err := engine.Reserve("session-1", models.Slot{Date: "2025-03-04", Start: 600, End: 630})
	require.NoError(t, err)

	// A fresh engine over the same repo sees the slot as taken.
	rebuilt, err := NewDefaultEngine(testCalendar(testNow), repo)
	require.NoError(t, err)

	_, err = rebuilt.Reserve("session-2", models.Slot{Date: "2025-03-04", Start: 600, End: 630})
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	listed, err := rebuilt.ListBookings(models.BookingFilter{Status: models.BookingConfirmed})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, booking.ID, listed[0].ID)
}

func TestListBookingsSortedAndFiltered(t *testing.T) {
	engine := newTestEngine(t, testNow)

	for _, s := range []models.Slot{
		{Date: "2025-03-05", Start: 600, End: 630},
		{Date: "2025-03-04", Start: 900, End: 930},
		{Date: "2025-03-04", Start: 540, End: 570},
	} {
		_, err := engine.Reserve("session-1", s)
		require.NoError(t, err)
	}

	all, err := engine.ListBookings(models.BookingFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2025-03-04@09:00", all[0].SlotID)
	assert.Equal(t, "2025-03-04@15:00", all[1].SlotID)
	assert.Equal(t, "2025-03-05@10:00", all[2].SlotID)

	byDate, err := engine.ListBookings(models.BookingFilter{Date: "2025-03-04"})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	cancelled, err := engine.ListBookings(models.BookingFilter{Status: models.BookingCancelled})
	require.NoError(t, err)
	assert.Empty(t, cancelled)
}

func TestCalendarFindSlot(t *testing.T) {
	cal := testCalendar(testNow)

	slot, ok := cal.FindSlot("2025-03-03", 540)
	require.True(t, ok)
	assert.Equal(t, 570, slot.End)

	_, ok = cal.FindSlot("2025-03-03", 555)
	assert.False(t, ok)

	_, ok = cal.FindSlot("2025-03-08", 540)
	assert.False(t, ok)
}
