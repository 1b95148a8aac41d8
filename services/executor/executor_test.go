package executor

import (
	"context"
	"errors"
	"testing"
	"time"

	ledgerRepo "concierge/database/repository/ledger"
	"concierge/models"
	"concierge/services/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var execNow = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

type recordingReminders struct {
	scheduled []models.Booking
	err       error
}

func (r *recordingReminders) Schedule(b models.Booking) error {
	r.scheduled = append(r.scheduled, b)
	return r.err
}

type stubTaskRunner struct {
	result models.ExecutionResult
	panics bool
}

func (s *stubTaskRunner) Perform(context.Context, string, map[string]string) models.ExecutionResult {
	if s.panics {
		panic("runner exploded")
	}
	return s.result
}

func newTestExecutor(t *testing.T) (*DefaultExecutor, scheduler.Engine, *recordingReminders) {
	t.Helper()
	cal := scheduler.NewCalendar(540, 30, 16, 7, []string{"monday", "tuesday", "wednesday", "thursday", "friday"})
	cal.Now = func() time.Time { return execNow }
	engine, err := scheduler.NewDefaultEngine(cal, ledgerRepo.NewMemoryLedgerRepo())
	require.NoError(t, err)

	reminders := &recordingReminders{}
	ex := &DefaultExecutor{
		Engine:    engine,
		Reminders: reminders,
		Logger:    zap.NewNop(),
	}
	return ex, engine, reminders
}

func TestExecuteBook(t *testing.T) {
	ex, _, reminders := newTestExecutor(t)
	slot := models.Slot{Date: "2025-03-04", Start: 600, End: 630}

	result := ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionBook, Slot: &slot})
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.BookingID)
	assert.Contains(t, result.Message, "Booked 2025-03-04 at 10:00")
	assert.Contains(t, result.Message, result.BookingID)

	require.Len(t, reminders.scheduled, 1)
	assert.Equal(t, result.BookingID, reminders.scheduled[0].ID)
}

func TestExecuteBookSlotTaken(t *testing.T) {
	ex, engine, _ := newTestExecutor(t)
	slot := models.Slot{Date: "2025-03-04", Start: 600, End: 630}
	_, err := engine.Reserve("other", slot)
	require.NoError(t, err)

	result := ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionBook, Slot: &slot})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "just taken")
	assert.Empty(t, result.BookingID)
}

func TestExecuteBookUnknownSlot(t *testing.T) {
	ex, _, _ := newTestExecutor(t)
	slot := models.Slot{Date: "2025-03-09", Start: 600, End: 630} // Sunday

	result := ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionBook, Slot: &slot})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "not a bookable slot")
}

func TestExecuteBookReminderFailureIsNotFatal(t *testing.T) {
	ex, _, reminders := newTestExecutor(t)
	reminders.err = errors.New("queue down")
	slot := models.Slot{Date: "2025-03-04", Start: 600, End: 630}

	result := ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionBook, Slot: &slot})
	assert.True(t, result.Success)
}

func TestExecuteCancel(t *testing.T) {
	ex, engine, _ := newTestExecutor(t)
	booking, err := engine.Reserve("s1", models.Slot{Date: "2025-03-04", Start: 600, End: 630})
	require.NoError(t, err)

	result := ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionCancel, BookingID: booking.ID})
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "Cancelled your booking on 2025-03-04 at 10:00")

	result = ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionCancel, BookingID: "missing"})
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "couldn't find")
}

func TestExecuteShowAvailability(t *testing.T) {
	ex, engine, _ := newTestExecutor(t)

	result := ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionShowAvailability, Date: "2025-03-04"})
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "09:00")

	_, err := engine.Reserve("s1", models.Slot{Date: "2025-03-04", Start: 540, End: 570})
	require.NoError(t, err)
	result = ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionShowAvailability, Date: "2025-03-04"})
	assert.True(t, result.Success)
	assert.NotContains(t, result.Message, "09:00,")

	result = ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionShowAvailability, Date: "2025-03-08"})
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "No available slots")
}

func TestExecuteShowBookings(t *testing.T) {
	ex, engine, _ := newTestExecutor(t)

	result := ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionShowBookings})
	assert.True(t, result.Success)
	assert.Equal(t, "You have no bookings.", result.Message)

	_, err := engine.Reserve("s1", models.Slot{Date: "2025-03-04", Start: 600, End: 630})
	require.NoError(t, err)
	result = ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionShowBookings})
	assert.True(t, result.Success)
	assert.Contains(t, result.Message, "2025-03-04 at 10:00")
}

func TestExecuteSystemTaskGuarded(t *testing.T) {
	ex, _, _ := newTestExecutor(t)
	ex.Tasks = &stubTaskRunner{result: models.ExecutionResult{Success: true, Message: "done"}}

	for _, kind := range []string{"shutdown", "restart", "sleep", "hibernate"} {
		result := ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionSystemTask, TaskKind: kind})
		assert.True(t, result.Success, "kind %s", kind)
		assert.Contains(t, result.Message, "For safety I won't", "kind %s", kind)
	}
}

func TestExecuteSystemTaskDelegates(t *testing.T) {
	ex, _, _ := newTestExecutor(t)
	ex.Tasks = &stubTaskRunner{result: models.ExecutionResult{Success: true, Message: "opened calculator"}}

	result := ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionSystemTask, TaskKind: "open"})
	assert.True(t, result.Success)
	assert.Equal(t, "opened calculator", result.Message)
}

func TestExecuteSystemTaskWithoutRunner(t *testing.T) {
	ex, _, _ := newTestExecutor(t)

	result := ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionSystemTask, TaskKind: "open"})
	assert.False(t, result.Success)
	assert.Equal(t, "System tasks are not available.", result.Message)
}

func TestExecuteSystemTaskPanicContained(t *testing.T) {
	ex, _, _ := newTestExecutor(t)
	ex.Tasks = &stubTaskRunner{panics: true}

	result := ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionSystemTask, TaskKind: "open"})
	assert.False(t, result.Success)
	assert.Equal(t, "The task failed unexpectedly.", result.Message)
}

func TestExecuteReject(t *testing.T) {
	ex, _, _ := newTestExecutor(t)

	result := ex.Execute(context.Background(), "s1", models.Action{Type: models.ActionReject, Reason: "no matching booking found"})
	assert.False(t, result.Success)
	assert.Equal(t, "Sorry, no matching booking found.", result.Message)
}

func TestExecuteConversationalActions(t *testing.T) {
	ex, _, _ := newTestExecutor(t)

	for _, a := range []models.Action{
		{Type: models.ActionSay, Message: "Hello!"},
		{Type: models.ActionAskClarify, MissingSlot: "date", Message: "What day?"},
		{Type: models.ActionRequestConfirm, Message: "Shall I go ahead?"},
	} {
		result := ex.Execute(context.Background(), "s1", a)
		assert.True(t, result.Success)
		assert.Equal(t, a.Message, result.Message)
	}
}
