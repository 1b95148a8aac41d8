package executor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"concierge/models"
	"concierge/services/scheduler"

	"go.uber.org/zap"
)

// System-control kinds are refused rather than executed.
var guardedTaskKinds = map[string]string{
	"shutdown":  "shut down the machine",
	"restart":   "restart the machine",
	"sleep":     "put the machine to sleep",
	"hibernate": "hibernate the machine",
}

// DefaultExecutor delegates ledger actions to the scheduler and system
// tasks to the injected runner, translating every outcome into an
// ExecutionResult. No failure propagates past this boundary.
type DefaultExecutor struct {
	Engine    scheduler.Engine
	Tasks     SystemTaskRunner  // optional
	Reminders ReminderScheduler // optional
	Logger    *zap.Logger
}

func (ex *DefaultExecutor) Execute(ctx context.Context, sessionID string, action models.Action) models.ExecutionResult {
	switch action.Type {
	case models.ActionBook:
		return ex.executeBook(sessionID, action)
	case models.ActionCancel:
		return ex.executeCancel(action)
	case models.ActionShowAvailability:
		return ex.executeShowAvailability(action)
	case models.ActionShowBookings:
		return ex.executeShowBookings(action)
	case models.ActionSystemTask:
		return ex.executeSystemTask(ctx, action)
	case models.ActionReject:
		return models.ExecutionResult{Success: false, Message: fmt.Sprintf("Sorry, %s.", action.Reason)}
	default:
		// Conversational actions carry their own response text.
		return models.ExecutionResult{Success: true, Message: action.Message}
	}
}

func (ex *DefaultExecutor) executeBook(sessionID string, action models.Action) models.ExecutionResult {
	if action.Slot == nil {
		return models.ExecutionResult{Success: false, Message: "There is nothing to book."}
	}
	booking, err := ex.Engine.Reserve(sessionID, *action.Slot)
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrSlotUnavailable):
			return models.ExecutionResult{
				Success: false,
				Message: fmt.Sprintf("Sorry, %s at %s was just taken. Would another time work?",
					action.Slot.Date, models.MinutesToClock(action.Slot.Start)),
			}
		case errors.Is(err, scheduler.ErrSlotUnknown):
			return models.ExecutionResult{
				Success: false,
				Message: fmt.Sprintf("%s at %s is not a bookable slot.",
					action.Slot.Date, models.MinutesToClock(action.Slot.Start)),
			}
		default:
			ex.Logger.Error("reserve failed", zap.Error(err))
			return models.ExecutionResult{Success: false, Message: "I couldn't complete the booking. Please try again."}
		}
	}

	if ex.Reminders != nil {
		if err := ex.Reminders.Schedule(*booking); err != nil {
			ex.Logger.Warn("failed to schedule reminder",
				zap.String("bookingID", booking.ID), zap.Error(err))
		}
	}

	return models.ExecutionResult{
		Success: true,
		Message: fmt.Sprintf("Booked %s at %s. Your booking ID is %s.",
			booking.Date, models.MinutesToClock(booking.Start), booking.ID),
		BookingID: booking.ID,
	}
}

func (ex *DefaultExecutor) executeCancel(action models.Action) models.ExecutionResult {
	booking, err := ex.Engine.Cancel(action.BookingID)
	if err != nil {
		if errors.Is(err, scheduler.ErrBookingNotFound) {
			return models.ExecutionResult{Success: false, Message: "I couldn't find that booking."}
		}
		ex.Logger.Error("cancel failed", zap.Error(err))
		return models.ExecutionResult{Success: false, Message: "I couldn't cancel the booking. Please try again."}
	}
	return models.ExecutionResult{
		Success: true,
		Message: fmt.Sprintf("Cancelled your booking on %s at %s.",
			booking.Date, models.MinutesToClock(booking.Start)),
		BookingID: booking.ID,
	}
}

func (ex *DefaultExecutor) executeShowAvailability(action models.Action) models.ExecutionResult {
	slots, err := ex.Engine.QueryAvailable(action.Date)
	if err != nil {
		ex.Logger.Error("availability query failed", zap.Error(err))
		return models.ExecutionResult{Success: false, Message: "I couldn't check availability. Please try again."}
	}
	if len(slots) == 0 {
		return models.ExecutionResult{Success: true, Message: fmt.Sprintf("No available slots on %s.", action.Date)}
	}
	times := make([]string, 0, len(slots))
	for _, s := range slots {
		times = append(times, models.MinutesToClock(s.Start))
	}
	return models.ExecutionResult{
		Success: true,
		Message: fmt.Sprintf("Available slots on %s: %s.", action.Date, strings.Join(times, ", ")),
	}
}

func (ex *DefaultExecutor) executeShowBookings(action models.Action) models.ExecutionResult {
	filter := models.BookingFilter{Date: action.Date, Status: models.BookingConfirmed}
	bookings, err := ex.Engine.ListBookings(filter)
	if err != nil {
		ex.Logger.Error("bookings query failed", zap.Error(err))
		return models.ExecutionResult{Success: false, Message: "I couldn't look up your bookings. Please try again."}
	}
	if len(bookings) == 0 {
		return models.ExecutionResult{Success: true, Message: "You have no bookings."}
	}
	lines := make([]string, 0, len(bookings))
	for _, b := range bookings {
		lines = append(lines, fmt.Sprintf("%s at %s", b.Date, models.MinutesToClock(b.Start)))
	}
	return models.ExecutionResult{
		Success: true,
		Message: "Your bookings: " + strings.Join(lines, "; ") + ".",
	}
}

func (ex *DefaultExecutor) executeSystemTask(ctx context.Context, action models.Action) (result models.ExecutionResult) {
	if reason, guarded := guardedTaskKinds[action.TaskKind]; guarded {
		return models.ExecutionResult{
			Success: true,
			Message: fmt.Sprintf("For safety I won't %s.", reason),
		}
	}
	if ex.Tasks == nil {
		return models.ExecutionResult{Success: false, Message: "System tasks are not available."}
	}

	// The runner is external; a panic must not escape this boundary.
	defer func() {
		if r := recover(); r != nil {
			ex.Logger.Error("system task panicked", zap.Any("panic", r), zap.String("kind", action.TaskKind))
			result = models.ExecutionResult{Success: false, Message: "The task failed unexpectedly."}
		}
	}()
	return ex.Tasks.Perform(ctx, action.TaskKind, action.TaskArgs)
}
