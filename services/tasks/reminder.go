// File: services/tasks/reminder.go
package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"concierge/config"
	"concierge/models"

	"github.com/hibiken/asynq"
)

const TypeSendReminder = "reminder:send"

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqReminderScheduler enqueues appointment reminders onto the Redis-backed
// task queue, firing a configurable lead time before the slot starts.
type AsynqReminderScheduler struct {
	Client      *asynq.Client
	LeadMinutes int
}

func NewAsynqReminderScheduler() *AsynqReminderScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &AsynqReminderScheduler{
		Client:      client,
		LeadMinutes: config.AppConfig.ReminderLeadMinutes,
	}
}

func (s *AsynqReminderScheduler) Schedule(booking models.Booking) error {
	day, err := time.ParseInLocation("2006-01-02", booking.Date, time.Local)
	if err != nil {
		return fmt.Errorf("invalid booking date %q: %w", booking.Date, err)
	}
	startAt := day.Add(time.Duration(booking.Start) * time.Minute)
	fireAt := startAt.Add(-time.Duration(s.LeadMinutes) * time.Minute)
	if fireAt.Before(time.Now()) {
		// Too close to the appointment for a lead reminder. Skip quietly.
		return nil
	}

	payload := models.ReminderPayload{
		BookingID: booking.ID,
		SessionID: booking.SessionID,
		Date:      booking.Date,
		Start:     models.MinutesToClock(booking.Start),
		FireDate:  fireAt.Format(time.RFC3339),
	}
	task, opts, err := NewReminderTask(payload, fireAt)
	if err != nil {
		return err
	}
	_, err = s.Client.Enqueue(task, opts...)
	return err
}
