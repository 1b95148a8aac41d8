// File: models/reminder.go
package models

// ReminderPayload is the asynq task body for an appointment reminder.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
	SessionID string `json:"sessionId"`
	Date      string `json:"date"`
	Start     string `json:"start"`
	FireDate  string `json:"fireDate"`
}
