package models

import "time"

// Booking status values.
const (
	BookingConfirmed = "Confirmed"
	BookingCancelled = "Cancelled"
)

// Booking represents a booking record in the ledger.
type Booking struct {
	ID        string    `bson:"id" json:"id"`                 // Unique booking identifier (UUID)
	SessionID string    `bson:"session_id" json:"session_id"` // Session that created the booking
	SlotID    string    `bson:"slot_id" json:"slot_id"`       // Canonical slot key
	Date      string    `bson:"date" json:"date"`             // Booking date in "YYYY-MM-DD" format
	Start     int       `bson:"start" json:"start"`           // Start time (minutes from midnight)
	End       int       `bson:"end" json:"end"`               // End time (minutes from midnight)
	Status    string    `bson:"status" json:"status"`         // "Confirmed" or "Cancelled"
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// BookingFilter narrows list queries; zero values match everything.
type BookingFilter struct {
	Date   string `json:"date,omitempty"`
	Status string `json:"status,omitempty"`
}

// Matches reports whether the booking satisfies the filter.
func (f BookingFilter) Matches(b Booking) bool {
	if f.Date != "" && b.Date != f.Date {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return true
}
