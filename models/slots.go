package models

import "fmt"

// Slot is a fixed calendar time unit eligible for booking.
// Start and End are minutes from midnight (e.g., 540 for 9:00 AM).
type Slot struct {
	Date  string `bson:"date" json:"date"` // "2006-01-02"
	Start int    `bson:"start" json:"start"`
	End   int    `bson:"end" json:"end"`
}

// ID is the canonical slot key, e.g. "2025-02-25@14:00".
func (s Slot) ID() string {
	return fmt.Sprintf("%s@%s", s.Date, MinutesToClock(s.Start))
}

// Duration returns the slot length in minutes.
func (s Slot) Duration() int {
	return s.End - s.Start
}

// MinutesToClock renders minutes from midnight as "HH:MM".
func MinutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
