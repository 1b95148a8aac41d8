package scheduler

import (
	"strings"
	"time"

	"concierge/models"
)

// Calendar is the immutable slot template: which days are bookable and how
// each day is divided into slots. Slot instances are derived on demand over
// a rolling window starting today.
type Calendar struct {
	DayStart    int // minutes from midnight
	SlotMinutes int
	SlotsPerDay int
	WindowDays  int
	WorkingDays map[time.Weekday]bool

	// Now is the clock; overridable in tests. Nil means time.Now.
	Now func() time.Time
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// NewCalendar builds a Calendar from configuration values. Unknown working
// day names are ignored.
func NewCalendar(dayStart, slotMinutes, slotsPerDay, windowDays int, workingDays []string) Calendar {
	working := make(map[time.Weekday]bool)
	for _, name := range workingDays {
		if wd, ok := weekdayNames[strings.ToLower(name)]; ok {
			working[wd] = true
		}
	}
	return Calendar{
		DayStart:    dayStart,
		SlotMinutes: slotMinutes,
		SlotsPerDay: slotsPerDay,
		WindowDays:  windowDays,
		WorkingDays: working,
	}
}

func (c Calendar) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// SlotsFor instantiates the day's slot templates, ordered by start time.
// Non-working days and days outside the booking window yield nothing.
func (c Calendar) SlotsFor(date string) []models.Slot {
	day, err := time.ParseInLocation("2006-01-02", date, c.now().Location())
	if err != nil {
		return nil
	}
	if !c.WorkingDays[day.Weekday()] {
		return nil
	}

	now := c.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) || !day.Before(today.AddDate(0, 0, c.WindowDays)) {
		return nil
	}

	slots := make([]models.Slot, 0, c.SlotsPerDay)
	for i := 0; i < c.SlotsPerDay; i++ {
		start := c.DayStart + i*c.SlotMinutes
		slots = append(slots, models.Slot{Date: date, Start: start, End: start + c.SlotMinutes})
	}
	return slots
}

// FindSlot resolves a (date, start) pair against the template.
func (c Calendar) FindSlot(date string, start int) (models.Slot, bool) {
	for _, s := range c.SlotsFor(date) {
		if s.Start == start {
			return s, true
		}
	}
	return models.Slot{}, false
}
