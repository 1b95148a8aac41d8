package nlu

import (
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"time"

	"concierge/models"
)

// DefaultParser is the deterministic regex-based entity extractor.
type DefaultParser struct{}

func NewDefaultParser() *DefaultParser {
	return &DefaultParser{}
}

var (
	reRelativeDay = regexp.MustCompile(`\b(today|tomorrow|yesterday)\b`)
	reQualWeekday = regexp.MustCompile(`\b(next|this)\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	reBareWeekday = regexp.MustCompile(`\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	reOffsetDate  = regexp.MustCompile(`\b(in|after)\s+(\d+)\s+(day|days|week|weeks)\b`)
	reISODate     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	reSlashDate   = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)

	reClockTime = regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\s*(am|pm)?\b`)
	reHourAmPm  = regexp.MustCompile(`\b([1-9]|1[0-2])\s*(am|pm)\b`)
	reWordTime  = regexp.MustCompile(`\b(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)\s+(am|pm)\b`)
	reOClock    = regexp.MustCompile(`\b([1-9]|1[0-2])\s+o'?clock\b`)
	reAtHour    = regexp.MustCompile(`\bat\s+([1-9]|1[0-2])\b`)

	reDuration     = regexp.MustCompile(`\b(\d+)\s*(hours?|hrs?|minutes?|mins?)\b`)
	reHalfHour     = regexp.MustCompile(`\bhalf\s+an\s+hour\b`)
	reFirstFree    = regexp.MustCompile(`\b(first\s+available|earliest|any\s*time)\b`)
	reWithName     = regexp.MustCompile(`\bwith\s+([a-z]+)\b`)
	nameStopwords  = map[string]bool{"me": true, "us": true, "you": true, "a": true, "an": true, "the": true, "my": true}
	wordTimeValues = map[string]int{
		"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
		"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
	}
	weekdayValues = map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
)

// claimedSpans rejects overlapping matches so more specific patterns win.
type claimedSpans [][2]int

func (s *claimedSpans) claim(start, end int) bool {
	for _, sp := range *s {
		if start < sp[1] && end > sp[0] {
			return false
		}
	}
	*s = append(*s, [2]int{start, end})
	return true
}

// Entities returns a lazy sequence of normalized entities extracted from
// text, resolving relative expressions against ref. Spans that fail to
// parse are skipped silently.
func (p *DefaultParser) Entities(text string, ref time.Time) iter.Seq[models.Entity] {
	return func(yield func(models.Entity) bool) {
		lower := strings.ToLower(text)
		for _, e := range extractDates(lower, ref) {
			if !yield(e) {
				return
			}
		}
		for _, e := range extractTimes(lower, ref) {
			if !yield(e) {
				return
			}
		}
		for _, e := range extractDurations(lower) {
			if !yield(e) {
				return
			}
		}
		for _, e := range extractReferences(lower) {
			if !yield(e) {
				return
			}
		}
		for _, e := range extractNames(lower) {
			if !yield(e) {
				return
			}
		}
	}
}

func extractDates(lower string, ref time.Time) []models.Entity {
	var out []models.Entity
	var claimed claimedSpans

	dateEntity := func(t time.Time, start, end int) models.Entity {
		return models.Entity{
			Kind:      models.EntityDate,
			Value:     t.Format("2006-01-02"),
			SpanStart: start,
			SpanEnd:   end,
		}
	}

	for _, m := range reISODate.FindAllStringSubmatchIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", lower[m[0]:m[1]], ref.Location())
		if err != nil {
			continue
		}
		out = append(out, dateEntity(t, m[0], m[1]))
	}

	for _, m := range reSlashDate.FindAllStringSubmatchIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		// MM/DD/YYYY, as the voice frontends send it.
		month, _ := strconv.Atoi(lower[m[2]:m[3]])
		day, _ := strconv.Atoi(lower[m[4]:m[5]])
		year, _ := strconv.Atoi(lower[m[6]:m[7]])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, ref.Location())
		out = append(out, dateEntity(t, m[0], m[1]))
	}

	for _, m := range reRelativeDay.FindAllStringSubmatchIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		var t time.Time
		switch lower[m[0]:m[1]] {
		case "today":
			t = ref
		case "tomorrow":
			t = ref.AddDate(0, 0, 1)
		case "yesterday":
			t = ref.AddDate(0, 0, -1)
		}
		out = append(out, dateEntity(t, m[0], m[1]))
	}

	for _, m := range reQualWeekday.FindAllStringSubmatchIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		qualifier := lower[m[2]:m[3]]
		wd := weekdayValues[lower[m[4]:m[5]]]
		delta := (int(wd) - int(ref.Weekday()) + 7) % 7
		// "next friday" on a Friday means a week out; "this friday" means today.
		if qualifier == "next" && delta == 0 {
			delta = 7
		}
		out = append(out, dateEntity(ref.AddDate(0, 0, delta), m[0], m[1]))
	}

	for _, m := range reBareWeekday.FindAllStringSubmatchIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		wd := weekdayValues[lower[m[0]:m[1]]]
		delta := (int(wd) - int(ref.Weekday()) + 7) % 7
		out = append(out, dateEntity(ref.AddDate(0, 0, delta), m[0], m[1]))
	}

	for _, m := range reOffsetDate.FindAllStringSubmatchIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		n, _ := strconv.Atoi(lower[m[4]:m[5]])
		unit := lower[m[6]:m[7]]
		if strings.HasPrefix(unit, "week") {
			n *= 7
		}
		out = append(out, dateEntity(ref.AddDate(0, 0, n), m[0], m[1]))
	}

	return out
}

func extractTimes(lower string, ref time.Time) []models.Entity {
	var out []models.Entity
	var claimed claimedSpans

	timeEntity := func(minutes, start, end int, ambiguous bool) models.Entity {
		return models.Entity{
			Kind:      models.EntityTime,
			Value:     models.MinutesToClock(minutes),
			Minutes:   minutes,
			SpanStart: start,
			SpanEnd:   end,
			Ambiguous: ambiguous,
		}
	}

	for _, m := range reClockTime.FindAllStringSubmatchIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		hour, _ := strconv.Atoi(lower[m[2]:m[3]])
		minute, _ := strconv.Atoi(lower[m[4]:m[5]])
		if m[6] >= 0 {
			out = append(out, timeEntity(applyMeridiem(hour, lower[m[6]:m[7]])*60+minute, m[0], m[1], false))
			continue
		}
		if hour >= 1 && hour <= 11 {
			out = append(out, timeEntity(daytimeBias(hour*60+minute, ref), m[0], m[1], true))
			continue
		}
		out = append(out, timeEntity(hour*60+minute, m[0], m[1], false))
	}

	for _, m := range reHourAmPm.FindAllStringSubmatchIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		hour, _ := strconv.Atoi(lower[m[2]:m[3]])
		out = append(out, timeEntity(applyMeridiem(hour, lower[m[4]:m[5]])*60, m[0], m[1], false))
	}

	for _, m := range reWordTime.FindAllStringSubmatchIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		hour := wordTimeValues[lower[m[2]:m[3]]]
		out = append(out, timeEntity(applyMeridiem(hour, lower[m[4]:m[5]])*60, m[0], m[1], false))
	}

	for _, m := range reOClock.FindAllStringSubmatchIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		hour, _ := strconv.Atoi(lower[m[2]:m[3]])
		out = append(out, timeEntity(daytimeBias(hour%12*60, ref), m[0], m[1], true))
	}

	for _, m := range reAtHour.FindAllStringSubmatchIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		hour, _ := strconv.Atoi(lower[m[2]:m[3]])
		out = append(out, timeEntity(daytimeBias(hour%12*60, ref), m[0], m[1], true))
	}

	return out
}

func applyMeridiem(hour int, meridiem string) int {
	if meridiem == "pm" && hour < 12 {
		return hour + 12
	}
	if meridiem == "am" && hour == 12 {
		return 0
	}
	return hour
}

// daytimeBias resolves a bare hour with no AM/PM: of the two possible
// instants, prefer the next one at or after the reference time of day,
// falling back to the morning reading when both have passed.
func daytimeBias(minutes int, ref time.Time) int {
	refMinutes := ref.Hour()*60 + ref.Minute()
	if minutes >= refMinutes {
		return minutes
	}
	if minutes+12*60 >= refMinutes {
		return minutes + 12*60
	}
	return minutes
}

func extractDurations(lower string) []models.Entity {
	var out []models.Entity
	var claimed claimedSpans

	for _, m := range reDuration.FindAllStringSubmatchIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		n, _ := strconv.Atoi(lower[m[2]:m[3]])
		if strings.HasPrefix(lower[m[4]:m[5]], "h") {
			n *= 60
		}
		out = append(out, models.Entity{
			Kind:      models.EntityDuration,
			Value:     fmt.Sprintf("%dm", n),
			Minutes:   n,
			SpanStart: m[0],
			SpanEnd:   m[1],
		})
	}

	for _, m := range reHalfHour.FindAllStringIndex(lower, -1) {
		if !claimed.claim(m[0], m[1]) {
			continue
		}
		out = append(out, models.Entity{
			Kind:      models.EntityDuration,
			Value:     "30m",
			Minutes:   30,
			SpanStart: m[0],
			SpanEnd:   m[1],
		})
	}

	return out
}

func extractReferences(lower string) []models.Entity {
	var out []models.Entity
	for _, m := range reFirstFree.FindAllStringIndex(lower, -1) {
		out = append(out, models.Entity{
			Kind:      models.EntityReference,
			Value:     "first_available",
			SpanStart: m[0],
			SpanEnd:   m[1],
		})
	}
	return out
}

func extractNames(lower string) []models.Entity {
	var out []models.Entity
	for _, m := range reWithName.FindAllStringSubmatchIndex(lower, -1) {
		name := lower[m[2]:m[3]]
		if nameStopwords[name] {
			continue
		}
		out = append(out, models.Entity{
			Kind:      models.EntityName,
			Value:     name,
			SpanStart: m[2],
			SpanEnd:   m[3],
		})
	}
	return out
}
