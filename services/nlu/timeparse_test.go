package nlu

import (
	"testing"
	"time"

	"concierge/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday morning, so weekday and daytime resolution are predictable.
var parserRef = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func parse(t *testing.T, text string) []models.Entity {
	t.Helper()
	return ExtractAll(NewDefaultParser(), text, parserRef)
}

func firstOfKind(entities []models.Entity, kind models.EntityKind) (models.Entity, bool) {
	for _, e := range entities {
		if e.Kind == kind {
			return e, true
		}
	}
	return models.Entity{}, false
}

func TestParserRelativeDates(t *testing.T) {
	cases := map[string]string{
		"see you today":        "2025-03-03",
		"book tomorrow please": "2025-03-04",
		"I called yesterday":   "2025-03-02",
	}
	for text, want := range cases {
		e, ok := firstOfKind(parse(t, text), models.EntityDate)
		require.True(t, ok, "no date in %q", text)
		assert.Equal(t, want, e.Value, "text %q", text)
	}
}

func TestParserWeekdays(t *testing.T) {
	cases := map[string]string{
		"next friday":      "2025-03-07",
		"this friday":      "2025-03-07",
		"friday":           "2025-03-07",
		"next monday":      "2025-03-10", // "next" on the same weekday means a week out
		"monday works":     "2025-03-03",
		"maybe wednesday?": "2025-03-05",
	}
	for text, want := range cases {
		e, ok := firstOfKind(parse(t, text), models.EntityDate)
		require.True(t, ok, "no date in %q", text)
		assert.Equal(t, want, e.Value, "text %q", text)
	}
}

func TestParserOffsetDates(t *testing.T) {
	cases := map[string]string{
		"in 3 days":     "2025-03-06",
		"in 1 week":     "2025-03-10",
		"after 2 weeks": "2025-03-17",
	}
	for text, want := range cases {
		e, ok := firstOfKind(parse(t, text), models.EntityDate)
		require.True(t, ok, "no date in %q", text)
		assert.Equal(t, want, e.Value, "text %q", text)
	}
}

func TestParserAbsoluteDates(t *testing.T) {
	e, ok := firstOfKind(parse(t, "on 2025-04-01 please"), models.EntityDate)
	require.True(t, ok)
	assert.Equal(t, "2025-04-01", e.Value)

	e, ok = firstOfKind(parse(t, "on 03/15/2025"), models.EntityDate)
	require.True(t, ok)
	assert.Equal(t, "2025-03-15", e.Value)
}

func TestParserTimes(t *testing.T) {
	cases := []struct {
		text      string
		minutes   int
		ambiguous bool
	}{
		{"at 10 am", 600, false},
		{"around 3 pm", 900, false},
		{"at 14:30", 870, false},
		{"at 10:15 pm", 1335, false},
		{"three pm", 900, false},
		{"12 am sharp", 0, false},
		{"12 pm sharp", 720, false},
		// No meridiem: the next plausible occurrence after 9:00 wins.
		{"at 10", 600, true},
		{"at 2:30", 870, true},
		{"5 o'clock", 1020, true},
		{"at 11", 660, true},
	}
	for _, tc := range cases {
		e, ok := firstOfKind(parse(t, tc.text), models.EntityTime)
		require.True(t, ok, "no time in %q", tc.text)
		assert.Equal(t, tc.minutes, e.Minutes, "text %q", tc.text)
		assert.Equal(t, models.MinutesToClock(tc.minutes), e.Value, "text %q", tc.text)
		assert.Equal(t, tc.ambiguous, e.Ambiguous, "text %q", tc.text)
	}
}

func TestParserTimeOverlapSuppression(t *testing.T) {
	// "at 10 am" must yield a single time, not one reading per pattern.
	var times []models.Entity
	for _, e := range parse(t, "book at 10 am") {
		if e.Kind == models.EntityTime {
			times = append(times, e)
		}
	}
	require.Len(t, times, 1)
	assert.Equal(t, 600, times[0].Minutes)
	assert.False(t, times[0].Ambiguous)
}

func TestParserDurations(t *testing.T) {
	cases := map[string]int{
		"for 1 hour":       60,
		"for 2 hrs":        120,
		"for 45 minutes":   45,
		"for half an hour": 30,
	}
	for text, want := range cases {
		e, ok := firstOfKind(parse(t, text), models.EntityDuration)
		require.True(t, ok, "no duration in %q", text)
		assert.Equal(t, want, e.Minutes, "text %q", text)
	}
}

func TestParserReferencesAndNames(t *testing.T) {
	e, ok := firstOfKind(parse(t, "book the first available slot"), models.EntityReference)
	require.True(t, ok)
	assert.Equal(t, "first_available", e.Value)

	_, ok = firstOfKind(parse(t, "the earliest works"), models.EntityReference)
	assert.True(t, ok)

	e, ok = firstOfKind(parse(t, "a meeting with alex"), models.EntityName)
	require.True(t, ok)
	assert.Equal(t, "alex", e.Value)

	_, ok = firstOfKind(parse(t, "come with me"), models.EntityName)
	assert.False(t, ok, "pronouns are not names")
}

func TestParserSequenceRestartable(t *testing.T) {
	seq := NewDefaultParser().Entities("book tomorrow at 10 am for 1 hour with alex", parserRef)

	var first, second []models.Entity
	for e := range seq {
		first = append(first, e)
	}
	for e := range seq {
		second = append(second, e)
	}
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestParserEmptyText(t *testing.T) {
	assert.Empty(t, parse(t, ""))
	assert.Empty(t, parse(t, "nothing to see here"))
}
