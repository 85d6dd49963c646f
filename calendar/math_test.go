package calendar_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetline/payroll-engine/calendar"
)

// =============================================================================
// MONTH BOUNDARY TESTS
// =============================================================================

func TestEndOfMonth_RegularMonths(t *testing.T) {
	// GIVEN: Dates in months of different lengths
	// WHEN: Computing the end of month
	// THEN: The actual last day is returned, never a normalized overflow

	cases := []struct {
		in   string
		want string
	}{
		{"2025-01-15", "2025-01-31"},
		{"2025-04-01", "2025-04-30"},
		{"2025-02-10", "2025-02-28"},
		{"2024-02-10", "2024-02-29"}, // leap year
		{"2025-12-31", "2025-12-31"},
	}
	for _, c := range cases {
		d := calendar.MustParseDate(c.in)
		assert.Equal(t, c.want, calendar.EndOfMonth(d).String(), "end of month for %s", c.in)
	}
}

func TestStartOfMonth(t *testing.T) {
	d := calendar.MustParseDate("2025-08-28")
	assert.Equal(t, "2025-08-01", calendar.StartOfMonth(d).String())

	first := calendar.MustParseDate("2025-08-01")
	assert.Equal(t, first, calendar.StartOfMonth(first))
}

func TestQuarterAndYearBoundaries(t *testing.T) {
	d := calendar.MustParseDate("2025-08-28")
	assert.Equal(t, "2025-07-01", calendar.StartOfQuarter(d).String())
	assert.Equal(t, "2025-09-30", calendar.EndOfQuarter(d).String())
	assert.Equal(t, "2025-01-01", calendar.StartOfYear(2025).String())
	assert.Equal(t, "2025-12-31", calendar.EndOfYear(2025).String())
}

// =============================================================================
// WEEKDAY TESTS
// =============================================================================

func TestMostRecentWeekday(t *testing.T) {
	// GIVEN: Thursday 2025-08-28
	thursday := calendar.MustParseDate("2025-08-28")

	// WHEN: Walking back to each weekday
	// THEN: The result is the most recent such weekday, at most 6 days back
	assert.Equal(t, "2025-08-25", calendar.MostRecentWeekday(thursday, time.Monday).String())
	assert.Equal(t, "2025-08-28", calendar.MostRecentWeekday(thursday, time.Thursday).String(),
		"a date already on the target weekday maps to itself")
	assert.Equal(t, "2025-08-22", calendar.MostRecentWeekday(thursday, time.Friday).String())
	assert.Equal(t, "2025-08-24", calendar.MostRecentWeekday(thursday, time.Sunday).String())
}

func TestMostRecentWeekday_NeverMoreThanSixDaysBack(t *testing.T) {
	start := calendar.NewDate(2025, time.January, 1)
	for i := 0; i < 14; i++ {
		d := start.AddDays(i)
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			got := calendar.MostRecentWeekday(d, wd)
			back := calendar.DaysBetween(got, d)
			assert.GreaterOrEqual(t, back, 0)
			assert.LessOrEqual(t, back, 6)
			assert.Equal(t, wd, got.Weekday())
		}
	}
}

// =============================================================================
// DATE VALUE TESTS
// =============================================================================

func TestDate_TimezoneIndependence(t *testing.T) {
	// GIVEN: The same instant late in the evening in New York
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	at := time.Date(2025, time.August, 28, 23, 30, 0, 0, ny)

	// WHEN: Taking the civil date in each zone
	// THEN: The zone decides which day it is; arithmetic is then zone-free
	assert.Equal(t, "2025-08-28", calendar.DateOf(at, ny).String())
	assert.Equal(t, "2025-08-29", calendar.DateOf(at, time.UTC).String())
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := calendar.MustParseDate("2025-02-28")

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-02-28"`, string(data))

	var back calendar.Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, d.Equal(back))
}

func TestDaysBetween_Inclusive(t *testing.T) {
	from := calendar.MustParseDate("2025-08-25")
	to := calendar.MustParseDate("2025-08-31")
	assert.Equal(t, 6, calendar.DaysBetween(from, to))
	assert.Equal(t, -6, calendar.DaysBetween(to, from))
}
