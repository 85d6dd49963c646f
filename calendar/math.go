package calendar

import "time"

// =============================================================================
// MONTH / QUARTER / YEAR BOUNDARIES
// =============================================================================

// StartOfMonth returns the first day of the month containing d.
func StartOfMonth(d Date) Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// EndOfMonth returns the last day of the month containing d. Computed as
// the first day of the next month minus one day, which resolves February
// and leap years correctly.
func EndOfMonth(d Date) Date {
	return NewDate(d.Year(), d.Month(), 1).AddMonths(1).AddDays(-1)
}

// StartOfQuarter returns the first day of the calendar quarter containing d.
func StartOfQuarter(d Date) Date {
	q := (int(d.Month()) - 1) / 3
	return NewDate(d.Year(), time.Month(q*3+1), 1)
}

// EndOfQuarter returns the last day of the calendar quarter containing d.
func EndOfQuarter(d Date) Date {
	return StartOfQuarter(d).AddMonths(3).AddDays(-1)
}

func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

// =============================================================================
// WEEK MATH
// =============================================================================

// MostRecentWeekday returns the latest date on or before d that falls on
// the given weekday. Same-day counts.
func MostRecentWeekday(d Date, wd time.Weekday) Date {
	back := (int(d.Weekday()) - int(wd) + 7) % 7
	return d.AddDays(-back)
}

// WeekNumber returns the ISO-8601 week number of d. The numbering is
// informational (period card labels); it is never used as a join key.
func WeekNumber(d Date) int {
	_, week := d.t.ISOWeek()
	return week
}

// WeekYear returns the ISO-8601 week-numbering year of d, which can differ
// from the calendar year around New Year.
func WeekYear(d Date) int {
	year, _ := d.t.ISOWeek()
	return year
}
