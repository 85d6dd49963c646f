/*
Package calendar provides timezone-safe, date-only arithmetic.

PURPOSE:
  Everything in the payroll engine is computed over calendar dates, never
  zoned timestamps. A pay period that starts "2025-08-25" starts on that
  date for everyone, regardless of which machine computed it. This package
  owns the single conversion point from wall-clock time to a calendar date
  and all the date math built on top of it.

KEY CONCEPTS:
  - Date: a calendar date with no time component, normalized to midnight UTC
  - DateOf: the ONLY way a time.Time plus a timezone becomes a Date
  - Month-end arithmetic via "first of next month minus one day", which
    handles February and leap years without special cases

WHY MIDNIGHT UTC:
  Arithmetic on zoned timestamps is where off-by-one-day bugs live: a date
  serialized near midnight crosses into a different day in a different zone.
  Normalizing to midnight UTC after the single explicit zone conversion
  makes every subsequent comparison and AddDays call deterministic.

SEE ALSO:
  - math.go: week numbering and month/quarter boundaries
  - period/calculator.go: the main consumer
*/
package calendar

import "time"

// =============================================================================
// DATE - Calendar date with no time component
// =============================================================================

// Date is a calendar date. The zero value is the zero date.
type Date struct {
	t time.Time // always midnight UTC
}

// NewDate constructs a Date from its components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf converts an instant to the calendar date it falls on in loc.
// A nil loc means the instant's own location. This is the only place the
// engine looks at a timezone; everything downstream is pure date math.
func DateOf(at time.Time, loc *time.Location) Date {
	if loc != nil {
		at = at.In(loc)
	}
	return NewDate(at.Year(), at.Month(), at.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// =============================================================================
// COMPARISON
// =============================================================================

func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.t.After(other.t) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.t.Before(other.t) }
func (d Date) IsZero() bool                  { return d.t.IsZero() }

// =============================================================================
// ARITHMETIC
// =============================================================================

func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

// DaysBetween returns the number of days from `from` to `to` (negative if
// to is earlier).
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// =============================================================================
// PROPERTIES
// =============================================================================

func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) YearDay() int          { return d.t.YearDay() }

// Time returns the underlying midnight-UTC instant, for storage and
// formatting only.
func (d Date) Time() time.Time { return d.t }

// String formats as YYYY-MM-DD.
func (d Date) String() string { return d.t.Format("2006-01-02") }

// MarshalJSON encodes the date as a "YYYY-MM-DD" JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" JSON string.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// CLOCK - Injected time source
// =============================================================================

// Clock supplies the current instant. Injected everywhere instead of
// calling time.Now so that period boundaries are reproducible in tests and
// identical between client preview and server computation.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. For tests.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }
