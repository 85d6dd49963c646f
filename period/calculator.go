/*
calculator.go - Deterministic period boundary computation

PURPOSE:
  Maps (frequency, cycle start day, reference date) to period boundaries.
  Pure functions over inputs: no clock reads, no I/O, safe to memoize.

ALGORITHM:
  weekly/biweekly:
    start = most recent cycle-start weekday at or before the reference
            date (same-day counts); end = start + 6 or + 13 days
  monthly:
    start = first of the reference month; end = last calendar day of that
    month, computed from the calendar (never a fixed day count)

  previous/next re-invoke the same algorithm with the reference shifted by
  one full period length. Monthly shifts by a calendar month from the
  current period's start, because monthly periods vary in length and a
  fixed day offset would drift.

EDGE-CASE POLICY:
  - cycle start day outside 1..7 clamps to Monday; non-fatal
  - unrecognized frequency is a ConfigurationError; never guessed

SEE ALSO:
  - calendar/math.go: weekday and month-end helpers
  - resolver.go: chooses between these results and persisted records
*/
package period

import (
	"time"

	"github.com/fleetline/payroll-engine/calendar"
)

// =============================================================================
// CONFIG
// =============================================================================

// Config is the company payroll configuration the calculator runs under.
type Config struct {
	Frequency Frequency

	// CycleStartDay is the weekday a weekly/biweekly period begins on:
	// 1=Monday .. 7=Sunday. Ignored for monthly.
	CycleStartDay int
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator computes period boundaries for one configuration.
type Calculator struct {
	cfg     Config
	weekday time.Weekday
}

// NewCalculator validates the configuration. An unknown frequency fails;
// an out-of-range cycle start day clamps to Monday and proceeds.
func NewCalculator(cfg Config) (*Calculator, error) {
	if _, err := ParseFrequency(string(cfg.Frequency)); err != nil {
		return nil, err
	}
	day := cfg.CycleStartDay
	if day < 1 || day > 7 {
		day = 1
	}
	return &Calculator{
		cfg:     Config{Frequency: cfg.Frequency, CycleStartDay: day},
		weekday: cycleWeekday(day),
	}, nil
}

// cycleWeekday maps the 1=Monday..7=Sunday convention onto time.Weekday,
// where Sunday is index 0.
func cycleWeekday(day int) time.Weekday {
	return time.Weekday(day % 7)
}

// Current returns the period containing the reference date.
func (c *Calculator) Current(ref calendar.Date) PaymentPeriod {
	return c.periodAt(ref, KindCurrent)
}

// Previous returns the period immediately before the one containing ref.
func (c *Calculator) Previous(ref calendar.Date) PaymentPeriod {
	cur := c.periodAt(ref, KindCurrent)
	return c.periodAt(c.shiftBack(cur), KindPrevious)
}

// Next returns the period immediately after the one containing ref.
func (c *Calculator) Next(ref calendar.Date) PaymentPeriod {
	cur := c.periodAt(ref, KindCurrent)
	return c.periodAt(c.shiftForward(cur), KindNext)
}

// Preview returns n consecutive periods starting with the current one,
// advancing one full period at a time. The first entry is KindCurrent,
// the rest KindNext.
func (c *Calculator) Preview(ref calendar.Date, n int) []PaymentPeriod {
	if n <= 0 {
		return nil
	}
	periods := make([]PaymentPeriod, 0, n)
	p := c.periodAt(ref, KindCurrent)
	periods = append(periods, p)
	for i := 1; i < n; i++ {
		p = c.periodAt(c.shiftForward(p), KindNext)
		periods = append(periods, p)
	}
	return periods
}

// periodAt computes the period containing ref and tags it with kind.
func (c *Calculator) periodAt(ref calendar.Date, kind Kind) PaymentPeriod {
	p := PaymentPeriod{
		Frequency:     c.cfg.Frequency,
		CycleStartDay: c.cfg.CycleStartDay,
		Kind:          kind,
	}
	switch c.cfg.Frequency {
	case Weekly, Biweekly:
		p.StartDate = calendar.MostRecentWeekday(ref, c.weekday)
		p.EndDate = p.StartDate.AddDays(c.cfg.Frequency.Days() - 1)
	case Monthly:
		p.StartDate = calendar.StartOfMonth(ref)
		p.EndDate = calendar.EndOfMonth(ref)
		p.CycleStartDay = 0 // meaningless for monthly
	}
	return p
}

// shiftBack returns a reference date inside the period before cur.
func (c *Calculator) shiftBack(cur PaymentPeriod) calendar.Date {
	if c.cfg.Frequency == Monthly {
		return cur.StartDate.AddMonths(-1)
	}
	return cur.StartDate.AddDays(-c.cfg.Frequency.Days())
}

// shiftForward returns a reference date inside the period after cur.
func (c *Calculator) shiftForward(cur PaymentPeriod) calendar.Date {
	if c.cfg.Frequency == Monthly {
		return cur.StartDate.AddMonths(1)
	}
	return cur.EndDate.AddDays(1)
}
