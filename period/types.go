/*
Package period computes and resolves payroll payment periods.

PURPOSE:
  A payment period is the contiguous date range over which a driver's
  earnings and deductions are aggregated. This package owns:
  - Calculator: pure mapping from (frequency, cycle start day, reference
    date) to current/previous/next boundaries and forward previews
  - Resolver: the single precedence rule between a persisted period record
    and a computed one

DESIGN PRINCIPLES:
  1. Determinism: same inputs always produce the same boundaries. The
     reference date is an explicit parameter, never read from a global
     clock, so client preview and server computation cannot disagree.
  2. Inclusive bounds: [StartDate, EndDate] both belong to the period.
  3. Money precision: persisted records carry decimal.Decimal totals,
     never floats.

SEE ALSO:
  - calculator.go: boundary algorithm
  - resolver.go: persisted-vs-computed precedence
  - payroll/: settlement math over a period
*/
package period

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fleetline/payroll-engine/calendar"
)

// =============================================================================
// FREQUENCY - How often a new period begins
// =============================================================================

type Frequency string

const (
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
)

// ParseFrequency converts a raw string to a Frequency. Unknown values are
// a configuration error, never defaulted: a wrong frequency silently
// becoming weekly would misattribute money.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(s)
	switch f {
	case Weekly, Biweekly, Monthly:
		return f, nil
	}
	return "", &ConfigurationError{Field: "frequency", Value: s, Reason: ErrUnknownFrequency.Error()}
}

// Days returns the fixed period length in days, or 0 for monthly whose
// length varies by calendar month.
func (f Frequency) Days() int {
	switch f {
	case Weekly:
		return 7
	case Biweekly:
		return 14
	default:
		return 0
	}
}

// =============================================================================
// KIND - Which period relative to the reference date
// =============================================================================

type Kind string

const (
	KindCurrent  Kind = "current"
	KindPrevious Kind = "previous"
	KindNext     Kind = "next"
	KindSpecific Kind = "specific" // persisted record addressed by id
	KindCustom   Kind = "custom"   // caller-supplied explicit range
)

// =============================================================================
// PAYMENT PERIOD - Value object, immutable once computed
// =============================================================================

// PaymentPeriod is a computed period. It has no identity; a persisted
// counterpart with a stable id is a Record.
type PaymentPeriod struct {
	StartDate     calendar.Date `json:"start_date"`
	EndDate       calendar.Date `json:"end_date"`
	Frequency     Frequency     `json:"frequency"`
	CycleStartDay int           `json:"cycle_start_day,omitempty"`
	Kind          Kind          `json:"kind"`
}

// Contains reports whether d falls within [StartDate, EndDate].
func (p PaymentPeriod) Contains(d calendar.Date) bool {
	return d.AfterOrEqual(p.StartDate) && d.BeforeOrEqual(p.EndDate)
}

// Days returns the period length in days, inclusive of both bounds.
func (p PaymentPeriod) Days() int {
	return calendar.DaysBetween(p.StartDate, p.EndDate) + 1
}

// Validate checks the internal invariants: start before end, and the
// frequency-specific length (7 for weekly, 14 for biweekly, the covered
// calendar month for monthly).
func (p PaymentPeriod) Validate() error {
	if p.StartDate.IsZero() || p.EndDate.IsZero() || p.EndDate.Before(p.StartDate) {
		return ErrInvalidPeriod
	}
	switch p.Frequency {
	case Weekly, Biweekly:
		if p.Days() != p.Frequency.Days() {
			return fmt.Errorf("%w: %s period spans %d days", ErrInvalidPeriod, p.Frequency, p.Days())
		}
	case Monthly:
		if !p.EndDate.Equal(calendar.EndOfMonth(p.EndDate)) {
			return fmt.Errorf("%w: monthly period must end on the last day of a month", ErrInvalidPeriod)
		}
	}
	return nil
}

// String formats as "[start, end]".
func (p PaymentPeriod) String() string {
	return "[" + p.StartDate.String() + ", " + p.EndDate.String() + "]"
}

// Label produces the short tag shown on period cards: "WK35 - 2025" for
// weekly spans, "AUG - 2025" for monthly, "AUG15 - 2025" for mid-length
// spans. Week numbering uses the ISO week and week-year of the start date.
func (p PaymentPeriod) Label() string {
	days := p.Days()
	month := strings.ToUpper(p.StartDate.Month().String()[:3])

	switch {
	case days <= 10:
		return fmt.Sprintf("WK%02d - %d", calendar.WeekNumber(p.StartDate), calendar.WeekYear(p.StartDate))
	case days >= 25 && days <= 35:
		return fmt.Sprintf("%s - %d", month, p.StartDate.Year())
	case days > 10 && days < 25:
		return fmt.Sprintf("%s%02d - %d", month, p.StartDate.Day(), p.StartDate.Year())
	default:
		return fmt.Sprintf("%s - %d", month, p.StartDate.Year())
	}
}

// =============================================================================
// RECORD - Persisted period with identity and money totals
// =============================================================================

// RecordStatus is the payroll lifecycle of a persisted period.
type RecordStatus string

const (
	StatusOpen       RecordStatus = "open"
	StatusProcessing RecordStatus = "processing"
	StatusPaid       RecordStatus = "paid"
	StatusClosed     RecordStatus = "closed"
)

// Record is a persisted payment period. Its dates may have been manually
// adjusted by payroll staff, which is why the resolver prefers them
// verbatim over recomputed boundaries.
type Record struct {
	ID           string
	DriverUserID string
	StartDate    calendar.Date
	EndDate      calendar.Date
	Frequency    Frequency
	Status       RecordStatus
	Locked       bool

	GrossEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	OtherIncome     decimal.Decimal
	NetPayment      decimal.Decimal
}

// WellFormed reports whether the persisted date range is still internally
// consistent: both bounds present and start not after end.
func (r *Record) WellFormed() bool {
	return r != nil && !r.StartDate.IsZero() && !r.EndDate.IsZero() &&
		r.StartDate.BeforeOrEqual(r.EndDate)
}

// Period projects the record onto the value-object shape.
func (r *Record) Period() PaymentPeriod {
	return PaymentPeriod{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Frequency: r.Frequency,
		Kind:      KindSpecific,
	}
}
