/*
Package payroll attributes money to payment periods.

PURPOSE:
  Once period boundaries exist (package period) and loads reach the end of
  their lifecycle (package load), payroll answers "what does this driver
  get paid for this period": which delivered loads fall inside the range,
  which expenses and other income count against it, and the resulting net.

ATTRIBUTION RULE:
  Date containment, nothing else. A load belongs to the period containing
  its delivery date; an expense belongs to the period containing its
  expense date. Periods are inclusive on both bounds, so every date maps
  to exactly one period of a given configuration.

PRECISION:
  All money is decimal.Decimal. Floats never touch financial values.
*/
package payroll

import (
	"github.com/shopspring/decimal"

	"github.com/fleetline/payroll-engine/calendar"
	"github.com/fleetline/payroll-engine/load"
	"github.com/fleetline/payroll-engine/period"
)

// =============================================================================
// INPUT LINE ITEMS
// =============================================================================

// Expense is a deduction attributed by date: fuel, insurance, a recurring
// lease installment.
type Expense struct {
	ID          string
	DriverID    string
	Date        calendar.Date
	Amount      decimal.Decimal
	Category    string
	Description string
}

// OtherIncome is a non-load credit: a bonus, a reimbursement.
type OtherIncome struct {
	ID          string
	DriverID    string
	Date        calendar.Date
	Amount      decimal.Decimal
	Description string
}

// =============================================================================
// SETTLEMENT - Computed totals for one period
// =============================================================================

// Settlement is the money summary of one payment period.
type Settlement struct {
	Period period.PaymentPeriod

	GrossEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	OtherIncome     decimal.Decimal
	TotalIncome     decimal.Decimal
	NetPayment      decimal.Decimal

	// HasNegativeBalance flags deductions exceeding income; flagged, not
	// clamped, so payroll staff see the real number.
	HasNegativeBalance bool

	// Counts of attributed line items, for report summaries.
	LoadCount    int
	ExpenseCount int
}

// Settle computes the settlement for one period. Only loads that have
// completed their lifecycle (delivered or closed, with a delivery date
// inside the period) earn; in-flight loads earn nothing yet.
func Settle(p period.PaymentPeriod, loads []load.Load, expenses []Expense, income []OtherIncome) Settlement {
	s := Settlement{Period: p}
	gross := decimal.Zero
	deductions := decimal.Zero
	other := decimal.Zero

	for _, l := range loads {
		if !earns(l) || !p.Contains(l.DeliveredOn) {
			continue
		}
		gross = gross.Add(l.TotalAmount)
		s.LoadCount++
	}

	for _, e := range expenses {
		if !p.Contains(e.Date) {
			continue
		}
		deductions = deductions.Add(e.Amount)
		s.ExpenseCount++
	}

	for _, oi := range income {
		if !p.Contains(oi.Date) {
			continue
		}
		other = other.Add(oi.Amount)
	}

	s.GrossEarnings = gross
	s.TotalDeductions = deductions
	s.OtherIncome = other
	s.TotalIncome = gross.Add(other)
	s.NetPayment = s.TotalIncome.Sub(deductions)
	s.HasNegativeBalance = s.NetPayment.IsNegative()
	return s
}

// earns reports whether a load's lifecycle has reached the point where it
// counts toward gross earnings.
func earns(l load.Load) bool {
	return (l.Status == load.StatusDelivered || l.Status == load.StatusClosed) &&
		!l.DeliveredOn.IsZero()
}
