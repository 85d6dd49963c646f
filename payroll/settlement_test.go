package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fleetline/payroll-engine/calendar"
	"github.com/fleetline/payroll-engine/load"
	"github.com/fleetline/payroll-engine/payroll"
	"github.com/fleetline/payroll-engine/period"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func weekOf(start string) period.PaymentPeriod {
	s := calendar.MustParseDate(start)
	return period.PaymentPeriod{
		StartDate: s,
		EndDate:   s.AddDays(6),
		Frequency: period.Weekly,
		Kind:      period.KindCurrent,
	}
}

func deliveredLoad(amount string, deliveredOn string) load.Load {
	return load.Load{
		Status:      load.StatusDelivered,
		TotalAmount: decimal.RequireFromString(amount),
		DeliveredOn: calendar.MustParseDate(deliveredOn),
	}
}

func expense(amount string, date string) payroll.Expense {
	return payroll.Expense{
		Amount: decimal.RequireFromString(amount),
		Date:   calendar.MustParseDate(date),
	}
}

// =============================================================================
// ATTRIBUTION TESTS
// =============================================================================

func TestSettle_AttributesByDateContainment(t *testing.T) {
	// GIVEN: The week of 2025-08-25, loads delivered inside and outside it
	p := weekOf("2025-08-25")
	loads := []load.Load{
		deliveredLoad("1200.50", "2025-08-26"),
		deliveredLoad("800.00", "2025-08-31"), // last day, inclusive
		deliveredLoad("999.99", "2025-09-01"), // next period
	}

	s := payroll.Settle(p, loads, nil, nil)

	assert.Equal(t, "2000.5", s.GrossEarnings.String())
	assert.Equal(t, 2, s.LoadCount)
	assert.Equal(t, "2000.5", s.NetPayment.String())
	assert.False(t, s.HasNegativeBalance)
}

func TestSettle_InFlightLoadsEarnNothing(t *testing.T) {
	// A load mid-lifecycle earns nothing even if dated inside the period.
	p := weekOf("2025-08-25")
	inFlight := load.Load{
		Status:      load.StatusEnRouteDelivery,
		TotalAmount: decimal.RequireFromString("5000"),
		DeliveredOn: calendar.MustParseDate("2025-08-27"),
	}
	noDate := load.Load{
		Status:      load.StatusDelivered,
		TotalAmount: decimal.RequireFromString("5000"),
	}

	s := payroll.Settle(p, []load.Load{inFlight, noDate}, nil, nil)
	assert.True(t, s.GrossEarnings.IsZero())
	assert.Zero(t, s.LoadCount)
}

func TestSettle_ClosedLoadsStillEarn(t *testing.T) {
	p := weekOf("2025-08-25")
	closed := deliveredLoad("750.25", "2025-08-28")
	closed.Status = load.StatusClosed

	s := payroll.Settle(p, []load.Load{closed}, nil, nil)
	assert.Equal(t, "750.25", s.GrossEarnings.String())
}

// =============================================================================
// MONEY MATH TESTS
// =============================================================================

func TestSettle_NetPayment(t *testing.T) {
	// net = gross + other income - deductions
	p := weekOf("2025-08-25")
	loads := []load.Load{deliveredLoad("2000.00", "2025-08-26")}
	expenses := []payroll.Expense{
		expense("350.75", "2025-08-27"),
		expense("100.00", "2025-09-02"), // outside, ignored
	}
	income := []payroll.OtherIncome{{
		Amount: decimal.RequireFromString("50.25"),
		Date:   calendar.MustParseDate("2025-08-29"),
	}}

	s := payroll.Settle(p, loads, expenses, income)

	assert.Equal(t, "2050.25", s.TotalIncome.StringFixed(2))
	assert.Equal(t, "350.75", s.TotalDeductions.StringFixed(2))
	assert.Equal(t, "1699.50", s.NetPayment.StringFixed(2))
	assert.Equal(t, 1, s.ExpenseCount)
}

func TestSettle_NegativeBalanceFlaggedNotClamped(t *testing.T) {
	// GIVEN: Deductions exceeding income
	// THEN: The real negative number is kept and the flag is raised

	p := weekOf("2025-08-25")
	loads := []load.Load{deliveredLoad("100.00", "2025-08-26")}
	expenses := []payroll.Expense{expense("400.00", "2025-08-26")}

	s := payroll.Settle(p, loads, expenses, nil)

	assert.Equal(t, "-300.00", s.NetPayment.StringFixed(2))
	assert.True(t, s.HasNegativeBalance)
}

func TestSettle_EmptyPeriod(t *testing.T) {
	s := payroll.Settle(weekOf("2025-08-25"), nil, nil, nil)
	assert.True(t, s.NetPayment.IsZero())
	assert.False(t, s.HasNegativeBalance)
	assert.Zero(t, s.LoadCount)
	assert.Zero(t, s.ExpenseCount)
}
