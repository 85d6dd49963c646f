package load_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetline/payroll-engine/calendar"
	"github.com/fleetline/payroll-engine/load"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func twoStopLoad(status load.Status) *load.Load {
	return &load.Load{
		ID:     "load-1",
		Status: status,
		Stops: []load.Stop{
			{ID: "stop-1", StopNumber: 1, Type: load.StopPickup, City: "Dallas", State: "TX"},
			{ID: "stop-2", StopNumber: 2, Type: load.StopDelivery, City: "Memphis", State: "TN"},
		},
	}
}

func fourStopLoad(status load.Status) *load.Load {
	return &load.Load{
		ID:     "load-2",
		Status: status,
		Stops: []load.Stop{
			{ID: "s1", StopNumber: 1, Type: load.StopPickup},
			{ID: "s2", StopNumber: 2, Type: load.StopPickup},
			{ID: "s3", StopNumber: 3, Type: load.StopDelivery},
			{ID: "s4", StopNumber: 4, Type: load.StopDelivery},
		},
	}
}

// =============================================================================
// PERCENT FORMULA TESTS
// =============================================================================

func TestComputeProgress_TwoStops(t *testing.T) {
	// GIVEN: A classic pickup+delivery load (7 total states, 14% per state)
	cases := []struct {
		status load.Status
		want   int
	}{
		{load.StatusAssigned, 0},
		{load.StatusEnRoutePickup, 14},
		{load.StatusAtPickup, 28},
		{load.StatusLoaded, 42},
		{load.StatusEnRouteDelivery, 56},
		{load.StatusAtDelivery, 70},
		{load.StatusDelivered, 84},
		{load.StatusClosed, 100},
	}
	for _, c := range cases {
		p := load.ComputeProgress(twoStopLoad(c.status))
		assert.Equal(t, 7, p.TotalStates, "status %s", c.status)
		assert.Equal(t, c.want, p.Percent, "status %s", c.status)
		assert.False(t, p.Degraded)
	}
}

func TestComputeProgress_FourStops(t *testing.T) {
	// GIVEN: A 4-stop load: 13 total states, 7% per state
	p := load.ComputeProgress(fourStopLoad(load.StatusLoaded))
	assert.Equal(t, 13, p.TotalStates)
	assert.Equal(t, 21, p.Percent)

	// More stops means each status step is worth less
	further := load.ComputeProgress(fourStopLoad(load.StatusEnRouteDelivery))
	assert.Equal(t, 28, further.Percent)
	assert.Greater(t, further.Percent, p.Percent)
}

func TestComputeProgress_StrictlyMonotonic(t *testing.T) {
	// WHEN: Walking the whole lifecycle
	// THEN: The percentage strictly increases and only closed reaches 100

	for _, mk := range []func(load.Status) *load.Load{twoStopLoad, fourStopLoad} {
		prev := -1
		for _, s := range statusChain {
			p := load.ComputeProgress(mk(s))
			assert.Greater(t, p.Percent, prev, "status %s", s)
			assert.LessOrEqual(t, p.Percent, 99, "only closed may reach 100 (status %s)", s)
			prev = p.Percent
		}
		closed := load.ComputeProgress(mk(load.StatusClosed))
		assert.Equal(t, 100, closed.Percent)
	}
}

func TestComputeProgress_DeliveredNeverShowsComplete(t *testing.T) {
	// A delivered load still waits for the payment period to close.
	single := &load.Load{
		ID:     "load-3",
		Status: load.StatusDelivered,
		Stops: []load.Stop{
			{StopNumber: 1, Type: load.StopPickup},
			{StopNumber: 2, Type: load.StopDelivery},
		},
	}
	p := load.ComputeProgress(single)
	assert.Less(t, p.Percent, 100)
}

// =============================================================================
// DEGRADED MODE TESTS
// =============================================================================

func TestComputeProgress_NoStops_Degraded(t *testing.T) {
	// GIVEN: A legacy load with no stop rows
	// WHEN: Computing progress
	// THEN: The fixed 7-state model is used and the result is flagged

	l := &load.Load{ID: "load-legacy", Status: load.StatusAtPickup}
	p := load.ComputeProgress(l)

	assert.True(t, p.Degraded)
	assert.True(t, errors.Is(p.DegradedReason, load.ErrDataIntegrity))
	assert.Equal(t, 7, p.TotalStates)
	assert.Equal(t, 28, p.Percent)
	assert.Nil(t, p.ActiveStop)
}

func TestComputeProgress_BadStopNumbers_Degraded(t *testing.T) {
	l := &load.Load{
		ID:     "load-gap",
		Status: load.StatusLoaded,
		Stops: []load.Stop{
			{StopNumber: 1, Type: load.StopPickup},
			{StopNumber: 3, Type: load.StopDelivery}, // gap
		},
	}
	p := load.ComputeProgress(l)
	assert.True(t, p.Degraded)
	assert.Equal(t, 7, p.TotalStates)
}

// =============================================================================
// ACTIVE STOP TESTS
// =============================================================================

func TestComputeProgress_ActiveStopFollowsPhase(t *testing.T) {
	pickupPhase := load.ComputeProgress(twoStopLoad(load.StatusAtPickup))
	require.NotNil(t, pickupPhase.ActiveStop)
	assert.Equal(t, "stop-1", pickupPhase.ActiveStop.ID)

	deliveryPhase := load.ComputeProgress(twoStopLoad(load.StatusEnRouteDelivery))
	require.NotNil(t, deliveryPhase.ActiveStop)
	assert.Equal(t, "stop-2", deliveryPhase.ActiveStop.ID)
}

// =============================================================================
// DISPLAY TIMESTAMP TESTS
// =============================================================================

func TestStop_DisplayTimestamp_Priority(t *testing.T) {
	arrival := time.Date(2025, time.August, 28, 14, 0, 0, 0, time.UTC)
	completion := time.Date(2025, time.August, 28, 15, 30, 0, 0, time.UTC)

	s := load.Stop{
		ScheduledDate: calendar.MustParseDate("2025-08-27"),
		ETADate:       calendar.MustParseDate("2025-08-28"),
	}

	kind, value := s.DisplayTimestamp()
	assert.Equal(t, load.TimestampETA, kind, "ETA beats scheduled")
	assert.Equal(t, "2025-08-28", value)

	s.ActualArrival = &arrival
	kind, _ = s.DisplayTimestamp()
	assert.Equal(t, load.TimestampArrival, kind, "arrival beats ETA")

	s.Completion = &completion
	kind, value = s.DisplayTimestamp()
	assert.Equal(t, load.TimestampCompletion, kind, "completion beats everything")
	assert.Equal(t, completion.Format(time.RFC3339), value)
}

func TestStop_DisplayTimestamp_None(t *testing.T) {
	var s load.Stop
	kind, value := s.DisplayTimestamp()
	assert.Equal(t, load.TimestampNone, kind)
	assert.Empty(t, value)
}
