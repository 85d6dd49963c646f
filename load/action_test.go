package load_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetline/payroll-engine/load"
)

// =============================================================================
// NEXT ACTION TESTS
// =============================================================================

func TestNextAction_ThroughTheLifecycle(t *testing.T) {
	// Each status maps to exactly one action, targeting the pickup until
	// the truck is loaded and the delivery after.
	cases := []struct {
		status     load.Status
		kind       load.ActionKind
		nextStatus load.Status
		stopID     string
	}{
		{load.StatusAssigned, load.ActionDriveToPickup, load.StatusEnRoutePickup, "stop-1"},
		{load.StatusEnRoutePickup, load.ActionArriveAtPickup, load.StatusAtPickup, "stop-1"},
		{load.StatusAtPickup, load.ActionCompletePickup, load.StatusLoaded, "stop-1"},
		{load.StatusLoaded, load.ActionDriveToDelivery, load.StatusEnRouteDelivery, "stop-2"},
		{load.StatusEnRouteDelivery, load.ActionArriveAtDelivery, load.StatusAtDelivery, "stop-2"},
		{load.StatusAtDelivery, load.ActionCompleteDelivery, load.StatusDelivered, "stop-2"},
	}
	for _, c := range cases {
		a := load.NextAction(twoStopLoad(c.status))
		require.NotNil(t, a, "status %s", c.status)
		assert.Equal(t, c.kind, a.Kind, "status %s", c.status)
		assert.Equal(t, c.nextStatus, a.NextStatus, "status %s", c.status)
		require.NotNil(t, a.Stop, "status %s", c.status)
		assert.Equal(t, c.stopID, a.Stop.ID, "status %s", c.status)
	}
}

func TestNextAction_TerminalLoads(t *testing.T) {
	assert.Nil(t, load.NextAction(twoStopLoad(load.StatusDelivered)),
		"delivered loads wait for period close")
	assert.Nil(t, load.NextAction(twoStopLoad(load.StatusClosed)))
}

func TestNextAction_NoStops(t *testing.T) {
	// A legacy load without stop rows still knows its next status; only
	// the targeted stop is missing.
	l := &load.Load{ID: "load-legacy", Status: load.StatusAssigned}
	a := load.NextAction(l)

	require.NotNil(t, a)
	assert.Equal(t, load.StatusEnRoutePickup, a.NextStatus)
	assert.Nil(t, a.Stop)
}
