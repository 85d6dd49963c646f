/*
progress.go - Progress percentage and active stop derivation

PURPOSE:
  Turns {status, ordered stops} into a monotonic 0-100 progress integer
  and the stop the driver is currently working.

MODEL:
  Each stop contributes three micro-states (en-route, arrived,
  completed/loaded), plus one terminal close state:

      totalStates = len(stops)*3 + 1
      percent     = floor(100/totalStates) * ordinal(status)

  Non-terminal statuses clamp to 99: a load at "delivered" deliberately
  reads as unfinished because money has not been attributed to a pay
  period yet. Only "closed" is exactly 100. "assigned" is always 0.

DEGRADED MODE:
  When stop data is missing or fails integrity checks the engine assumes
  the classic 2-stop itinerary (7 total states) instead of failing. The
  result is flagged so callers can tell working-as-intended from degraded,
  and can log the integrity failure.
*/
package load

// degradedTotalStates is the fixed 7-state model (2 assumed stops) used
// when per-stop data is unavailable.
const degradedTotalStates = 2*3 + 1

// Progress is the derived progress of a load.
type Progress struct {
	// Percent is 0-100. Monotonic over the status sequence; capped at 99
	// for every non-terminal status.
	Percent int

	// TotalStates is the size of the discrete state space the percent
	// was computed against.
	TotalStates int

	// ActiveStop is the stop the current phase is working, nil when no
	// stop data is available or the load is terminal.
	ActiveStop *Stop

	// Degraded is true when the fixed 2-stop fallback model was used.
	// DegradedReason carries the integrity failure that caused it.
	Degraded       bool
	DegradedReason error
}

// ComputeProgress derives the load's progress from its status and stops.
// It never fails: integrity problems select the degraded model and are
// reported on the result.
func ComputeProgress(l *Load) Progress {
	p := Progress{TotalStates: degradedTotalStates}

	if err := l.ValidateStops(); err != nil {
		p.Degraded = true
		p.DegradedReason = err
	} else {
		p.TotalStates = len(l.Stops)*3 + 1
		p.ActiveStop = activeStop(l)
	}

	p.Percent = percentFor(l.Status, p.TotalStates)
	return p
}

// percentFor evaluates the state-count formula for one status.
func percentFor(status Status, totalStates int) int {
	switch status {
	case StatusAssigned:
		return 0
	case StatusClosed:
		return 100
	}

	ord, ok := ordinals[status]
	if !ok {
		return 0
	}

	percent := (100 / totalStates) * ord
	if percent > 99 {
		percent = 99
	}
	return percent
}

// activeStop resolves which stop the current status is working: the first
// pickup while in the pickup phase, the first delivery afterwards.
func activeStop(l *Load) *Stop {
	switch l.Status {
	case StatusAssigned, StatusEnRoutePickup, StatusAtPickup, StatusLoaded:
		if s := l.firstStopOfType(StopPickup); s != nil {
			return s
		}
		return &l.Stops[0]
	case StatusEnRouteDelivery, StatusAtDelivery, StatusDelivered:
		return l.firstStopOfType(StopDelivery)
	default:
		return nil
	}
}
