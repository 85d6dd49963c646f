package load

// =============================================================================
// NEXT ACTION - What the driver does next, and which stop it targets
// =============================================================================

// ActionKind identifies the next driver action. The UI maps kinds to
// localized labels; this engine never embeds display strings.
type ActionKind string

const (
	ActionDriveToPickup    ActionKind = "drive_to_pickup"
	ActionArriveAtPickup   ActionKind = "arrive_at_pickup"
	ActionCompletePickup   ActionKind = "complete_pickup"
	ActionDriveToDelivery  ActionKind = "drive_to_delivery"
	ActionArriveAtDelivery ActionKind = "arrive_at_delivery"
	ActionCompleteDelivery ActionKind = "complete_delivery"
)

// Action pairs the guard's next legal status with the stop it targets.
type Action struct {
	Kind       ActionKind
	NextStatus Status
	Stop       *Stop
}

// NextAction returns what advancing the load means right now, or nil when
// the load is terminal (delivered awaiting period close, or closed). The
// targeted stop follows the phase: pickups until loaded, deliveries after.
func NextAction(l *Load) *Action {
	next, ok := Next(l.Status)
	if !ok {
		return nil
	}

	var kind ActionKind
	var phase StopType
	switch l.Status {
	case StatusAssigned:
		kind, phase = ActionDriveToPickup, StopPickup
	case StatusEnRoutePickup:
		kind, phase = ActionArriveAtPickup, StopPickup
	case StatusAtPickup:
		kind, phase = ActionCompletePickup, StopPickup
	case StatusLoaded:
		kind, phase = ActionDriveToDelivery, StopDelivery
	case StatusEnRouteDelivery:
		kind, phase = ActionArriveAtDelivery, StopDelivery
	case StatusAtDelivery:
		kind, phase = ActionCompleteDelivery, StopDelivery
	}

	stop := l.firstStopOfType(phase)
	if stop == nil && len(l.Stops) > 0 {
		stop = &l.Stops[0]
	}

	return &Action{Kind: kind, NextStatus: next, Stop: stop}
}
