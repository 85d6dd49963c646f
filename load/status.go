/*
Package load models the delivery lifecycle of a shipment: its ordered
pickup/delivery stops, its forward-only status machine, and the progress
percentage derived from both.

Valid status graph (strictly linear, no skips, no regressions):

	assigned ─► en_route_pickup ─► at_pickup ─► loaded ─►
	en_route_delivery ─► at_delivery ─► delivered

`closed` is terminal and is reached by an out-of-band payroll period-close
action, never through this machine. The guard only answers "what is next";
rejecting an illegal write is the data layer's job.
*/
package load

import "fmt"

// =============================================================================
// STATUS - Forward-only lifecycle
// =============================================================================

// Status values mirror the load_status enum in the database.
type Status string

const (
	StatusAssigned        Status = "assigned"
	StatusEnRoutePickup   Status = "en_route_pickup"
	StatusAtPickup        Status = "at_pickup"
	StatusLoaded          Status = "loaded"
	StatusEnRouteDelivery Status = "en_route_delivery"
	StatusAtDelivery      Status = "at_delivery"
	StatusDelivered       Status = "delivered"
	StatusClosed          Status = "closed"
)

// forward lists the single legal successor of each non-terminal status.
var forward = map[Status]Status{
	StatusAssigned:        StatusEnRoutePickup,
	StatusEnRoutePickup:   StatusAtPickup,
	StatusAtPickup:        StatusLoaded,
	StatusLoaded:          StatusEnRouteDelivery,
	StatusEnRouteDelivery: StatusAtDelivery,
	StatusAtDelivery:      StatusDelivered,
	// delivered and closed have no successor here
}

// ordinals positions each status in the micro-state sequence used by the
// progress formula. closed is handled separately: its ordinal equals the
// total state count, whatever the stop count.
var ordinals = map[Status]int{
	StatusAssigned:        0,
	StatusEnRoutePickup:   1,
	StatusAtPickup:        2,
	StatusLoaded:          3,
	StatusEnRouteDelivery: 4,
	StatusAtDelivery:      5,
	StatusDelivered:       6,
}

// ParseStatus converts a raw string to a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusAssigned, StatusEnRoutePickup, StatusAtPickup, StatusLoaded,
		StatusEnRouteDelivery, StatusAtDelivery, StatusDelivered, StatusClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown load status %q", s)
}

// Next returns the single legal successor of s. ok is false for
// delivered, closed, and unrecognized statuses.
func Next(s Status) (next Status, ok bool) {
	next, ok = forward[s]
	return next, ok
}

// IsTerminal reports whether s has no successor in this machine.
func IsTerminal(s Status) bool {
	_, ok := forward[s]
	return !ok
}

// CheckTransition validates that requested is the legal successor of
// current. It only reports; enforcement happens upstream at the write
// path.
func CheckTransition(current, requested Status) error {
	legal, ok := forward[current]
	if !ok {
		return &TransitionRejectedError{From: current, Requested: requested}
	}
	if requested != legal {
		return &TransitionRejectedError{From: current, Requested: requested, Legal: legal}
	}
	return nil
}
