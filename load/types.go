package load

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetline/payroll-engine/calendar"
)

// =============================================================================
// STOP - One waypoint in a load's itinerary
// =============================================================================

type StopType string

const (
	StopPickup   StopType = "pickup"
	StopDelivery StopType = "delivery"
)

// Stop is a pickup or delivery waypoint. StopNumber is the 1-based
// position that defines traversal order; the engine reads stops, it never
// mutates them.
type Stop struct {
	ID         string
	LoadID     string
	StopNumber int
	Type       StopType

	City  string
	State string

	// Timestamp fields in display-priority order, lowest first. Any may
	// be absent.
	ScheduledDate calendar.Date
	ETADate       calendar.Date
	ActualArrival *time.Time
	Completion    *time.Time
}

// =============================================================================
// TIMESTAMP DISPLAY PRIORITY
// =============================================================================

// TimestampKind says which of a stop's timestamp fields won the display
// priority: completion beats actual arrival beats ETA beats scheduled.
type TimestampKind string

const (
	TimestampCompletion TimestampKind = "completion"
	TimestampArrival    TimestampKind = "arrival"
	TimestampETA        TimestampKind = "eta"
	TimestampScheduled  TimestampKind = "scheduled"
	TimestampNone       TimestampKind = "none"
)

// DisplayTimestamp selects the stop's most authoritative time field. The
// returned string is empty when kind is TimestampNone.
func (s *Stop) DisplayTimestamp() (kind TimestampKind, value string) {
	switch {
	case s.Completion != nil:
		return TimestampCompletion, s.Completion.Format(time.RFC3339)
	case s.ActualArrival != nil:
		return TimestampArrival, s.ActualArrival.Format(time.RFC3339)
	case !s.ETADate.IsZero():
		return TimestampETA, s.ETADate.String()
	case !s.ScheduledDate.IsZero():
		return TimestampScheduled, s.ScheduledDate.String()
	default:
		return TimestampNone, ""
	}
}

// =============================================================================
// LOAD - A shipment with its itinerary and lifecycle status
// =============================================================================

type Load struct {
	ID          string
	LoadNumber  string
	DriverID    string
	Status      Status
	TotalAmount decimal.Decimal

	// DeliveredOn is set when the final delivery completes; settlement
	// uses it to attribute the load to a payment period.
	DeliveredOn calendar.Date

	// Stops sorted by StopNumber. May be empty for legacy loads, which
	// drops progress computation into degraded mode.
	Stops []Stop
}

// ValidateStops checks the itinerary invariants: stop numbers contiguous
// and ascending from 1, at least one pickup and one delivery. A failure
// here is a DataIntegrityError; callers fall back to the fixed-state
// progress model rather than failing.
func (l *Load) ValidateStops() error {
	if len(l.Stops) == 0 {
		return &DataIntegrityError{LoadID: l.ID, Reason: "no stop data"}
	}

	pickups, deliveries := 0, 0
	for i, s := range l.Stops {
		if s.StopNumber != i+1 {
			return &DataIntegrityError{
				LoadID: l.ID,
				Reason: fmt.Sprintf("stop numbers not contiguous: position %d has stop_number %d", i+1, s.StopNumber),
			}
		}
		switch s.Type {
		case StopPickup:
			pickups++
		case StopDelivery:
			deliveries++
		default:
			return &DataIntegrityError{LoadID: l.ID, Reason: fmt.Sprintf("unknown stop type %q", s.Type)}
		}
	}
	if pickups == 0 {
		return &DataIntegrityError{LoadID: l.ID, Reason: "no pickup stop"}
	}
	if deliveries == 0 {
		return &DataIntegrityError{LoadID: l.ID, Reason: "no delivery stop"}
	}
	return nil
}

// firstStopOfType returns the first stop (in traversal order) with the
// given type, or nil.
func (l *Load) firstStopOfType(t StopType) *Stop {
	for i := range l.Stops {
		if l.Stops[i].Type == t {
			return &l.Stops[i]
		}
	}
	return nil
}
