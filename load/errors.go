package load

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrDataIntegrity is returned when a load's stop list cannot support
	// the full N-stop progress model. Progress falls back to the degraded
	// fixed-state model instead of failing; this sentinel is what the
	// fallback is flagged with.
	ErrDataIntegrity = errors.New("load stop data failed integrity checks")

	// ErrTransitionRejected is returned when a requested status is not
	// the legal successor of the current one.
	ErrTransitionRejected = errors.New("status transition rejected")

	// ErrLoadNotFound is returned by stores when no load matches.
	ErrLoadNotFound = errors.New("load not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// DataIntegrityError says what is wrong with a load's stops.
type DataIntegrityError struct {
	LoadID string
	Reason string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("load %s: %s", e.LoadID, e.Reason)
}

func (e *DataIntegrityError) Unwrap() error { return ErrDataIntegrity }

// TransitionRejectedError reports an illegal status advance. Legal is
// empty when the current status is terminal.
type TransitionRejectedError struct {
	From      Status
	Requested Status
	Legal     Status
}

func (e *TransitionRejectedError) Error() string {
	if e.Legal == "" {
		return fmt.Sprintf("cannot advance from terminal status %q", e.From)
	}
	return fmt.Sprintf("cannot advance %q to %q; legal successor is %q", e.From, e.Requested, e.Legal)
}

func (e *TransitionRejectedError) Unwrap() error { return ErrTransitionRejected }
