/*
errors.go - Centralized error types for period computation and resolution

PURPOSE:
  All period-related error types in one place. Callers match with
  errors.Is against the sentinels; the structured types carry context.

ERROR CATEGORIES:
  1. Configuration errors - unrecognized frequency, malformed settings.
     Fatal to the calling operation, never silently defaulted.
  2. Stale reference errors - a persisted period id no longer resolves.
     Advisory: the caller decides whether to fall back to the current
     computed period. Switching periods changes what data the user sees,
     so that decision is never made here.
  3. Store errors - lookup failures.

SEE ALSO:
  - calculator.go: raises configuration errors
  - resolver.go: raises stale reference errors
*/
package period

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrConfiguration is the root of all configuration failures.
	ErrConfiguration = errors.New("invalid period configuration")

	// ErrUnknownFrequency is returned for a frequency outside
	// weekly/biweekly/monthly. Frequency is never guessed.
	ErrUnknownFrequency = errors.New("unknown payment frequency")

	// ErrStaleReference is returned when a persisted period id no longer
	// resolves (deleted upstream).
	ErrStaleReference = errors.New("stale period reference")

	// ErrPeriodNotFound is returned by stores when no record matches.
	ErrPeriodNotFound = errors.New("payment period not found")

	// ErrInvalidPeriod is returned when a period is malformed (end before
	// start, or missing bounds).
	ErrInvalidPeriod = errors.New("invalid period: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigurationError reports which setting was unusable and why.
type ConfigurationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s=%q: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// StaleReferenceError reports a period id that no longer resolves.
// FallbackKind is the advisory recovery: the caller is expected to switch
// the selection to this kind, it is never applied automatically.
type StaleReferenceError struct {
	PeriodID     string
	FallbackKind Kind
}

func (e *StaleReferenceError) Error() string {
	return fmt.Sprintf("period %q no longer exists; advise falling back to %q", e.PeriodID, e.FallbackKind)
}

func (e *StaleReferenceError) Unwrap() error { return ErrStaleReference }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrUnknownFrequency) ||
		errors.Is(err, ErrInvalidPeriod)
}

// IsNotFound returns true if the error indicates a missing period.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPeriodNotFound) ||
		errors.Is(err, ErrStaleReference)
}
