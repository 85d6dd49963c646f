/*
resolver.go - One canonical answer for "which period am I looking at?"

PURPOSE:
  Callers select a period either by stable id (a persisted record) or by
  relative kind (current/previous/next) or by explicit custom range. The
  resolver applies the single precedence rule:

    1. A persisted record that still exists and is internally consistent
       wins VERBATIM. Payroll staff can manually adjust period boundaries;
       recomputing them would silently move money between periods.
    2. A persisted record that exists but is malformed (missing or
       inverted bounds) is replaced by the computed current period, and
       the result is flagged so callers can tell repaired from normal.
    3. An id that no longer resolves surfaces a StaleReferenceError with
       an advisory fallback kind. The resolver never recovers on its own:
       switching periods changes what data the user sees mid-session.

SEE ALSO:
  - calculator.go: computed boundaries
  - store/: Store implementations
*/
package period

import (
	"context"
	"errors"

	"github.com/fleetline/payroll-engine/calendar"
)

// =============================================================================
// STORE - External lookup capability (owned by the persistence collaborator)
// =============================================================================

// Store is the lookup seam the resolver depends on. Implementations own
// retries and cancellation; the resolver treats a call as a black box that
// yields a record, ErrPeriodNotFound, or a transport error.
type Store interface {
	// FetchPeriodByID returns the record or ErrPeriodNotFound.
	FetchPeriodByID(ctx context.Context, id string) (*Record, error)
}

// =============================================================================
// SELECTION - Discriminated union keyed by Kind
// =============================================================================

// Selection names one period. Exactly the fields for its Kind are read:
// PeriodID for specific, Custom for custom, nothing extra otherwise.
type Selection struct {
	Kind     Kind
	PeriodID string       // Kind == KindSpecific
	Custom   *CustomRange // Kind == KindCustom
}

// CustomRange is a caller-supplied explicit date range.
type CustomRange struct {
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Source says where the resolved boundaries came from.
type Source string

const (
	SourcePersisted Source = "persisted"
	SourceComputed  Source = "computed"
)

// Resolution is the canonical answer. Record is non-nil only when the
// boundaries came from a persisted record. Repaired is set when a
// persisted record existed but was malformed and computed boundaries were
// substituted.
type Resolution struct {
	Period   PaymentPeriod
	Record   *Record
	Source   Source
	Repaired bool
}

// Resolver reconciles persisted records with computed periods.
type Resolver struct {
	store Store
	calc  *Calculator
}

// NewResolver builds a resolver over the given lookup seam and the
// company's period configuration.
func NewResolver(store Store, cfg Config) (*Resolver, error) {
	calc, err := NewCalculator(cfg)
	if err != nil {
		return nil, err
	}
	return &Resolver{store: store, calc: calc}, nil
}

// Resolve produces one canonical PaymentPeriod for the selection, with the
// reference date anchoring the relative kinds.
func (r *Resolver) Resolve(ctx context.Context, sel Selection, ref calendar.Date) (Resolution, error) {
	switch sel.Kind {
	case KindCurrent:
		return Resolution{Period: r.calc.Current(ref), Source: SourceComputed}, nil

	case KindPrevious:
		return Resolution{Period: r.calc.Previous(ref), Source: SourceComputed}, nil

	case KindNext:
		return Resolution{Period: r.calc.Next(ref), Source: SourceComputed}, nil

	case KindSpecific:
		return r.resolveSpecific(ctx, sel.PeriodID, ref)

	case KindCustom:
		return r.resolveCustom(sel.Custom)

	default:
		return Resolution{}, &ConfigurationError{
			Field: "kind", Value: string(sel.Kind), Reason: "unrecognized period selection kind",
		}
	}
}

func (r *Resolver) resolveSpecific(ctx context.Context, id string, ref calendar.Date) (Resolution, error) {
	if id == "" {
		return Resolution{}, &ConfigurationError{
			Field: "period_id", Value: "", Reason: "specific selection requires a period id",
		}
	}

	rec, err := r.store.FetchPeriodByID(ctx, id)
	if errors.Is(err, ErrPeriodNotFound) {
		// Deleted upstream. Advisory only: the caller switches (or not).
		return Resolution{}, &StaleReferenceError{PeriodID: id, FallbackKind: KindCurrent}
	}
	if err != nil {
		// Transport failures belong to the collaborator; pass through.
		return Resolution{}, err
	}

	if rec.WellFormed() {
		return Resolution{Period: rec.Period(), Record: rec, Source: SourcePersisted}, nil
	}

	// The record exists but its range is inconsistent. Fall back to
	// computed boundaries and flag it.
	return Resolution{Period: r.calc.Current(ref), Source: SourceComputed, Repaired: true}, nil
}

func (r *Resolver) resolveCustom(custom *CustomRange) (Resolution, error) {
	if custom == nil {
		return Resolution{}, &ConfigurationError{
			Field: "custom", Value: "", Reason: "custom selection requires a date range",
		}
	}
	start, err := calendar.ParseDate(custom.StartDate)
	if err != nil {
		return Resolution{}, &ConfigurationError{Field: "start_date", Value: custom.StartDate, Reason: "invalid date"}
	}
	end, err := calendar.ParseDate(custom.EndDate)
	if err != nil {
		return Resolution{}, &ConfigurationError{Field: "end_date", Value: custom.EndDate, Reason: "invalid date"}
	}
	if end.Before(start) {
		return Resolution{}, ErrInvalidPeriod
	}
	return Resolution{
		Period: PaymentPeriod{StartDate: start, EndDate: end, Frequency: r.calc.cfg.Frequency, Kind: KindCustom},
		Source: SourceComputed,
	}, nil
}
