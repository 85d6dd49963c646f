/*
scheduler.go - Automated period pregeneration scheduler

PURPOSE:
  Periodically persists the current and upcoming payment periods for
  every configured driver, so that settlement rows exist before payroll
  staff open them and manual adjustments have something to attach to.

DESIGN:
  - cron-driven (robfig/cron), schedule comes from configuration
  - Pregeneration is idempotent: ranges already persisted are skipped
  - A driver with a broken configuration is logged and skipped; one bad
    config never blocks the rest of the fleet

USAGE:
  scheduler := NewPregenScheduler(store, "0 2 * * *", tz)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: GeneratePeriods endpoint (manual pregeneration)
  - period/calculator.go: Preview
*/
package api

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/fleetline/payroll-engine/calendar"
	"github.com/fleetline/payroll-engine/logger"
	"github.com/fleetline/payroll-engine/period"
	"github.com/fleetline/payroll-engine/store/sqlite"
)

// pregenCount is how many periods ahead (current included) each run keeps
// persisted per driver.
const pregenCount = 3

// PregenScheduler persists upcoming periods on a cron schedule.
type PregenScheduler struct {
	Store    *sqlite.Store
	Spec     string
	Timezone *time.Location
	Clock    calendar.Clock
	Log      *logrus.Logger

	engine *cron.Cron
}

// NewPregenScheduler creates a new scheduler. spec is a standard 5-field
// cron expression evaluated in tz.
func NewPregenScheduler(store *sqlite.Store, spec string, tz *time.Location) *PregenScheduler {
	if tz == nil {
		tz = time.UTC
	}
	return &PregenScheduler{
		Store:    store,
		Spec:     spec,
		Timezone: tz,
		Clock:    calendar.SystemClock{},
		Log:      logger.Get(),
	}
}

// Start registers the cron job and starts the engine.
func (s *PregenScheduler) Start() error {
	s.engine = cron.New(cron.WithLocation(s.Timezone))
	_, err := s.engine.AddFunc(s.Spec, func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}
	s.engine.Start()
	s.Log.WithField("spec", s.Spec).Info("period pregeneration scheduler started")
	return nil
}

// Stop stops the cron engine and waits for a running job to finish.
func (s *PregenScheduler) Stop() {
	if s.engine == nil {
		return
	}
	<-s.engine.Stop().Done()
	s.Log.Info("period pregeneration scheduler stopped")
}

// RunOnce pregenerates periods for every configured driver. Exported so
// startup and tests can trigger a run directly.
func (s *PregenScheduler) RunOnce(ctx context.Context) {
	configs, err := s.Store.ListConfigs(ctx)
	if err != nil {
		s.Log.WithError(err).Error("pregeneration: listing configs failed")
		return
	}

	ref := calendar.DateOf(s.Clock.Now(), s.Timezone)
	created := 0
	for _, cfg := range configs {
		calc, err := period.NewCalculator(period.Config{
			Frequency:     cfg.Frequency,
			CycleStartDay: cfg.CycleStartDay,
		})
		if err != nil {
			s.Log.WithError(err).WithField("driver_user_id", cfg.DriverUserID).
				Warn("pregeneration: skipping driver with bad config")
			continue
		}

		recs, err := persistUpcoming(ctx, s.Store, calc, cfg.DriverUserID, ref, pregenCount)
		if err != nil {
			s.Log.WithError(err).WithField("driver_user_id", cfg.DriverUserID).
				Error("pregeneration: persisting periods failed")
			continue
		}
		created += len(recs)
	}

	s.Log.WithFields(logrus.Fields{
		"drivers": len(configs),
		"created": created,
	}).Info("period pregeneration run complete")
}
