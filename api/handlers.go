/*
handlers.go - HTTP API handlers for the payroll period engine

PURPOSE:
  Exposes period calculation, period resolution, load lifecycle, and
  settlement via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to domain logic.

ENDPOINTS:
  Periods:
    GET    /api/periods                    List persisted periods for a driver
    GET    /api/periods/current            Compute current period
    GET    /api/periods/previous           Compute previous period
    GET    /api/periods/next               Compute next period
    GET    /api/periods/preview            Compute N upcoming periods
    POST   /api/periods/resolve            Resolve a selection (persisted wins)
    POST   /api/periods/generate           Persist upcoming periods
    GET    /api/periods/{id}/settlement    Money summary for a period

  Loads:
    GET    /api/loads                      List a driver's loads with progress
    POST   /api/loads                      Create a load with stops
    GET    /api/loads/{id}                 Load detail with progress + next action
    GET    /api/loads/{id}/history         Status history
    POST   /api/loads/{id}/status          Guarded status advance

  Configs:
    GET    /api/configs                    List driver payroll configs
    POST   /api/configs                    Upsert a driver payroll config

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (calculator, resolver, guard, settlement)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, configuration errors, invalid input
  - 404: Missing load / period (including stale period references)
  - 409: Rejected status transitions
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Cron-driven period pregeneration
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/fleetline/payroll-engine/calendar"
	"github.com/fleetline/payroll-engine/load"
	"github.com/fleetline/payroll-engine/logger"
	"github.com/fleetline/payroll-engine/payroll"
	"github.com/fleetline/payroll-engine/period"
	"github.com/fleetline/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Clock    calendar.Clock
	Timezone *time.Location
	Log      *logrus.Logger
}

// NewHandler creates a new handler with the given store.
func NewHandler(store *sqlite.Store, tz *time.Location) *Handler {
	if tz == nil {
		tz = time.UTC
	}
	return &Handler{
		Store:    store,
		Clock:    calendar.SystemClock{},
		Timezone: tz,
		Log:      logger.Get(),
	}
}

// refDate returns the reference date from the ?date= query parameter, or
// today in the company timezone.
func (h *Handler) refDate(r *http.Request) (calendar.Date, error) {
	if s := r.URL.Query().Get("date"); s != "" {
		return calendar.ParseDate(s)
	}
	return calendar.DateOf(h.Clock.Now(), h.Timezone), nil
}

// resolverFor builds a resolver from the driver's persisted configuration.
func (h *Handler) resolverFor(ctx context.Context, driverID string) (*period.Resolver, error) {
	cfg, err := h.Store.GetConfig(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, &period.ConfigurationError{
			Field:  "driver_user_id",
			Value:  driverID,
			Reason: "driver has no payroll configuration",
		}
	}
	return period.NewResolver(h.Store, period.Config{
		Frequency:     cfg.Frequency,
		CycleStartDay: cfg.CycleStartDay,
	})
}

func (h *Handler) calculatorFor(ctx context.Context, driverID string) (*period.Calculator, error) {
	cfg, err := h.Store.GetConfig(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, &period.ConfigurationError{
			Field:  "driver_user_id",
			Value:  driverID,
			Reason: "driver has no payroll configuration",
		}
	}
	return period.NewCalculator(period.Config{
		Frequency:     cfg.Frequency,
		CycleStartDay: cfg.CycleStartDay,
	})
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// GetCurrentPeriod computes the period containing the reference date.
// GET /api/periods/current?driver_id=&date=
func (h *Handler) GetCurrentPeriod(w http.ResponseWriter, r *http.Request) {
	h.computedPeriod(w, r, period.KindCurrent)
}

// GetPreviousPeriod computes the period before the current one.
// GET /api/periods/previous?driver_id=&date=
func (h *Handler) GetPreviousPeriod(w http.ResponseWriter, r *http.Request) {
	h.computedPeriod(w, r, period.KindPrevious)
}

// GetNextPeriod computes the period after the current one.
// GET /api/periods/next?driver_id=&date=
func (h *Handler) GetNextPeriod(w http.ResponseWriter, r *http.Request) {
	h.computedPeriod(w, r, period.KindNext)
}

func (h *Handler) computedPeriod(w http.ResponseWriter, r *http.Request, kind period.Kind) {
	driverID := r.URL.Query().Get("driver_id")
	if driverID == "" {
		writeError(w, http.StatusBadRequest, "driver_id is required", nil)
		return
	}

	ref, err := h.refDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	res, err := h.resolverFor(r.Context(), driverID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resolution, err := res.Resolve(r.Context(), period.Selection{Kind: kind}, ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(resolution))
}

// PreviewPeriods computes the current period and the N-1 after it.
// GET /api/periods/preview?driver_id=&count=&date=
func (h *Handler) PreviewPeriods(w http.ResponseWriter, r *http.Request) {
	driverID := r.URL.Query().Get("driver_id")
	if driverID == "" {
		writeError(w, http.StatusBadRequest, "driver_id is required", nil)
		return
	}

	count := 3
	if s := r.URL.Query().Get("count"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid count", err)
			return
		}
		count = n
	}
	if count < 1 || count > 52 {
		writeError(w, http.StatusBadRequest, "count must be between 1 and 52", nil)
		return
	}

	ref, err := h.refDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	calc, err := h.calculatorFor(r.Context(), driverID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	periods := calc.Preview(ref, count)
	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = periodToDTO(p, string(period.SourceComputed))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ResolvePeriod resolves a period selection, preferring persisted records.
// POST /api/periods/resolve
func (h *Handler) ResolvePeriod(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.DriverUserID == "" {
		writeError(w, http.StatusBadRequest, "driver_user_id is required", nil)
		return
	}

	ref := calendar.DateOf(h.Clock.Now(), h.Timezone)
	if req.Date != "" {
		var err error
		if ref, err = calendar.ParseDate(req.Date); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
	}

	sel := period.Selection{
		Kind:     period.Kind(req.Kind),
		PeriodID: req.PeriodID,
	}
	if sel.Kind == period.KindCustom {
		sel.Custom = &period.CustomRange{StartDate: req.StartDate, EndDate: req.EndDate}
	}

	res, err := h.resolverFor(r.Context(), req.DriverUserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resolution, err := res.Resolve(r.Context(), sel, ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(resolution))
}

// ListPeriods returns a driver's persisted periods, newest first.
// GET /api/periods?driver_id=
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	driverID := r.URL.Query().Get("driver_id")
	if driverID == "" {
		writeError(w, http.StatusBadRequest, "driver_id is required", nil)
		return
	}

	records, err := h.Store.ListPeriodsByDriver(r.Context(), driverID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list periods", err)
		return
	}

	dtos := make([]PeriodRecordDTO, len(records))
	for i := range records {
		dtos[i] = toRecordDTO(&records[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GeneratePeriods persists the current period and upcoming ones for a
// driver. Already-persisted ranges are skipped, so the call is idempotent.
// POST /api/periods/generate
func (h *Handler) GeneratePeriods(w http.ResponseWriter, r *http.Request) {
	var req GeneratePeriodsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.DriverUserID == "" {
		writeError(w, http.StatusBadRequest, "driver_user_id is required", nil)
		return
	}
	count := req.Count
	if count == 0 {
		count = 3
	}
	if count < 1 || count > 52 {
		writeError(w, http.StatusBadRequest, "count must be between 1 and 52", nil)
		return
	}

	ctx := r.Context()
	calc, err := h.calculatorFor(ctx, req.DriverUserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	ref := calendar.DateOf(h.Clock.Now(), h.Timezone)
	created, err := persistUpcoming(ctx, h.Store, calc, req.DriverUserID, ref, count)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate periods", err)
		return
	}

	dtos := make([]PeriodRecordDTO, len(created))
	for i := range created {
		dtos[i] = toRecordDTO(&created[i])
	}
	writeJSON(w, http.StatusCreated, dtos)
}

// persistUpcoming saves the Preview(ref, count) periods that are not
// already in the store. Shared with the cron pregeneration job.
func persistUpcoming(ctx context.Context, store *sqlite.Store, calc *period.Calculator, driverID string, ref calendar.Date, count int) ([]period.Record, error) {
	var created []period.Record
	for _, p := range calc.Preview(ref, count) {
		existing, err := store.FindPeriodByRange(ctx, driverID, p.StartDate, p.EndDate)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}
		rec := period.Record{
			DriverUserID:    driverID,
			StartDate:       p.StartDate,
			EndDate:         p.EndDate,
			Frequency:       p.Frequency,
			Status:          period.StatusOpen,
			GrossEarnings:   decimal.Zero,
			TotalDeductions: decimal.Zero,
			OtherIncome:     decimal.Zero,
			NetPayment:      decimal.Zero,
		}
		if err := store.SavePeriod(ctx, &rec); err != nil {
			return nil, err
		}
		created = append(created, rec)
	}
	return created, nil
}

// GetSettlement computes the money summary for a persisted period from
// its delivered loads, expenses, and other income. Totals are written
// back onto the period unless it is locked.
// GET /api/periods/{id}/settlement
func (h *Handler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := h.Store.FetchPeriodByID(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	p := rec.Period()
	loads, err := h.Store.ListLoadsDeliveredIn(ctx, rec.DriverUserID, p.StartDate, p.EndDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load deliveries", err)
		return
	}
	expenses, err := h.Store.ListExpensesIn(ctx, rec.DriverUserID, p.StartDate, p.EndDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load expenses", err)
		return
	}
	income, err := h.Store.ListOtherIncomeIn(ctx, rec.DriverUserID, p.StartDate, p.EndDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load other income", err)
		return
	}

	st := payroll.Settle(p, loads, expenses, income)

	if !rec.Locked {
		if err := h.Store.UpdatePeriodTotals(ctx, rec.ID, st); err != nil {
			h.Log.WithError(err).WithField("period_id", rec.ID).
				Warn("settlement totals not persisted")
		}
	}

	writeJSON(w, http.StatusOK, SettlementDTO{
		Period:             periodToDTO(st.Period, string(period.SourcePersisted)),
		GrossEarnings:      st.GrossEarnings.StringFixed(2),
		TotalDeductions:    st.TotalDeductions.StringFixed(2),
		OtherIncome:        st.OtherIncome.StringFixed(2),
		TotalIncome:        st.TotalIncome.StringFixed(2),
		NetPayment:         st.NetPayment.StringFixed(2),
		HasNegativeBalance: st.HasNegativeBalance,
		LoadCount:          st.LoadCount,
		ExpenseCount:       st.ExpenseCount,
	})
}

// =============================================================================
// LOAD HANDLERS
// =============================================================================

// ListLoads returns a driver's loads with derived progress.
// GET /api/loads?driver_id=
func (h *Handler) ListLoads(w http.ResponseWriter, r *http.Request) {
	driverID := r.URL.Query().Get("driver_id")
	if driverID == "" {
		writeError(w, http.StatusBadRequest, "driver_id is required", nil)
		return
	}

	loads, err := h.Store.ListLoadsByDriver(r.Context(), driverID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list loads", err)
		return
	}

	dtos := make([]LoadDTO, len(loads))
	for i := range loads {
		dtos[i] = h.toLoadDTO(&loads[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLoad returns a load with derived progress and the next action.
// GET /api/loads/{id}
func (h *Handler) GetLoad(w http.ResponseWriter, r *http.Request) {
	l, err := h.Store.GetLoad(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toLoadDTO(l))
}

// CreateLoad creates a load with its stops.
// POST /api/loads
func (h *Handler) CreateLoad(w http.ResponseWriter, r *http.Request) {
	var req CreateLoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.LoadNumber == "" || req.DriverUserID == "" {
		writeError(w, http.StatusBadRequest, "load_number and driver_user_id are required", nil)
		return
	}

	amount := decimal.Zero
	if req.TotalAmount != "" {
		var err error
		if amount, err = decimal.NewFromString(req.TotalAmount); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid total_amount", err)
			return
		}
	}

	l := load.Load{
		LoadNumber:  req.LoadNumber,
		DriverID:    req.DriverUserID,
		Status:      load.StatusAssigned,
		TotalAmount: amount,
	}
	for _, s := range req.Stops {
		stop := load.Stop{
			StopNumber: s.StopNumber,
			Type:       load.StopType(s.Type),
			City:       s.City,
			State:      s.State,
		}
		if s.ScheduledDate != "" {
			d, err := calendar.ParseDate(s.ScheduledDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid scheduled_date", err)
				return
			}
			stop.ScheduledDate = d
		}
		if s.ETADate != "" {
			d, err := calendar.ParseDate(s.ETADate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid eta_date", err)
				return
			}
			stop.ETADate = d
		}
		l.Stops = append(l.Stops, stop)
	}

	if err := l.ValidateStops(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid stops", err)
		return
	}

	if err := h.Store.SaveLoad(r.Context(), &l); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create load", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toLoadDTO(&l))
}

// AdvanceLoadStatus moves a load to the requested status, enforcing the
// forward-only transition guard, and appends a history row.
// POST /api/loads/{id}/status
func (h *Handler) AdvanceLoadStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req AdvanceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	requested, err := load.ParseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown status", err)
		return
	}

	l, err := h.Store.GetLoad(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := load.CheckTransition(l.Status, requested); err != nil {
		writeDomainError(w, err)
		return
	}

	var deliveredOn calendar.Date
	if requested == load.StatusDelivered {
		if req.DeliveredOn != "" {
			if deliveredOn, err = calendar.ParseDate(req.DeliveredOn); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid delivered_on", err)
				return
			}
		} else {
			deliveredOn = calendar.DateOf(h.Clock.Now(), h.Timezone)
		}
	}

	ev := sqlite.StatusEvent{
		StopID:    req.StopID,
		ETA:       req.ETA,
		Notes:     req.Notes,
		ChangedBy: req.ChangedBy,
	}
	if err := h.Store.AdvanceLoad(ctx, id, requested, deliveredOn, ev); err != nil {
		writeDomainError(w, err)
		return
	}

	l, err = h.Store.GetLoad(ctx, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toLoadDTO(l))
}

// GetLoadHistory returns a load's status history, oldest first.
// GET /api/loads/{id}/history
func (h *Handler) GetLoadHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	// 404 for unknown loads rather than an empty history.
	if _, err := h.Store.GetLoad(ctx, id); err != nil {
		writeDomainError(w, err)
		return
	}

	events, err := h.Store.ListStatusHistory(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list status history", err)
		return
	}

	dtos := make([]StatusEventDTO, len(events))
	for i, ev := range events {
		dtos[i] = StatusEventDTO{
			ID:        ev.ID,
			Status:    string(ev.Status),
			StopID:    ev.StopID,
			ETA:       ev.ETA,
			Notes:     ev.Notes,
			ChangedBy: ev.ChangedBy,
			CreatedAt: ev.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// CONFIG HANDLERS
// =============================================================================

// ListConfigs returns every driver's payroll configuration.
// GET /api/configs
func (h *Handler) ListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := h.Store.ListConfigs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list configs", err)
		return
	}

	dtos := make([]ConfigDTO, len(configs))
	for i, c := range configs {
		dtos[i] = ConfigDTO{
			DriverUserID:  c.DriverUserID,
			Frequency:     string(c.Frequency),
			CycleStartDay: c.CycleStartDay,
			Timezone:      c.Timezone,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveConfig upserts a driver's payroll configuration. The frequency must
// be known; the cycle start day is clamped by the calculator, not here,
// so the stored value reflects what the caller sent.
// POST /api/configs
func (h *Handler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	var req SaveConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.DriverUserID == "" {
		writeError(w, http.StatusBadRequest, "driver_user_id is required", nil)
		return
	}

	freq, err := period.ParseFrequency(req.Frequency)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timezone", err)
		return
	}

	cfg := sqlite.DriverConfig{
		DriverUserID:  req.DriverUserID,
		Frequency:     freq,
		CycleStartDay: req.CycleStartDay,
		Timezone:      tz,
	}
	if err := h.Store.SaveConfig(r.Context(), cfg); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save config", err)
		return
	}

	writeJSON(w, http.StatusCreated, ConfigDTO{
		DriverUserID:  cfg.DriverUserID,
		Frequency:     string(cfg.Frequency),
		CycleStartDay: cfg.CycleStartDay,
		Timezone:      cfg.Timezone,
	})
}

// =============================================================================
// DTO MAPPING
// =============================================================================

func periodToDTO(p period.PaymentPeriod, source string) PeriodDTO {
	return PeriodDTO{
		StartDate:     p.StartDate.String(),
		EndDate:       p.EndDate.String(),
		Frequency:     string(p.Frequency),
		CycleStartDay: p.CycleStartDay,
		Kind:          string(p.Kind),
		Label:         p.Label(),
		Days:          p.Days(),
		Source:        source,
	}
}

func toPeriodDTO(res period.Resolution) PeriodDTO {
	dto := periodToDTO(res.Period, string(res.Source))
	dto.Repaired = res.Repaired
	if res.Record != nil {
		dto.RecordID = res.Record.ID
	}
	return dto
}

func toRecordDTO(rec *period.Record) PeriodRecordDTO {
	return PeriodRecordDTO{
		ID:              rec.ID,
		DriverUserID:    rec.DriverUserID,
		StartDate:       rec.StartDate.String(),
		EndDate:         rec.EndDate.String(),
		Frequency:       string(rec.Frequency),
		Label:           rec.Period().Label(),
		Status:          string(rec.Status),
		Locked:          rec.Locked,
		GrossEarnings:   rec.GrossEarnings.StringFixed(2),
		TotalDeductions: rec.TotalDeductions.StringFixed(2),
		OtherIncome:     rec.OtherIncome.StringFixed(2),
		NetPayment:      rec.NetPayment.StringFixed(2),
	}
}

func (h *Handler) toLoadDTO(l *load.Load) LoadDTO {
	prog := load.ComputeProgress(l)
	if prog.Degraded && prog.DegradedReason != nil {
		h.Log.WithError(prog.DegradedReason).WithField("load_id", l.ID).
			Warn("load progress computed in degraded mode")
	}

	dto := LoadDTO{
		ID:          l.ID,
		LoadNumber:  l.LoadNumber,
		DriverID:    l.DriverID,
		Status:      string(l.Status),
		TotalAmount: l.TotalAmount.StringFixed(2),
		Progress:    prog.Percent,
		TotalStates: prog.TotalStates,
		Degraded:    prog.Degraded,
		Stops:       make([]StopDTO, len(l.Stops)),
	}
	if !l.DeliveredOn.IsZero() {
		dto.DeliveredOn = l.DeliveredOn.String()
	}
	for i := range l.Stops {
		s := &l.Stops[i]
		kind, value := s.DisplayTimestamp()
		dto.Stops[i] = StopDTO{
			ID:            s.ID,
			StopNumber:    s.StopNumber,
			Type:          string(s.Type),
			City:          s.City,
			State:         s.State,
			Timestamp:     value,
			TimestampKind: string(kind),
		}
	}
	if action := load.NextAction(l); action != nil {
		dto.NextAction = &ActionDTO{
			Kind:       string(action.Kind),
			NextStatus: string(action.NextStatus),
		}
		if action.Stop != nil {
			dto.NextAction.StopID = action.Stop.ID
		}
	}
	return dto
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var stale *period.StaleReferenceError
	switch {
	case errors.As(err, &stale):
		// Advisory: the caller decides whether to fall back.
		writeError(w, http.StatusNotFound, "Period reference is stale", err)
	case errors.Is(err, load.ErrTransitionRejected):
		writeError(w, http.StatusConflict, "Status transition rejected", err)
	case errors.Is(err, period.ErrPeriodNotFound):
		writeError(w, http.StatusNotFound, "Period not found", err)
	case errors.Is(err, load.ErrLoadNotFound):
		writeError(w, http.StatusNotFound, "Load not found", err)
	case period.IsClientError(err), errors.Is(err, load.ErrDataIntegrity):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
