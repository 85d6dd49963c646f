/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Period endpoints (current, resolve, generate idempotency)
- Load lifecycle (creation, guarded status advance, history)
- Settlement endpoint
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetline/payroll-engine/calendar"
	"github.com/fleetline/payroll-engine/payroll"
	"github.com/fleetline/payroll-engine/period"
	"github.com/fleetline/payroll-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// testRef keeps every relative-period test on Thursday 2025-08-28.
var testRef = time.Date(2025, time.August, 28, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*chi.Mux, *sqlite.Store) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	h := NewHandler(store, time.UTC)
	h.Clock = calendar.FixedClock{At: testRef}
	return NewRouter(h), store
}

func saveWeeklyConfig(t *testing.T, store *sqlite.Store, driverID string) {
	t.Helper()
	require.NoError(t, store.SaveConfig(context.Background(), sqlite.DriverConfig{
		DriverUserID:  driverID,
		Frequency:     "weekly",
		CycleStartDay: 1,
		Timezone:      "UTC",
	}))
}

func periodRecord(driverID, start, end string) period.Record {
	return period.Record{
		DriverUserID:    driverID,
		StartDate:       calendar.MustParseDate(start),
		EndDate:         calendar.MustParseDate(end),
		Frequency:       period.Weekly,
		Status:          period.StatusOpen,
		GrossEarnings:   decimal.Zero,
		TotalDeductions: decimal.Zero,
		OtherIncome:     decimal.Zero,
		NetPayment:      decimal.Zero,
	}
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func createTwoStopLoad(t *testing.T, router http.Handler, driverID, number string, amount string) LoadDTO {
	t.Helper()

	req := CreateLoadRequest{
		LoadNumber:   number,
		DriverUserID: driverID,
		TotalAmount:  amount,
	}
	req.Stops = []struct {
		StopNumber    int    `json:"stop_number"`
		Type          string `json:"type"`
		City          string `json:"city,omitempty"`
		State         string `json:"state,omitempty"`
		ScheduledDate string `json:"scheduled_date,omitempty"`
		ETADate       string `json:"eta_date,omitempty"`
	}{
		{StopNumber: 1, Type: "pickup", City: "Dallas", State: "TX", ScheduledDate: "2025-08-26"},
		{StopNumber: 2, Type: "delivery", City: "Memphis", State: "TN", ETADate: "2025-08-28"},
	}

	rec := doJSON(t, router, http.MethodPost, "/api/loads", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[LoadDTO](t, rec)
}

// =============================================================================
// PERIOD ENDPOINT TESTS
// =============================================================================

func TestGetCurrentPeriod(t *testing.T) {
	// GIVEN: A driver on weekly Monday payroll
	// WHEN: Asking for the current period on Thursday 2025-08-28
	// THEN: Monday through Sunday of that week comes back, computed

	router, store := newTestServer(t)
	saveWeeklyConfig(t, store, "driver-1")

	rec := doJSON(t, router, http.MethodGet, "/api/periods/current?driver_id=driver-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[PeriodDTO](t, rec)
	assert.Equal(t, "2025-08-25", dto.StartDate)
	assert.Equal(t, "2025-08-31", dto.EndDate)
	assert.Equal(t, "computed", dto.Source)
	assert.Equal(t, "WK35 - 2025", dto.Label)
	assert.Empty(t, dto.RecordID)
}

func TestGetCurrentPeriod_NoConfig(t *testing.T) {
	router, _ := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/periods/current?driver_id=ghost", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetCurrentPeriod_ExplicitDate(t *testing.T) {
	router, store := newTestServer(t)
	saveWeeklyConfig(t, store, "driver-1")

	rec := doJSON(t, router, http.MethodGet, "/api/periods/current?driver_id=driver-1&date=2025-02-10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dto := decode[PeriodDTO](t, rec)
	assert.Equal(t, "2025-02-10", dto.StartDate, "2025-02-10 is a Monday")
}

func TestResolvePeriod_PersistedRecordWins(t *testing.T) {
	// GIVEN: A persisted period with manually adjusted boundaries
	// WHEN: Resolving it by id
	// THEN: The adjusted dates are returned verbatim, marked persisted

	router, store := newTestServer(t)
	saveWeeklyConfig(t, store, "driver-1")

	rec := periodRecord("driver-1", "2025-08-26", "2025-09-02")
	require.NoError(t, store.SavePeriod(context.Background(), &rec))

	resp := doJSON(t, router, http.MethodPost, "/api/periods/resolve", ResolveRequest{
		DriverUserID: "driver-1",
		Kind:         "specific",
		PeriodID:     rec.ID,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	dto := decode[PeriodDTO](t, resp)
	assert.Equal(t, "persisted", dto.Source)
	assert.Equal(t, rec.ID, dto.RecordID)
	assert.Equal(t, "2025-08-26", dto.StartDate)
	assert.Equal(t, "2025-09-02", dto.EndDate)
}

func TestResolvePeriod_StaleReference(t *testing.T) {
	router, store := newTestServer(t)
	saveWeeklyConfig(t, store, "driver-1")

	resp := doJSON(t, router, http.MethodPost, "/api/periods/resolve", ResolveRequest{
		DriverUserID: "driver-1",
		Kind:         "specific",
		PeriodID:     "01K00000000000000000000000",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)

	body := decode[ErrorResponse](t, resp)
	assert.Contains(t, body.Error, "stale")
}

func TestGeneratePeriods_Idempotent(t *testing.T) {
	// GIVEN: No persisted periods
	// WHEN: Generating three upcoming periods twice
	// THEN: The second call creates nothing new

	router, store := newTestServer(t)
	saveWeeklyConfig(t, store, "driver-1")

	first := doJSON(t, router, http.MethodPost, "/api/periods/generate",
		GeneratePeriodsRequest{DriverUserID: "driver-1", Count: 3})
	require.Equal(t, http.StatusCreated, first.Code)
	created := decode[[]PeriodRecordDTO](t, first)
	require.Len(t, created, 3)
	assert.Equal(t, "2025-08-25", created[0].StartDate)
	assert.Equal(t, "open", created[0].Status)

	second := doJSON(t, router, http.MethodPost, "/api/periods/generate",
		GeneratePeriodsRequest{DriverUserID: "driver-1", Count: 3})
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Empty(t, decode[[]PeriodRecordDTO](t, second))

	all, err := store.ListPeriodsByDriver(context.Background(), "driver-1")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

// =============================================================================
// LOAD ENDPOINT TESTS
// =============================================================================

func TestCreateLoad_WithProgress(t *testing.T) {
	router, _ := newTestServer(t)

	dto := createTwoStopLoad(t, router, "driver-1", "LD-1001", "1200.50")

	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "assigned", dto.Status)
	assert.Equal(t, 0, dto.Progress)
	assert.Equal(t, 7, dto.TotalStates)
	require.Len(t, dto.Stops, 2)
	assert.Equal(t, "scheduled", dto.Stops[0].TimestampKind)
	assert.Equal(t, "eta", dto.Stops[1].TimestampKind)
	require.NotNil(t, dto.NextAction)
	assert.Equal(t, "drive_to_pickup", dto.NextAction.Kind)
}

func TestAdvanceLoadStatus_FullLifecycle(t *testing.T) {
	// GIVEN: A fresh two-stop load
	// WHEN: Advancing status step by step to delivered
	// THEN: Each step succeeds, progress climbs, history records every move

	router, store := newTestServer(t)
	created := createTwoStopLoad(t, router, "driver-1", "LD-1002", "900")

	steps := []string{"en_route_pickup", "at_pickup", "loaded", "en_route_delivery", "at_delivery"}
	lastProgress := 0
	for _, s := range steps {
		rec := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/loads/%s/status", created.ID),
			AdvanceStatusRequest{Status: s, ChangedBy: "driver-1"})
		require.Equal(t, http.StatusOK, rec.Code, "advancing to %s: %s", s, rec.Body.String())

		dto := decode[LoadDTO](t, rec)
		assert.Equal(t, s, dto.Status)
		assert.Greater(t, dto.Progress, lastProgress)
		lastProgress = dto.Progress
	}

	// Final delivery sets delivered_on
	rec := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/loads/%s/status", created.ID),
		AdvanceStatusRequest{Status: "delivered", DeliveredOn: "2025-08-28"})
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decode[LoadDTO](t, rec)
	assert.Equal(t, "2025-08-28", dto.DeliveredOn)
	assert.Equal(t, 84, dto.Progress)
	assert.Nil(t, dto.NextAction)

	history, err := store.ListStatusHistory(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, history, 6)
	assert.Equal(t, "en_route_pickup", string(history[0].Status))
	assert.Equal(t, "delivered", string(history[5].Status))
}

func TestAdvanceLoadStatus_SkipRejected(t *testing.T) {
	// Jumping from assigned straight to loaded violates the guard.
	router, _ := newTestServer(t)
	created := createTwoStopLoad(t, router, "driver-1", "LD-1003", "500")

	rec := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/loads/%s/status", created.ID),
		AdvanceStatusRequest{Status: "loaded"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	body := decode[ErrorResponse](t, rec)
	assert.Contains(t, body.Details, "en_route_pickup")

	// The load is untouched
	check := doJSON(t, router, http.MethodGet, "/api/loads/"+created.ID, nil)
	assert.Equal(t, "assigned", decode[LoadDTO](t, check).Status)
}

func TestAdvanceLoadStatus_UnknownLoad(t *testing.T) {
	router, _ := newTestServer(t)
	rec := doJSON(t, router, http.MethodPost, "/api/loads/nope/status",
		AdvanceStatusRequest{Status: "en_route_pickup"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// SETTLEMENT ENDPOINT TESTS
// =============================================================================

func TestGetSettlement(t *testing.T) {
	// GIVEN: A persisted period, a delivered load inside it, and an expense
	// WHEN: Fetching the settlement
	// THEN: net = gross + other income - deductions, totals written back

	router, store := newTestServer(t)
	ctx := context.Background()
	saveWeeklyConfig(t, store, "driver-1")

	rec := periodRecord("driver-1", "2025-08-25", "2025-08-31")
	require.NoError(t, store.SavePeriod(ctx, &rec))

	created := createTwoStopLoad(t, router, "driver-1", "LD-2001", "2000.00")
	steps := []string{"en_route_pickup", "at_pickup", "loaded", "en_route_delivery", "at_delivery"}
	for _, s := range steps {
		resp := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/loads/%s/status", created.ID),
			AdvanceStatusRequest{Status: s})
		require.Equal(t, http.StatusOK, resp.Code)
	}
	resp := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/loads/%s/status", created.ID),
		AdvanceStatusRequest{Status: "delivered", DeliveredOn: "2025-08-27"})
	require.Equal(t, http.StatusOK, resp.Code)

	require.NoError(t, store.SaveExpense(ctx, &payroll.Expense{
		DriverID: "driver-1",
		Date:     calendar.MustParseDate("2025-08-26"),
		Amount:   decimal.RequireFromString("350.75"),
		Category: "fuel",
	}))

	settle := doJSON(t, router, http.MethodGet,
		fmt.Sprintf("/api/periods/%s/settlement", rec.ID), nil)
	require.Equal(t, http.StatusOK, settle.Code, settle.Body.String())

	dto := decode[SettlementDTO](t, settle)
	assert.Equal(t, "2000.00", dto.GrossEarnings)
	assert.Equal(t, "350.75", dto.TotalDeductions)
	assert.Equal(t, "1649.25", dto.NetPayment)
	assert.False(t, dto.HasNegativeBalance)
	assert.Equal(t, 1, dto.LoadCount)
	assert.Equal(t, 1, dto.ExpenseCount)

	// Totals landed on the period row
	stored, err := store.FetchPeriodByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "1649.25", stored.NetPayment.StringFixed(2))
}

func TestGetSettlement_UnknownPeriod(t *testing.T) {
	router, _ := newTestServer(t)
	rec := doJSON(t, router, http.MethodGet, "/api/periods/nope/settlement", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
