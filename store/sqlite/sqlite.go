/*
Package sqlite provides the SQLite-backed implementation of the engine's
persistence seams.

PURPOSE:
  Persists payment configs, payment period records, loads with their stop
  itineraries, status history, and the expense/income line items that
  settlement attributes to periods. In production the same patterns apply
  to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  period.Store: FetchPeriodByID, the resolver's lookup seam

KEY TABLES:
  payment_configs:     per-driver frequency + cycle start day + timezone
  payment_periods:     persisted periods with money totals (may be
                       manually adjusted; the resolver prefers them)
  loads / load_stops:  shipments and their ordered itineraries
  load_status_history: append-only record of every status advance
  expenses / other_income: settlement line items

STATUS HISTORY:
  load_status_history is append-only. Status corrections happen through
  compensating rows, never UPDATE or DELETE.

WAL MODE:
  SQLite is opened with WAL for better read concurrency and crash
  recovery. A Store-level RWMutex serializes writers; PostgreSQL would
  rely on database-level concurrency control instead.

USAGE:
  store, err := sqlite.New("./data/fleet.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - period/resolver.go: consumes FetchPeriodByID
  - period/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/fleetline/payroll-engine/calendar"
	"github.com/fleetline/payroll-engine/load"
	"github.com/fleetline/payroll-engine/payroll"
	"github.com/fleetline/payroll-engine/period"
)

// Store implements the persistence seams using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewID returns a fresh ULID for a persisted record.
func NewID() string {
	return ulid.Make().String()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Per-driver payroll configuration
	CREATE TABLE IF NOT EXISTS payment_configs (
		driver_user_id TEXT PRIMARY KEY,
		frequency TEXT NOT NULL,
		cycle_start_day INTEGER NOT NULL DEFAULT 1,
		timezone TEXT NOT NULL DEFAULT 'UTC',
		updated_at TEXT NOT NULL
	);

	-- Persisted payment periods (dates may be manually adjusted)
	CREATE TABLE IF NOT EXISTS payment_periods (
		id TEXT PRIMARY KEY,
		driver_user_id TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		frequency TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		locked INTEGER NOT NULL DEFAULT 0,
		gross_earnings TEXT NOT NULL DEFAULT '0',
		total_deductions TEXT NOT NULL DEFAULT '0',
		other_income TEXT NOT NULL DEFAULT '0',
		net_payment TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_periods_driver_start
		ON payment_periods(driver_user_id, start_date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_periods_driver_range
		ON payment_periods(driver_user_id, start_date, end_date);

	-- Loads and their ordered stop itineraries
	CREATE TABLE IF NOT EXISTS loads (
		id TEXT PRIMARY KEY,
		load_number TEXT NOT NULL,
		driver_user_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'assigned',
		total_amount TEXT NOT NULL DEFAULT '0',
		delivered_on TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_loads_driver_status
		ON loads(driver_user_id, status);
	CREATE INDEX IF NOT EXISTS idx_loads_delivered_on
		ON loads(delivered_on) WHERE delivered_on IS NOT NULL;

	CREATE TABLE IF NOT EXISTS load_stops (
		id TEXT PRIMARY KEY,
		load_id TEXT NOT NULL REFERENCES loads(id),
		stop_number INTEGER NOT NULL,
		stop_type TEXT NOT NULL,
		city TEXT,
		state TEXT,
		scheduled_date TEXT,
		eta_date TEXT,
		actual_arrival TEXT,
		completion TEXT,
		UNIQUE(load_id, stop_number)
	);

	-- Append-only status history
	CREATE TABLE IF NOT EXISTS load_status_history (
		id TEXT PRIMARY KEY,
		load_id TEXT NOT NULL REFERENCES loads(id),
		status TEXT NOT NULL,
		stop_id TEXT,
		eta TEXT,
		notes TEXT,
		changed_by TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_status_history_load
		ON load_status_history(load_id, created_at);

	-- Settlement line items
	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		driver_user_id TEXT NOT NULL,
		expense_date TEXT NOT NULL,
		amount TEXT NOT NULL,
		category TEXT,
		description TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_driver_date
		ON expenses(driver_user_id, expense_date);

	CREATE TABLE IF NOT EXISTS other_income (
		id TEXT PRIMARY KEY,
		driver_user_id TEXT NOT NULL,
		income_date TEXT NOT NULL,
		amount TEXT NOT NULL,
		description TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_other_income_driver_date
		ON other_income(driver_user_id, income_date);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PAYMENT CONFIGS
// =============================================================================

// DriverConfig is a driver's payroll configuration row.
type DriverConfig struct {
	DriverUserID  string
	Frequency     period.Frequency
	CycleStartDay int
	Timezone      string
}

// SaveConfig upserts a driver's payroll configuration.
func (s *Store) SaveConfig(ctx context.Context, cfg DriverConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payment_configs (driver_user_id, frequency, cycle_start_day, timezone, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(driver_user_id) DO UPDATE SET
			frequency = excluded.frequency,
			cycle_start_day = excluded.cycle_start_day,
			timezone = excluded.timezone,
			updated_at = excluded.updated_at`,
		cfg.DriverUserID, string(cfg.Frequency), cfg.CycleStartDay, cfg.Timezone,
		time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetConfig returns a driver's configuration, or nil when absent.
func (s *Store) GetConfig(ctx context.Context, driverID string) (*DriverConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT driver_user_id, frequency, cycle_start_day, timezone
		FROM payment_configs WHERE driver_user_id = ?`, driverID)

	var cfg DriverConfig
	var freq string
	if err := row.Scan(&cfg.DriverUserID, &freq, &cfg.CycleStartDay, &cfg.Timezone); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	cfg.Frequency = period.Frequency(freq)
	return &cfg, nil
}

// ListConfigs returns every driver's configuration.
func (s *Store) ListConfigs(ctx context.Context) ([]DriverConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT driver_user_id, frequency, cycle_start_day, timezone
		FROM payment_configs ORDER BY driver_user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []DriverConfig
	for rows.Next() {
		var cfg DriverConfig
		var freq string
		if err := rows.Scan(&cfg.DriverUserID, &freq, &cfg.CycleStartDay, &cfg.Timezone); err != nil {
			return nil, err
		}
		cfg.Frequency = period.Frequency(freq)
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

// =============================================================================
// PAYMENT PERIODS (implements period.Store)
// =============================================================================

// FetchPeriodByID returns the period record or period.ErrPeriodNotFound.
func (s *Store) FetchPeriodByID(ctx context.Context, id string) (*period.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, driver_user_id, start_date, end_date, frequency, status, locked,
		       gross_earnings, total_deductions, other_income, net_payment
		FROM payment_periods WHERE id = ?`, id)

	rec, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return nil, period.ErrPeriodNotFound
	}
	return rec, err
}

// FindPeriodByRange returns the driver's period with exactly these
// bounds, or nil. Used for idempotent pregeneration.
func (s *Store) FindPeriodByRange(ctx context.Context, driverID string, start, end calendar.Date) (*period.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, driver_user_id, start_date, end_date, frequency, status, locked,
		       gross_earnings, total_deductions, other_income, net_payment
		FROM payment_periods
		WHERE driver_user_id = ? AND start_date = ? AND end_date = ?`,
		driverID, start.String(), end.String())

	rec, err := scanPeriod(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// ListPeriodsByDriver returns a driver's periods, newest first.
func (s *Store) ListPeriodsByDriver(ctx context.Context, driverID string) ([]period.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, driver_user_id, start_date, end_date, frequency, status, locked,
		       gross_earnings, total_deductions, other_income, net_payment
		FROM payment_periods
		WHERE driver_user_id = ?
		ORDER BY start_date DESC`, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []period.Record
	for rows.Next() {
		rec, err := scanPeriod(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// SavePeriod inserts a period record, generating an id when absent.
func (s *Store) SavePeriod(ctx context.Context, rec *period.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = NewID()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payment_periods
			(id, driver_user_id, start_date, end_date, frequency, status, locked,
			 gross_earnings, total_deductions, other_income, net_payment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.DriverUserID, rec.StartDate.String(), rec.EndDate.String(),
		string(rec.Frequency), string(rec.Status), boolToInt(rec.Locked),
		rec.GrossEarnings.String(), rec.TotalDeductions.String(),
		rec.OtherIncome.String(), rec.NetPayment.String(), now, now)
	return err
}

// UpdatePeriodTotals writes recomputed settlement totals onto a period.
// Locked periods are never touched.
func (s *Store) UpdatePeriodTotals(ctx context.Context, id string, st payroll.Settlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE payment_periods SET
			gross_earnings = ?, total_deductions = ?, other_income = ?,
			net_payment = ?, updated_at = ?
		WHERE id = ? AND locked = 0`,
		st.GrossEarnings.String(), st.TotalDeductions.String(),
		st.OtherIncome.String(), st.NetPayment.String(),
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("period %s not updated (missing or locked)", id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPeriod(row rowScanner) (*period.Record, error) {
	var rec period.Record
	var start, end, freq, status string
	var locked int
	var gross, deductions, other, net string

	err := row.Scan(&rec.ID, &rec.DriverUserID, &start, &end, &freq, &status, &locked,
		&gross, &deductions, &other, &net)
	if err != nil {
		return nil, err
	}

	if rec.StartDate, err = calendar.ParseDate(start); err != nil {
		return nil, fmt.Errorf("period %s: bad start_date: %w", rec.ID, err)
	}
	if rec.EndDate, err = calendar.ParseDate(end); err != nil {
		return nil, fmt.Errorf("period %s: bad end_date: %w", rec.ID, err)
	}
	rec.Frequency = period.Frequency(freq)
	rec.Status = period.RecordStatus(status)
	rec.Locked = locked != 0
	if rec.GrossEarnings, err = decimal.NewFromString(gross); err != nil {
		return nil, err
	}
	if rec.TotalDeductions, err = decimal.NewFromString(deductions); err != nil {
		return nil, err
	}
	if rec.OtherIncome, err = decimal.NewFromString(other); err != nil {
		return nil, err
	}
	if rec.NetPayment, err = decimal.NewFromString(net); err != nil {
		return nil, err
	}
	return &rec, nil
}

// =============================================================================
// LOADS
// =============================================================================

// SaveLoad inserts a load and its stops in one transaction.
func (s *Store) SaveLoad(ctx context.Context, l *load.Load) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if l.ID == "" {
		l.ID = NewID()
	}
	var deliveredOn any
	if !l.DeliveredOn.IsZero() {
		deliveredOn = l.DeliveredOn.String()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO loads (id, load_number, driver_user_id, status, total_amount, delivered_on)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, l.LoadNumber, l.DriverID, string(l.Status), l.TotalAmount.String(), deliveredOn)
	if err != nil {
		return err
	}

	for i := range l.Stops {
		st := &l.Stops[i]
		if st.ID == "" {
			st.ID = NewID()
		}
		st.LoadID = l.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO load_stops
				(id, load_id, stop_number, stop_type, city, state,
				 scheduled_date, eta_date, actual_arrival, completion)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			st.ID, st.LoadID, st.StopNumber, string(st.Type), st.City, st.State,
			nullDate(st.ScheduledDate), nullDate(st.ETADate),
			nullTime(st.ActualArrival), nullTime(st.Completion))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetLoad returns a load with its stops, or load.ErrLoadNotFound.
func (s *Store) GetLoad(ctx context.Context, id string) (*load.Load, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, load_number, driver_user_id, status, total_amount, delivered_on
		FROM loads WHERE id = ?`, id)

	l, err := scanLoad(row)
	if err == sql.ErrNoRows {
		return nil, load.ErrLoadNotFound
	}
	if err != nil {
		return nil, err
	}

	stops, err := s.loadStops(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	l.Stops = stops
	return l, nil
}

// ListLoadsByDriver returns a driver's loads with stops attached.
func (s *Store) ListLoadsByDriver(ctx context.Context, driverID string) ([]load.Load, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, load_number, driver_user_id, status, total_amount, delivered_on
		FROM loads WHERE driver_user_id = ? ORDER BY load_number`, driverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loads []load.Load
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range loads {
		stops, err := s.loadStops(ctx, loads[i].ID)
		if err != nil {
			return nil, err
		}
		loads[i].Stops = stops
	}
	return loads, nil
}

// ListLoadsDeliveredIn returns a driver's loads delivered within [from, to].
func (s *Store) ListLoadsDeliveredIn(ctx context.Context, driverID string, from, to calendar.Date) ([]load.Load, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, load_number, driver_user_id, status, total_amount, delivered_on
		FROM loads
		WHERE driver_user_id = ? AND delivered_on IS NOT NULL
		  AND delivered_on >= ? AND delivered_on <= ?
		ORDER BY delivered_on`, driverID, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loads []load.Load
	for rows.Next() {
		l, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, *l)
	}
	return loads, rows.Err()
}

// StatusEvent is one appended status-history row.
type StatusEvent struct {
	ID        string
	LoadID    string
	Status    load.Status
	StopID    string
	ETA       string
	Notes     string
	ChangedBy string
	CreatedAt time.Time
}

// AdvanceLoad writes the new status onto the load and appends the
// history row atomically. Transition legality is the caller's concern
// (checked against load.CheckTransition before calling).
func (s *Store) AdvanceLoad(ctx context.Context, loadID string, newStatus load.Status, deliveredOn calendar.Date, ev StatusEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var deliveredVal any
	if !deliveredOn.IsZero() {
		deliveredVal = deliveredOn.String()
	}
	res, err := tx.ExecContext(ctx, `
		UPDATE loads SET status = ?, delivered_on = COALESCE(?, delivered_on)
		WHERE id = ?`, string(newStatus), deliveredVal, loadID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return load.ErrLoadNotFound
	}

	if ev.ID == "" {
		ev.ID = NewID()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO load_status_history (id, load_id, status, stop_id, eta, notes, changed_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, loadID, string(newStatus), ev.StopID, ev.ETA, ev.Notes, ev.ChangedBy,
		ev.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListStatusHistory returns a load's status history, oldest first.
func (s *Store) ListStatusHistory(ctx context.Context, loadID string) ([]StatusEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, load_id, status, stop_id, eta, notes, changed_by, created_at
		FROM load_status_history WHERE load_id = ? ORDER BY rowid`, loadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []StatusEvent
	for rows.Next() {
		var ev StatusEvent
		var status, createdAt string
		if err := rows.Scan(&ev.ID, &ev.LoadID, &status, &ev.StopID, &ev.ETA,
			&ev.Notes, &ev.ChangedBy, &createdAt); err != nil {
			return nil, err
		}
		ev.Status = load.Status(status)
		ev.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *Store) loadStops(ctx context.Context, loadID string) ([]load.Stop, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, load_id, stop_number, stop_type, city, state,
		       scheduled_date, eta_date, actual_arrival, completion
		FROM load_stops WHERE load_id = ? ORDER BY stop_number`, loadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stops []load.Stop
	for rows.Next() {
		var st load.Stop
		var stopType string
		var scheduled, eta, arrival, completion sql.NullString
		if err := rows.Scan(&st.ID, &st.LoadID, &st.StopNumber, &stopType,
			&st.City, &st.State, &scheduled, &eta, &arrival, &completion); err != nil {
			return nil, err
		}
		st.Type = load.StopType(stopType)
		if scheduled.Valid {
			st.ScheduledDate, _ = calendar.ParseDate(scheduled.String)
		}
		if eta.Valid {
			st.ETADate, _ = calendar.ParseDate(eta.String)
		}
		if arrival.Valid {
			if t, err := time.Parse(time.RFC3339Nano, arrival.String); err == nil {
				st.ActualArrival = &t
			}
		}
		if completion.Valid {
			if t, err := time.Parse(time.RFC3339Nano, completion.String); err == nil {
				st.Completion = &t
			}
		}
		stops = append(stops, st)
	}
	return stops, rows.Err()
}

func scanLoad(row rowScanner) (*load.Load, error) {
	var l load.Load
	var status, amount string
	var deliveredOn sql.NullString

	err := row.Scan(&l.ID, &l.LoadNumber, &l.DriverID, &status, &amount, &deliveredOn)
	if err != nil {
		return nil, err
	}
	l.Status = load.Status(status)
	if l.TotalAmount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	if deliveredOn.Valid {
		l.DeliveredOn, _ = calendar.ParseDate(deliveredOn.String)
	}
	return &l, nil
}

// =============================================================================
// SETTLEMENT LINE ITEMS
// =============================================================================

// SaveExpense inserts an expense row.
func (s *Store) SaveExpense(ctx context.Context, e *payroll.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = NewID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (id, driver_user_id, expense_date, amount, category, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.DriverID, e.Date.String(), e.Amount.String(), e.Category, e.Description)
	return err
}

// ListExpensesIn returns a driver's expenses dated within [from, to].
func (s *Store) ListExpensesIn(ctx context.Context, driverID string, from, to calendar.Date) ([]payroll.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, driver_user_id, expense_date, amount, category, description
		FROM expenses
		WHERE driver_user_id = ? AND expense_date >= ? AND expense_date <= ?
		ORDER BY expense_date`, driverID, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []payroll.Expense
	for rows.Next() {
		var e payroll.Expense
		var date, amount string
		if err := rows.Scan(&e.ID, &e.DriverID, &date, &amount, &e.Category, &e.Description); err != nil {
			return nil, err
		}
		if e.Date, err = calendar.ParseDate(date); err != nil {
			return nil, err
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// SaveOtherIncome inserts an other-income row.
func (s *Store) SaveOtherIncome(ctx context.Context, oi *payroll.OtherIncome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if oi.ID == "" {
		oi.ID = NewID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO other_income (id, driver_user_id, income_date, amount, description)
		VALUES (?, ?, ?, ?, ?)`,
		oi.ID, oi.DriverID, oi.Date.String(), oi.Amount.String(), oi.Description)
	return err
}

// ListOtherIncomeIn returns a driver's other income dated within [from, to].
func (s *Store) ListOtherIncomeIn(ctx context.Context, driverID string, from, to calendar.Date) ([]payroll.OtherIncome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, driver_user_id, income_date, amount, description
		FROM other_income
		WHERE driver_user_id = ? AND income_date >= ? AND income_date <= ?
		ORDER BY income_date`, driverID, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var income []payroll.OtherIncome
	for rows.Next() {
		var oi payroll.OtherIncome
		var date, amount string
		if err := rows.Scan(&oi.ID, &oi.DriverID, &date, &amount, &oi.Description); err != nil {
			return nil, err
		}
		if oi.Date, err = calendar.ParseDate(date); err != nil {
			return nil, err
		}
		if oi.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		income = append(income, oi)
	}
	return income, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullDate(d calendar.Date) any {
	if d.IsZero() {
		return nil
	}
	return d.String()
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}
