/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Periods:
    PeriodDTO, PeriodRecordDTO, ResolveRequest, GeneratePeriodsRequest

  Settlement:
    SettlementDTO

  Loads:
    LoadDTO, StopDTO, ActionDTO, StatusEventDTO, CreateLoadRequest,
    AdvanceStatusRequest

  Configs:
    ConfigDTO, SaveConfigRequest

MONEY:
  All money fields are decimal strings ("1234.56"), never floats. Clients
  that want numbers parse them with a decimal library on their side.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

// =============================================================================
// PERIOD TYPES
// =============================================================================

// PeriodDTO represents a resolved or computed payment period.
type PeriodDTO struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Frequency     string `json:"frequency"`
	CycleStartDay int    `json:"cycle_start_day,omitempty"`
	Kind          string `json:"kind"`
	Label         string `json:"label"`
	Days          int    `json:"days"`

	// Source is "persisted" or "computed". Repaired is true when a
	// malformed persisted record was replaced by computed boundaries.
	Source   string `json:"source,omitempty"`
	Repaired bool   `json:"repaired,omitempty"`

	// RecordID is set when the boundaries came from a persisted record.
	RecordID string `json:"record_id,omitempty"`
}

// PeriodRecordDTO represents a persisted payment period row.
type PeriodRecordDTO struct {
	ID              string `json:"id"`
	DriverUserID    string `json:"driver_user_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	Frequency       string `json:"frequency"`
	Label           string `json:"label"`
	Status          string `json:"status"`
	Locked          bool   `json:"locked"`
	GrossEarnings   string `json:"gross_earnings"`
	TotalDeductions string `json:"total_deductions"`
	OtherIncome     string `json:"other_income"`
	NetPayment      string `json:"net_payment"`
}

// ResolveRequest names one period to resolve.
type ResolveRequest struct {
	DriverUserID string `json:"driver_user_id"`
	Kind         string `json:"kind"`
	PeriodID     string `json:"period_id,omitempty"`
	StartDate    string `json:"start_date,omitempty"`
	EndDate      string `json:"end_date,omitempty"`
	Date         string `json:"date,omitempty"` // reference date, default today
}

// GeneratePeriodsRequest asks for upcoming periods to be persisted.
type GeneratePeriodsRequest struct {
	DriverUserID string `json:"driver_user_id"`
	Count        int    `json:"count,omitempty"`
}

// SettlementDTO is the money summary of one period.
type SettlementDTO struct {
	Period             PeriodDTO `json:"period"`
	GrossEarnings      string    `json:"gross_earnings"`
	TotalDeductions    string    `json:"total_deductions"`
	OtherIncome        string    `json:"other_income"`
	TotalIncome        string    `json:"total_income"`
	NetPayment         string    `json:"net_payment"`
	HasNegativeBalance bool      `json:"has_negative_balance"`
	LoadCount          int       `json:"load_count"`
	ExpenseCount       int       `json:"expense_count"`
}

// =============================================================================
// LOAD TYPES
// =============================================================================

// StopDTO represents one stop of a load's itinerary.
type StopDTO struct {
	ID         string `json:"id"`
	StopNumber int    `json:"stop_number"`
	Type       string `json:"type"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`

	// Timestamp is the stop's most authoritative time field;
	// TimestampKind says which field it came from.
	Timestamp     string `json:"timestamp,omitempty"`
	TimestampKind string `json:"timestamp_kind"`
}

// ActionDTO is the next legal driver action for a load.
type ActionDTO struct {
	Kind       string `json:"kind"`
	NextStatus string `json:"next_status"`
	StopID     string `json:"stop_id,omitempty"`
}

// LoadDTO represents a load with derived progress.
type LoadDTO struct {
	ID          string    `json:"id"`
	LoadNumber  string    `json:"load_number"`
	DriverID    string    `json:"driver_user_id"`
	Status      string    `json:"status"`
	TotalAmount string    `json:"total_amount"`
	DeliveredOn string    `json:"delivered_on,omitempty"`
	Progress    int       `json:"progress"`
	TotalStates int       `json:"total_states"`
	Degraded    bool      `json:"degraded,omitempty"`
	Stops       []StopDTO `json:"stops"`

	// NextAction is nil for terminal loads.
	NextAction *ActionDTO `json:"next_action,omitempty"`
}

// StatusEventDTO is one row of a load's status history.
type StatusEventDTO struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	StopID    string `json:"stop_id,omitempty"`
	ETA       string `json:"eta,omitempty"`
	Notes     string `json:"notes,omitempty"`
	ChangedBy string `json:"changed_by,omitempty"`
	CreatedAt string `json:"created_at"`
}

// CreateLoadRequest creates a load with its stops.
type CreateLoadRequest struct {
	LoadNumber   string `json:"load_number"`
	DriverUserID string `json:"driver_user_id"`
	TotalAmount  string `json:"total_amount"`
	Stops        []struct {
		StopNumber    int    `json:"stop_number"`
		Type          string `json:"type"`
		City          string `json:"city,omitempty"`
		State         string `json:"state,omitempty"`
		ScheduledDate string `json:"scheduled_date,omitempty"`
		ETADate       string `json:"eta_date,omitempty"`
	} `json:"stops"`
}

// AdvanceStatusRequest asks a load to move to the given status.
type AdvanceStatusRequest struct {
	Status    string `json:"status"`
	StopID    string `json:"stop_id,omitempty"`
	ETA       string `json:"eta,omitempty"`
	Notes     string `json:"notes,omitempty"`
	ChangedBy string `json:"changed_by,omitempty"`

	// DeliveredOn is required when advancing to delivered.
	DeliveredOn string `json:"delivered_on,omitempty"`
}

// =============================================================================
// CONFIG TYPES
// =============================================================================

// ConfigDTO represents a driver's payroll configuration.
type ConfigDTO struct {
	DriverUserID  string `json:"driver_user_id"`
	Frequency     string `json:"frequency"`
	CycleStartDay int    `json:"cycle_start_day"`
	Timezone      string `json:"timezone"`
}

// SaveConfigRequest upserts a driver's payroll configuration.
type SaveConfigRequest struct {
	DriverUserID  string `json:"driver_user_id"`
	Frequency     string `json:"frequency"`
	CycleStartDay int    `json:"cycle_start_day"`
	Timezone      string `json:"timezone,omitempty"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
