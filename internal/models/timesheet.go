package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TimesheetEntry is one element of the timesheets.entries JSONB array.
// Its JSON keys are read by the rollup and reporting SQL, so renaming them
// needs a migration.
type TimesheetEntry struct {
	EntryKey   string          `json:"entryKey"`
	Date       string          `json:"date"` // YYYY-MM-DD
	ProjectID  string          `json:"projectId"`
	TaskID     *string         `json:"taskId,omitempty"`
	Hours      decimal.Decimal `json:"hours"`
	Notes      string          `json:"notes"`
	IsBillable bool            `json:"isBillable"`
	IsRunning  bool            `json:"isRunning"`
	StartTime  *time.Time      `json:"startTime,omitempty"`
	EndTime    *time.Time      `json:"endTime,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// Timesheet represents a row of the timesheets table.
type Timesheet struct {
	TimesheetID      string           `db:"timesheet_id"`
	UserID           string           `db:"user_id"`
	WeekStart        time.Time        `db:"week_start"`
	WeekEnd          time.Time        `db:"week_end"`
	Year             int              `db:"year"`
	WeekNumber       int              `db:"week_number"`
	Status           string           `db:"status"`
	Entries          []TimesheetEntry `db:"entries"`
	TotalHours       decimal.Decimal  `db:"total_hours"`
	BillableHours    decimal.Decimal  `db:"billable_hours"`
	NonBillableHours decimal.Decimal  `db:"non_billable_hours"`
	HasRunningTimer  bool             `db:"has_running_timer"`
	IsLocked         bool             `db:"is_locked"`
	SubmittedAt      *time.Time       `db:"submitted_at"`
	ApprovedBy       *string          `db:"approved_by"`
	ApprovedAt       *time.Time       `db:"approved_at"`
	RejectedAt       *time.Time       `db:"rejected_at"`
	RejectionReason  *string          `db:"rejection_reason"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}
