package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// TimesheetStatus is the approval state of a weekly timesheet.
type TimesheetStatus string

const (
	StatusUnsubmitted TimesheetStatus = "unsubmitted"
	StatusSubmitted   TimesheetStatus = "submitted"
	StatusApproved    TimesheetStatus = "approved"
	StatusRejected    TimesheetStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s TimesheetStatus) Valid() bool {
	switch s {
	case StatusUnsubmitted, StatusSubmitted, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Totals are derived from the entries of a timesheet and are never edited on their own.
type Totals struct {
	TotalHours       decimal.Decimal `json:"totalHours"`
	BillableHours    decimal.Decimal `json:"billableHours"`
	NonBillableHours decimal.Decimal `json:"nonBillableHours"`
	HasRunningTimer  bool            `json:"hasRunningTimer"`
}

// TimesheetEntry is a single logged time record. It only exists inside its timesheet.
// While IsRunning is set, Hours holds the time accumulated before the timer started
// and EndTime is nil.
type TimesheetEntry struct {
	EntryKey   string          `json:"entryKey"`
	Date       time.Time       `json:"date"`
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

// Timesheet is the weekly record of one user's time. Its ID is derived from the
// user and ISO week, so there is at most one per user per week.
type Timesheet struct {
	TimesheetID string           `json:"timesheetID"`
	UserID      string           `json:"userID"`
	WeekStart   time.Time        `json:"weekStart"`
	WeekEnd     time.Time        `json:"weekEnd"`
	Year        int              `json:"year"`
	WeekNumber  int              `json:"weekNumber"`
	Status      TimesheetStatus  `json:"status"`
	Entries     []TimesheetEntry `json:"entries"`
	Totals
	IsLocked        bool       `json:"isLocked"`
	SubmittedAt     *time.Time `json:"submittedAt,omitempty"`
	ApprovedBy      *string    `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// IsOwnedBy reports whether userID owns the timesheet.
func (t *Timesheet) IsOwnedBy(userID string) bool {
	return t.UserID == userID
}

// FindEntry returns the index of the entry with the given key.
func (t *Timesheet) FindEntry(entryKey string) (int, bool) {
	for i := range t.Entries {
		if t.Entries[i].EntryKey == entryKey {
			return i, true
		}
	}
	return -1, false
}

// ContainsDate reports whether d falls on a day of the timesheet week.
func (t *Timesheet) ContainsDate(d time.Time) bool {
	day := DateOf(d)
	return !day.Before(DateOf(t.WeekStart)) && !day.After(DateOf(t.WeekEnd))
}

// RunningEntryKeys lists the keys of entries whose timer is running.
func (t *Timesheet) RunningEntryKeys() []string {
	var keys []string
	for _, e := range t.Entries {
		if e.IsRunning {
			keys = append(keys, e.EntryKey)
		}
	}
	return keys
}

// ProjectIDs returns the distinct project ids referenced by the entries, sorted.
func (t *Timesheet) ProjectIDs() []string {
	seen := make(map[string]struct{}, len(t.Entries))
	ids := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		if e.ProjectID == "" {
			continue
		}
		if _, ok := seen[e.ProjectID]; ok {
			continue
		}
		seen[e.ProjectID] = struct{}{}
		ids = append(ids, e.ProjectID)
	}
	sort.Strings(ids)
	return ids
}

// CheckInvariants verifies the entry invariants that every mutation must preserve.
func (t *Timesheet) CheckInvariants() error {
	running := 0
	for _, e := range t.Entries {
		if e.Hours.IsNegative() {
			return fmt.Errorf("entry %s has negative hours %s", e.EntryKey, e.Hours.String())
		}
		if e.IsRunning {
			running++
			if e.EndTime != nil {
				return fmt.Errorf("running entry %s has an end time", e.EntryKey)
			}
		}
	}
	if running > 1 {
		return fmt.Errorf("%d entries are running, at most one allowed", running)
	}
	return nil
}

// DateOf truncates t to midnight UTC of its calendar day.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
