package dto

import (
	"time"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GetOrCreateTimesheetRequest selects the week (any date inside it, YYYY-MM-DD) and user.
// Both default to the current week and the caller.
type GetOrCreateTimesheetRequest struct {
	WeekStart string `json:"weekStart"`
	UserID    string `json:"userId"`
}

// ListTimesheetsParams defines query parameters for listing timesheets.
type ListTimesheetsParams struct {
	WeekStart  string  `form:"weekStart"`
	UserID     string  `form:"userId"`
	ForCopy    bool    `form:"forCopy"`
	StartDate  string  `form:"startDate"`
	EndDate    string  `form:"endDate"`
	Status     string  `form:"status" binding:"omitempty,oneof=unsubmitted submitted approved rejected"`
	BeforeWeek string  `form:"beforeWeek"`
	Limit      int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken  *string `form:"nextToken"`
}

// TimesheetActionRequest is the body of PATCH /timesheets/{id}.
type TimesheetActionRequest struct {
	Action string  `json:"action" binding:"required,oneof=submit approve reject unapprove recalculate"`
	Reason *string `json:"reason"`
}

// TimesheetEntryResponse mirrors domain.TimesheetEntry.
type TimesheetEntryResponse struct {
	EntryKey   string          `json:"entryKey"`
	Date       string          `json:"date"`
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

// TimesheetResponse defines the data returned for a timesheet.
type TimesheetResponse struct {
	TimesheetID      string                   `json:"timesheetID"`
	UserID           string                   `json:"userID"`
	WeekStart        string                   `json:"weekStart"`
	WeekEnd          string                   `json:"weekEnd"`
	Year             int                      `json:"year"`
	WeekNumber       int                      `json:"weekNumber"`
	Status           domain.TimesheetStatus   `json:"status"`
	Entries          []TimesheetEntryResponse `json:"entries"`
	TotalHours       decimal.Decimal          `json:"totalHours"`
	BillableHours    decimal.Decimal          `json:"billableHours"`
	NonBillableHours decimal.Decimal          `json:"nonBillableHours"`
	HasRunningTimer  bool                     `json:"hasRunningTimer"`
	IsLocked         bool                     `json:"isLocked"`
	SubmittedAt      *time.Time               `json:"submittedAt,omitempty"`
	ApprovedBy       *string                  `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time               `json:"approvedAt,omitempty"`
	RejectedAt       *time.Time               `json:"rejectedAt,omitempty"`
	RejectionReason  *string                  `json:"rejectionReason,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

// ListTimesheetsResponse wraps a page of timesheets.
type ListTimesheetsResponse struct {
	Timesheets []TimesheetResponse `json:"timesheets"`
	NextToken  *string             `json:"nextToken,omitempty"`
}

// ToTimesheetEntryResponse converts a domain.TimesheetEntry to its DTO
func ToTimesheetEntryResponse(e domain.TimesheetEntry) TimesheetEntryResponse {
	return TimesheetEntryResponse{
		EntryKey:   e.EntryKey,
		Date:       e.Date.Format(time.DateOnly),
		ProjectID:  e.ProjectID,
		TaskID:     e.TaskID,
		Hours:      e.Hours,
		Notes:      e.Notes,
		IsBillable: e.IsBillable,
		IsRunning:  e.IsRunning,
		StartTime:  e.StartTime,
		EndTime:    e.EndTime,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// ToTimesheetResponse converts a domain.Timesheet to TimesheetResponse DTO
func ToTimesheetResponse(ts *domain.Timesheet) TimesheetResponse {
	entries := make([]TimesheetEntryResponse, len(ts.Entries))
	for i, e := range ts.Entries {
		entries[i] = ToTimesheetEntryResponse(e)
	}
	return TimesheetResponse{
		TimesheetID:      ts.TimesheetID,
		UserID:           ts.UserID,
		WeekStart:        ts.WeekStart.Format(time.DateOnly),
		WeekEnd:          ts.WeekEnd.Format(time.DateOnly),
		Year:             ts.Year,
		WeekNumber:       ts.WeekNumber,
		Status:           ts.Status,
		Entries:          entries,
		TotalHours:       ts.TotalHours,
		BillableHours:    ts.BillableHours,
		NonBillableHours: ts.NonBillableHours,
		HasRunningTimer:  ts.HasRunningTimer,
		IsLocked:         ts.IsLocked,
		SubmittedAt:      ts.SubmittedAt,
		ApprovedBy:       ts.ApprovedBy,
		ApprovedAt:       ts.ApprovedAt,
		RejectedAt:       ts.RejectedAt,
		RejectionReason:  ts.RejectionReason,
		CreatedAt:        ts.CreatedAt,
		UpdatedAt:        ts.UpdatedAt,
	}
}

// ToListTimesheetsResponse converts a page of timesheets to its DTO
func ToListTimesheetsResponse(sheets []domain.Timesheet, nextToken *string) ListTimesheetsResponse {
	res := make([]TimesheetResponse, len(sheets))
	for i := range sheets {
		res[i] = ToTimesheetResponse(&sheets[i])
	}
	return ListTimesheetsResponse{Timesheets: res, NextToken: nextToken}
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns the calendar day in UTC.
func ParseDate(raw string) (time.Time, error) {
	if d, err := time.Parse(time.DateOnly, raw); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, err
	}
	return domain.DateOf(t.UTC()), nil
}
