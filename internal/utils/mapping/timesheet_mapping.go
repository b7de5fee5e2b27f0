package mapping

import (
	"fmt"
	"time"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/SscSPs/timesheet_app/internal/models"
)

// ToModelTimesheet converts a domain Timesheet to its row. Entry dates are stored
// as YYYY-MM-DD strings inside the JSONB array.
func ToModelTimesheet(d domain.Timesheet) models.Timesheet {
	entries := make([]models.TimesheetEntry, len(d.Entries))
	for i, e := range d.Entries {
		entries[i] = models.TimesheetEntry{
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
	return models.Timesheet{
		TimesheetID:      d.TimesheetID,
		UserID:           d.UserID,
		WeekStart:        d.WeekStart,
		WeekEnd:          d.WeekEnd,
		Year:             d.Year,
		WeekNumber:       d.WeekNumber,
		Status:           string(d.Status),
		Entries:          entries,
		TotalHours:       d.TotalHours,
		BillableHours:    d.BillableHours,
		NonBillableHours: d.NonBillableHours,
		HasRunningTimer:  d.HasRunningTimer,
		IsLocked:         d.IsLocked,
		SubmittedAt:      d.SubmittedAt,
		ApprovedBy:       d.ApprovedBy,
		ApprovedAt:       d.ApprovedAt,
		RejectedAt:       d.RejectedAt,
		RejectionReason:  d.RejectionReason,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// ToDomainTimesheet converts a row back into a domain Timesheet.
func ToDomainTimesheet(m models.Timesheet) (domain.Timesheet, error) {
	entries := make([]domain.TimesheetEntry, len(m.Entries))
	for i, e := range m.Entries {
		date, err := time.Parse(time.DateOnly, e.Date)
		if err != nil {
			return domain.Timesheet{}, fmt.Errorf("timesheet %s entry %s: bad date %q: %w", m.TimesheetID, e.EntryKey, e.Date, err)
		}
		entries[i] = domain.TimesheetEntry{
			EntryKey:   e.EntryKey,
			Date:       date,
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
	return domain.Timesheet{
		TimesheetID: m.TimesheetID,
		UserID:      m.UserID,
		WeekStart:   domain.DateOf(m.WeekStart),
		WeekEnd:     domain.DateOf(m.WeekEnd),
		Year:        m.Year,
		WeekNumber:  m.WeekNumber,
		Status:      domain.TimesheetStatus(m.Status),
		Entries:     entries,
		Totals: domain.Totals{
			TotalHours:       m.TotalHours,
			BillableHours:    m.BillableHours,
			NonBillableHours: m.NonBillableHours,
			HasRunningTimer:  m.HasRunningTimer,
		},
		IsLocked:        m.IsLocked,
		SubmittedAt:     m.SubmittedAt,
		ApprovedBy:      m.ApprovedBy,
		ApprovedAt:      m.ApprovedAt,
		RejectedAt:      m.RejectedAt,
		RejectionReason: m.RejectionReason,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}
