package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
)

// ReportFilter selects the entries that feed a time report.
type ReportFilter struct {
	StartDate time.Time
	EndDate   time.Time
	// UserID restricts the report to one user's timesheets when set.
	UserID string
	Status *domain.TimesheetStatus
}

// ReportingRepository defines operations for retrieving report data
type ReportingRepository interface {
	// ListReportEntries flattens the timesheet entries dated within the filter range
	// together with user, client, project and task labels.
	ListReportEntries(ctx context.Context, filter ReportFilter) ([]domain.ReportEntry, error)
}
