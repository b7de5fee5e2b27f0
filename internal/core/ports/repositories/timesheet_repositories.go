package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
)

// TimesheetFilter narrows a timesheet listing. Zero values mean "no constraint".
type TimesheetFilter struct {
	UserID string
	Status *domain.TimesheetStatus
	// WeekStart selects the single week starting on this Monday.
	WeekStart *time.Time
	// StartDate and EndDate select weeks overlapping the inclusive range.
	StartDate *time.Time
	EndDate   *time.Time
	// BeforeWeek selects weeks starting strictly before this Monday.
	BeforeWeek *time.Time
	// WithEntriesOnly skips timesheets that have no entries.
	WithEntriesOnly bool
	Limit           int
	NextToken       *string
}

// TimesheetReader defines read operations for timesheets
type TimesheetReader interface {
	// FindTimesheetByID retrieves a timesheet with its entries.
	FindTimesheetByID(ctx context.Context, timesheetID string) (*domain.Timesheet, error)

	// ListTimesheets retrieves timesheets newest week first using token-based pagination.
	ListTimesheets(ctx context.Context, filter TimesheetFilter) ([]domain.Timesheet, *string, error)
}

// TimesheetWriter defines write operations for timesheets
type TimesheetWriter interface {
	// GetOrCreateTimesheet inserts ts unless a row with the same id exists and returns the stored row.
	// created reports whether this call inserted it.
	GetOrCreateTimesheet(ctx context.Context, ts domain.Timesheet) (stored *domain.Timesheet, created bool, err error)

	// SaveTimesheet overwrites the entries, totals and workflow fields of an existing timesheet.
	SaveTimesheet(ctx context.Context, ts domain.Timesheet) error

	// DeleteTimesheet removes a timesheet row.
	DeleteTimesheet(ctx context.Context, timesheetID string) error
}

// TimesheetRepositoryFacade combines all timesheet repository interfaces
type TimesheetRepositoryFacade interface {
	TimesheetReader
	TimesheetWriter
}
