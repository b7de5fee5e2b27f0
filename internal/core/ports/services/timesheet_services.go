package services

import (
	"context"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/SscSPs/timesheet_app/internal/dto"
)

// TimesheetReaderSvc defines read operations for timesheets
type TimesheetReaderSvc interface {
	// GetTimesheet retrieves one timesheet the actor may view.
	GetTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error)

	// ListTimesheets retrieves the timesheets matching params that the actor may view.
	ListTimesheets(ctx context.Context, params dto.ListTimesheetsParams, actor domain.Identity) ([]domain.Timesheet, *string, error)
}

// TimesheetLifecycleSvc drives the status state machine of a timesheet.
type TimesheetLifecycleSvc interface {
	// GetOrCreateTimesheet returns the timesheet of a user for a week, creating it on first access.
	GetOrCreateTimesheet(ctx context.Context, req dto.GetOrCreateTimesheetRequest, actor domain.Identity) (*domain.Timesheet, error)

	// ApplyAction dispatches a PATCH action (submit, approve, reject, unapprove, recalculate).
	ApplyAction(ctx context.Context, timesheetID string, req dto.TimesheetActionRequest, actor domain.Identity) (*domain.Timesheet, error)

	SubmitTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error)
	ApproveTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error)
	RejectTimesheet(ctx context.Context, timesheetID string, reason *string, actor domain.Identity) (*domain.Timesheet, error)
	UnapproveTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error)
	// RecalculateTimesheet rebuilds totals from entries and refreshes the referenced projects.
	RecalculateTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error)

	DeleteTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) error
}

// TimesheetSvcFacade combines all timesheet service interfaces
type TimesheetSvcFacade interface {
	TimesheetReaderSvc
	TimesheetLifecycleSvc
}

// TimesheetEntrySvc mutates the entries of a timesheet. Every call persists the
// recomputed totals before returning and refreshes project rollups in the background.
type TimesheetEntrySvc interface {
	AddEntry(ctx context.Context, timesheetID string, req dto.AddEntryRequest, actor domain.Identity) (*domain.Timesheet, error)
	UpdateEntry(ctx context.Context, timesheetID string, req dto.UpdateEntryRequest, actor domain.Identity) (*domain.Timesheet, error)
	DeleteEntry(ctx context.Context, timesheetID string, entryKey string, actor domain.Identity) (*domain.Timesheet, error)
}
