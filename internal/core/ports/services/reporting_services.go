package services

import (
	"context"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/SscSPs/timesheet_app/internal/dto"
)

// ReportingSvc builds read-only time reports.
type ReportingSvc interface {
	// TimeReport groups the hours logged in a date range by client, project, task and user.
	TimeReport(ctx context.Context, params dto.TimeReportParams, actor domain.Identity) (*domain.TimeReport, error)
}
