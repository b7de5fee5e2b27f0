package services

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/timesheet_app/internal/apperrors"
	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/SscSPs/timesheet_app/internal/core/policy"
	portsrepo "github.com/SscSPs/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/timesheet_app/internal/core/ports/services"
	"github.com/SscSPs/timesheet_app/internal/dto"
	"github.com/SscSPs/timesheet_app/internal/utils/timeaccounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	msgDateOutsideWeek = "Date outside week range"
	msgEntryNotFound   = "Entry not found"
)

// timesheetEntryService implements the TimesheetEntrySvc interface
type timesheetEntryService struct {
	timesheetStore
	tasks portsrepo.ProjectReader
}

// NewTimesheetEntryService creates the entry mutation service. tasks is used to seed
// the billable flag of new entries.
func NewTimesheetEntryService(
	repo portsrepo.TimesheetRepositoryFacade,
	tasks portsrepo.ProjectReader,
	dispatcher portssvc.AggregationDispatcher,
	options ...ServiceOption,
) portssvc.TimesheetEntrySvc {
	return &timesheetEntryService{
		timesheetStore: timesheetStore{
			BaseService: newBaseService(options...),
			repo:        repo,
			dispatcher:  dispatcher,
		},
		tasks: tasks,
	}
}

var _ portssvc.TimesheetEntrySvc = (*timesheetEntryService)(nil)

// AddEntry appends an entry. With IsTimer the entry starts running at hours=0 after any
// other running entry is stopped.
func (s *timesheetEntryService) AddEntry(ctx context.Context, timesheetID string, req dto.AddEntryRequest, actor domain.Identity) (*domain.Timesheet, error) {
	ts, err := s.loadAuthorized(ctx, timesheetID, policy.ActionEditEntries, actor)
	if err != nil {
		return nil, err
	}

	projectID := strings.TrimSpace(req.ProjectID)
	if projectID == "" {
		return nil, apperrors.NewValidationFailedError("projectId is required")
	}
	date, err := s.entryDate(ts, req.Date)
	if err != nil {
		return nil, err
	}
	hours := decimal.Zero
	if req.Hours != nil && !req.IsTimer {
		if hours, err = timeaccounting.NormalizeHours(*req.Hours); err != nil {
			return nil, apperrors.NewAppError(http.StatusBadRequest, "Hours must not be negative", err)
		}
	}
	taskID := normalizeTaskID(req.TaskID)

	now := s.Now()
	entry := domain.TimesheetEntry{
		EntryKey:   uuid.NewString(),
		Date:       date,
		ProjectID:  projectID,
		TaskID:     taskID,
		Hours:      hours,
		Notes:      req.Notes,
		IsBillable: s.resolveBillable(ctx, taskID),
		StartTime:  req.StartTime,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	affected := []string{projectID}
	if req.IsTimer {
		affected = append(affected, s.projectsOf(ts, ts.StopRunningTimers(now, ""))...)
		start := now
		entry.StartTime = &start
		entry.IsRunning = true
	}
	ts.Entries = append(ts.Entries, entry)

	if err := s.persist(ctx, ts, now); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Timesheet entry added",
		slog.String("timesheet_id", ts.TimesheetID),
		slog.String("entry_key", entry.EntryKey),
		slog.Bool("timer", req.IsTimer))
	s.refreshProjects(ctx, affected...)
	return ts, nil
}

// UpdateEntry either runs a timer action or applies a field patch. The billable flag
// is only changed when given explicitly.
func (s *timesheetEntryService) UpdateEntry(ctx context.Context, timesheetID string, req dto.UpdateEntryRequest, actor domain.Identity) (*domain.Timesheet, error) {
	ts, err := s.loadAuthorized(ctx, timesheetID, policy.ActionEditEntries, actor)
	if err != nil {
		return nil, err
	}
	idx, ok := ts.FindEntry(req.EntryKey)
	if !ok {
		return nil, apperrors.NewNotFoundError(msgEntryNotFound)
	}

	now := s.Now()
	affected := []string{ts.Entries[idx].ProjectID}

	if req.Action != nil && *req.Action != "" {
		switch *req.Action {
		case dto.EntryActionStartTimer:
			affected = append(affected, s.projectsOf(ts, ts.RunningEntryKeys())...)
			err = ts.StartTimer(req.EntryKey, now)
		case dto.EntryActionStopTimer:
			err = ts.StopTimer(req.EntryKey, now)
		default:
			return nil, apperrors.NewValidationFailedError("Invalid entry action")
		}
		if err != nil {
			return nil, apperrors.NewNotFoundError(msgEntryNotFound)
		}
	} else {
		if err := s.patchEntry(ts, &ts.Entries[idx], req, now); err != nil {
			return nil, err
		}
		affected = append(affected, ts.Entries[idx].ProjectID)
	}

	if err := s.persist(ctx, ts, now); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Timesheet entry updated",
		slog.String("timesheet_id", ts.TimesheetID),
		slog.String("entry_key", req.EntryKey))
	s.refreshProjects(ctx, affected...)
	return ts, nil
}

func (s *timesheetEntryService) patchEntry(ts *domain.Timesheet, e *domain.TimesheetEntry, req dto.UpdateEntryRequest, now time.Time) error {
	if req.ProjectID != nil {
		projectID := strings.TrimSpace(*req.ProjectID)
		if projectID == "" {
			return apperrors.NewValidationFailedError("projectId must not be empty")
		}
		e.ProjectID = projectID
	}
	if req.TaskID != nil {
		e.TaskID = normalizeTaskID(req.TaskID)
	}
	if req.Date != nil {
		date, err := s.entryDate(ts, *req.Date)
		if err != nil {
			return err
		}
		e.Date = date
	}
	if req.Hours != nil {
		hours, err := timeaccounting.NormalizeHours(*req.Hours)
		if err != nil {
			return apperrors.NewAppError(http.StatusBadRequest, "Hours must not be negative", err)
		}
		e.Hours = hours
	}
	if req.Notes != nil {
		e.Notes = *req.Notes
	}
	if req.IsBillable != nil {
		e.IsBillable = *req.IsBillable
	}
	e.UpdatedAt = now
	return nil
}

// DeleteEntry removes the entry with entryKey.
func (s *timesheetEntryService) DeleteEntry(ctx context.Context, timesheetID string, entryKey string, actor domain.Identity) (*domain.Timesheet, error) {
	ts, err := s.loadAuthorized(ctx, timesheetID, policy.ActionEditEntries, actor)
	if err != nil {
		return nil, err
	}
	idx, ok := ts.FindEntry(entryKey)
	if !ok {
		return nil, apperrors.NewNotFoundError(msgEntryNotFound)
	}
	projectID := ts.Entries[idx].ProjectID
	ts.Entries = append(ts.Entries[:idx], ts.Entries[idx+1:]...)

	if err := s.persist(ctx, ts, s.Now()); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Timesheet entry deleted",
		slog.String("timesheet_id", ts.TimesheetID),
		slog.String("entry_key", entryKey))
	s.refreshProjects(ctx, projectID)
	return ts, nil
}

// entryDate parses raw and checks it lies within the timesheet week.
func (s *timesheetEntryService) entryDate(ts *domain.Timesheet, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, apperrors.NewValidationFailedError("date is required")
	}
	date, err := dto.ParseDate(raw)
	if err != nil {
		return time.Time{}, apperrors.NewAppError(http.StatusBadRequest, "Invalid date", err)
	}
	if !ts.ContainsDate(date) {
		return time.Time{}, apperrors.NewValidationFailedError(msgDateOutsideWeek)
	}
	return date, nil
}

// resolveBillable reads the billable flag of the task. Without a task, or when the
// lookup fails, entries are billable.
func (s *timesheetEntryService) resolveBillable(ctx context.Context, taskID *string) bool {
	if taskID == nil || s.tasks == nil {
		return true
	}
	task, err := s.tasks.FindTaskByID(ctx, *taskID)
	if err != nil {
		s.LogWarn(ctx, "Task lookup failed, defaulting entry to billable",
			slog.String("task_id", *taskID),
			slog.String("error", err.Error()))
		return true
	}
	return task.IsBillable
}

func (s *timesheetEntryService) projectsOf(ts *domain.Timesheet, entryKeys []string) []string {
	ids := make([]string, 0, len(entryKeys))
	for _, key := range entryKeys {
		if idx, ok := ts.FindEntry(key); ok {
			ids = append(ids, ts.Entries[idx].ProjectID)
		}
	}
	return ids
}

func normalizeTaskID(taskID *string) *string {
	if taskID == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*taskID)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
