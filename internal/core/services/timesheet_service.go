package services

import (
	"context"
	"errors"
	"fmt"
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
)

// timesheetStore holds the load and persist steps shared by the timesheet services.
type timesheetStore struct {
	BaseService
	repo       portsrepo.TimesheetRepositoryFacade
	dispatcher portssvc.AggregationDispatcher
}

func (s *timesheetStore) load(ctx context.Context, timesheetID string) (*domain.Timesheet, error) {
	ts, err := s.repo.FindTimesheetByID(ctx, timesheetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Timesheet not found")
		}
		s.LogError(ctx, err, "Failed to load timesheet", slog.String("timesheet_id", timesheetID))
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to load timesheet", err)
	}
	return ts, nil
}

// loadAuthorized loads the timesheet and checks the action against the policy.
func (s *timesheetStore) loadAuthorized(ctx context.Context, timesheetID string, action policy.Action, actor domain.Identity) (*domain.Timesheet, error) {
	ts, err := s.load(ctx, timesheetID)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(action, ts, actor); err != nil {
		s.LogDebug(ctx, "Timesheet action denied",
			slog.String("timesheet_id", timesheetID),
			slog.String("action", string(action)),
			slog.String("reason", err.Error()))
		return nil, err
	}
	return ts, nil
}

// persist checks the entry invariants, rebuilds totals from entries and saves the row.
// Totals are never trusted from storage.
func (s *timesheetStore) persist(ctx context.Context, ts *domain.Timesheet, now time.Time) error {
	if err := ts.CheckInvariants(); err != nil {
		s.LogError(ctx, err, "Timesheet invariant violated", slog.String("timesheet_id", ts.TimesheetID))
		return apperrors.NewAppError(http.StatusInternalServerError, "timesheet invariant violated", err)
	}
	ts.Totals = timeaccounting.ComputeTotals(ts.Entries)
	ts.UpdatedAt = now
	if err := s.repo.SaveTimesheet(ctx, *ts); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("Timesheet not found")
		}
		s.LogError(ctx, err, "Failed to save timesheet", slog.String("timesheet_id", ts.TimesheetID))
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to save timesheet", err)
	}
	return nil
}

// refreshProjects hands the distinct project ids to the background recompute.
// It never fails the caller.
func (s *timesheetStore) refreshProjects(ctx context.Context, projectIDs ...string) {
	ids := dedupeIDs(projectIDs)
	if s.dispatcher == nil || len(ids) == 0 {
		return
	}
	s.dispatcher.Enqueue(ctx, ids...)
}

// timesheetService implements the TimesheetSvcFacade interface
type timesheetService struct {
	timesheetStore
}

// NewTimesheetService creates the timesheet lifecycle service.
func NewTimesheetService(
	repo portsrepo.TimesheetRepositoryFacade,
	dispatcher portssvc.AggregationDispatcher,
	options ...ServiceOption,
) portssvc.TimesheetSvcFacade {
	return &timesheetService{timesheetStore{
		BaseService: newBaseService(options...),
		repo:        repo,
		dispatcher:  dispatcher,
	}}
}

var _ portssvc.TimesheetSvcFacade = (*timesheetService)(nil)

// GetOrCreateTimesheet returns the timesheet for the requested user and week. Its id is
// derived from both, so concurrent calls resolve to the same row.
func (s *timesheetService) GetOrCreateTimesheet(ctx context.Context, req dto.GetOrCreateTimesheetRequest, actor domain.Identity) (*domain.Timesheet, error) {
	userID := req.UserID
	if userID == "" {
		userID = actor.UserID
	}
	if !policy.CanListFor(userID, actor) {
		return nil, apperrors.NewForbiddenError(policy.MsgForbidden)
	}

	now := s.Now()
	anchor := now
	if req.WeekStart != "" {
		parsed, err := timeaccounting.ParseWeekStart(req.WeekStart)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusBadRequest, "Invalid weekStart", err)
		}
		anchor = parsed
	}
	week := timeaccounting.WeekBucket(anchor)

	fresh := domain.Timesheet{
		TimesheetID: timeaccounting.TimesheetID(userID, week.Start),
		UserID:      userID,
		WeekStart:   week.Start,
		WeekEnd:     week.End,
		Year:        week.Year,
		WeekNumber:  week.Number,
		Status:      domain.StatusUnsubmitted,
		Entries:     []domain.TimesheetEntry{},
		Totals:      timeaccounting.ComputeTotals(nil),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ts, created, err := s.repo.GetOrCreateTimesheet(ctx, fresh)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("User not found")
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to get or create timesheet", slog.String("timesheet_id", fresh.TimesheetID))
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to get or create timesheet", err)
	}
	if created {
		s.LogInfo(ctx, "Timesheet created",
			slog.String("timesheet_id", ts.TimesheetID),
			slog.String("user_id", userID))
		s.Track(actor.UserID, "timesheet_created", map[string]any{"timesheet_id": ts.TimesheetID})
	}
	return ts, nil
}

func (s *timesheetService) GetTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error) {
	return s.loadAuthorized(ctx, timesheetID, policy.ActionView, actor)
}

// ListTimesheets applies the role filter: users only see their own timesheets,
// reviewers see everyone's unless userId narrows it.
func (s *timesheetService) ListTimesheets(ctx context.Context, params dto.ListTimesheetsParams, actor domain.Identity) ([]domain.Timesheet, *string, error) {
	filter, err := s.buildFilter(params, actor)
	if err != nil {
		return nil, nil, err
	}

	sheets, next, err := s.repo.ListTimesheets(ctx, filter)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, nil, err
		}
		s.LogError(ctx, err, "Failed to list timesheets", slog.String("user_id", filter.UserID))
		return nil, nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to list timesheets", err)
	}
	if sheets == nil {
		sheets = []domain.Timesheet{}
	}
	s.LogDebug(ctx, "Timesheets listed", slog.Int("count", len(sheets)))
	return sheets, next, nil
}

func (s *timesheetService) buildFilter(params dto.ListTimesheetsParams, actor domain.Identity) (portsrepo.TimesheetFilter, error) {
	filter := portsrepo.TimesheetFilter{
		UserID:    params.UserID,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if filter.UserID == "" && !actor.CanReviewOthers() {
		filter.UserID = actor.UserID
	}
	if filter.UserID != "" && !policy.CanListFor(filter.UserID, actor) {
		return filter, apperrors.NewForbiddenError(policy.MsgForbidden)
	}

	if params.Status != "" {
		status := domain.TimesheetStatus(params.Status)
		if !status.Valid() {
			return filter, apperrors.NewValidationFailedError("Invalid status")
		}
		filter.Status = &status
	}

	parseWeek := func(raw, field string) (*time.Time, error) {
		if raw == "" {
			return nil, nil
		}
		w, err := timeaccounting.ParseWeekStart(raw)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusBadRequest, "Invalid "+field, err)
		}
		return &w, nil
	}
	parseDay := func(raw, field string) (*time.Time, error) {
		if raw == "" {
			return nil, nil
		}
		d, err := dto.ParseDate(raw)
		if err != nil {
			return nil, apperrors.NewAppError(http.StatusBadRequest, "Invalid "+field, err)
		}
		return &d, nil
	}

	var err error
	if filter.WeekStart, err = parseWeek(params.WeekStart, "weekStart"); err != nil {
		return filter, err
	}
	if filter.BeforeWeek, err = parseWeek(params.BeforeWeek, "beforeWeek"); err != nil {
		return filter, err
	}
	if filter.StartDate, err = parseDay(params.StartDate, "startDate"); err != nil {
		return filter, err
	}
	if filter.EndDate, err = parseDay(params.EndDate, "endDate"); err != nil {
		return filter, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return filter, apperrors.NewValidationFailedError("endDate must not be before startDate")
	}

	// forCopy asks for the most recent earlier week that has entries to copy from
	if params.ForCopy {
		switch {
		case filter.BeforeWeek != nil:
		case filter.WeekStart != nil:
			filter.BeforeWeek = filter.WeekStart
		default:
			w := timeaccounting.WeekBucket(s.Now()).Start
			filter.BeforeWeek = &w
		}
		filter.WeekStart = nil
		filter.WithEntriesOnly = true
		filter.Limit = 1
		filter.NextToken = nil
	}
	return filter, nil
}

// ApplyAction dispatches the PATCH action body.
func (s *timesheetService) ApplyAction(ctx context.Context, timesheetID string, req dto.TimesheetActionRequest, actor domain.Identity) (*domain.Timesheet, error) {
	switch policy.Action(req.Action) {
	case policy.ActionSubmit:
		return s.SubmitTimesheet(ctx, timesheetID, actor)
	case policy.ActionApprove:
		return s.ApproveTimesheet(ctx, timesheetID, actor)
	case policy.ActionReject:
		return s.RejectTimesheet(ctx, timesheetID, req.Reason, actor)
	case policy.ActionUnapprove:
		return s.UnapproveTimesheet(ctx, timesheetID, actor)
	case policy.ActionRecalculate:
		return s.RecalculateTimesheet(ctx, timesheetID, actor)
	}
	return nil, apperrors.NewValidationFailedError(policy.MsgUnknownAction)
}

func (s *timesheetService) SubmitTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error) {
	ts, err := s.loadAuthorized(ctx, timesheetID, policy.ActionSubmit, actor)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	ts.Status = domain.StatusSubmitted
	ts.SubmittedAt = &now
	if err := s.persist(ctx, ts, now); err != nil {
		return nil, err
	}
	s.transitioned(ctx, ts, actor, policy.ActionSubmit)
	return ts, nil
}

// ApproveTimesheet approves and locks the timesheet. Its projects now count the hours as approved.
func (s *timesheetService) ApproveTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error) {
	ts, err := s.loadAuthorized(ctx, timesheetID, policy.ActionApprove, actor)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	approver := actor.UserID
	ts.Status = domain.StatusApproved
	ts.ApprovedBy = &approver
	ts.ApprovedAt = &now
	ts.IsLocked = true
	if err := s.persist(ctx, ts, now); err != nil {
		return nil, err
	}
	s.transitioned(ctx, ts, actor, policy.ActionApprove)
	s.refreshProjects(ctx, ts.ProjectIDs()...)
	return ts, nil
}

// RejectTimesheet sends the timesheet back to its owner. Reject never locks.
func (s *timesheetService) RejectTimesheet(ctx context.Context, timesheetID string, reason *string, actor domain.Identity) (*domain.Timesheet, error) {
	ts, err := s.loadAuthorized(ctx, timesheetID, policy.ActionReject, actor)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	ts.Status = domain.StatusRejected
	ts.RejectedAt = &now
	ts.RejectionReason = nil
	if reason != nil {
		if r := strings.TrimSpace(*reason); r != "" {
			ts.RejectionReason = &r
		}
	}
	if err := s.persist(ctx, ts, now); err != nil {
		return nil, err
	}
	s.transitioned(ctx, ts, actor, policy.ActionReject)
	return ts, nil
}

// UnapproveTimesheet reverts an approval, unlocking the timesheet.
func (s *timesheetService) UnapproveTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error) {
	ts, err := s.loadAuthorized(ctx, timesheetID, policy.ActionUnapprove, actor)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	ts.Status = domain.StatusSubmitted
	ts.IsLocked = false
	ts.ApprovedBy = nil
	ts.ApprovedAt = nil
	if err := s.persist(ctx, ts, now); err != nil {
		return nil, err
	}
	s.transitioned(ctx, ts, actor, policy.ActionUnapprove)
	s.refreshProjects(ctx, ts.ProjectIDs()...)
	return ts, nil
}

func (s *timesheetService) RecalculateTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error) {
	ts, err := s.loadAuthorized(ctx, timesheetID, policy.ActionRecalculate, actor)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, ts, s.Now()); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Timesheet totals recalculated",
		slog.String("timesheet_id", ts.TimesheetID),
		slog.String("total_hours", ts.TotalHours.String()))
	s.refreshProjects(ctx, ts.ProjectIDs()...)
	return ts, nil
}

// DeleteTimesheet removes an unapproved timesheet. The hours disappear from project rollups.
func (s *timesheetService) DeleteTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) error {
	ts, err := s.loadAuthorized(ctx, timesheetID, policy.ActionDelete, actor)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTimesheet(ctx, timesheetID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("Timesheet not found")
		}
		s.LogError(ctx, err, "Failed to delete timesheet", slog.String("timesheet_id", timesheetID))
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete timesheet", err)
	}
	s.LogInfo(ctx, "Timesheet deleted", slog.String("timesheet_id", timesheetID))
	s.Track(actor.UserID, "timesheet_deleted", map[string]any{"timesheet_id": timesheetID})
	s.refreshProjects(ctx, ts.ProjectIDs()...)
	return nil
}

func (s *timesheetService) transitioned(ctx context.Context, ts *domain.Timesheet, actor domain.Identity, action policy.Action) {
	s.LogInfo(ctx, "Timesheet status changed",
		slog.String("timesheet_id", ts.TimesheetID),
		slog.String("action", string(action)),
		slog.String("status", string(ts.Status)))
	s.Track(actor.UserID, fmt.Sprintf("timesheet_%s", action), map[string]any{
		"timesheet_id": ts.TimesheetID,
		"owner_id":     ts.UserID,
		"total_hours":  ts.TotalHours.String(),
	})
}
