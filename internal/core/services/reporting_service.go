package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/timesheet_app/internal/apperrors"
	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/SscSPs/timesheet_app/internal/core/policy"
	portsrepo "github.com/SscSPs/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/timesheet_app/internal/core/ports/services"
	"github.com/SscSPs/timesheet_app/internal/dto"
	"github.com/shopspring/decimal"
)

const noTaskLabel = "(no task)"

// reportingService implements the ReportingSvc interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ServiceOption) portssvc.ReportingSvc {
	return &reportingService{
		BaseService:   newBaseService(options...),
		reportingRepo: repo,
	}
}

// Ensure reportingService implements the ReportingSvc interface
var _ portssvc.ReportingSvc = (*reportingService)(nil)

// TimeReport generates the hour breakdown for a date range
func (s *reportingService) TimeReport(ctx context.Context, params dto.TimeReportParams, actor domain.Identity) (*domain.TimeReport, error) {
	filter, err := s.reportFilter(params, actor)
	if err != nil {
		return nil, err
	}

	entries, err := s.reportingRepo.ListReportEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve report entries",
			slog.String("start_date", filter.StartDate.Format(time.DateOnly)),
			slog.String("end_date", filter.EndDate.Format(time.DateOnly)))
		return nil, fmt.Errorf("failed to retrieve report entries: %w", err)
	}

	report := BuildTimeReport(filter.StartDate, filter.EndDate, entries)
	s.LogInfo(ctx, "Time report generated successfully",
		slog.String("start_date", filter.StartDate.Format(time.DateOnly)),
		slog.String("end_date", filter.EndDate.Format(time.DateOnly)),
		slog.Int("entry_count", len(entries)))
	return report, nil
}

func (s *reportingService) reportFilter(params dto.TimeReportParams, actor domain.Identity) (portsrepo.ReportFilter, error) {
	start, err := dto.ParseDate(params.StartDate)
	if err != nil {
		return portsrepo.ReportFilter{}, apperrors.NewValidationFailedError("Invalid startDate")
	}
	end, err := dto.ParseDate(params.EndDate)
	if err != nil {
		return portsrepo.ReportFilter{}, apperrors.NewValidationFailedError("Invalid endDate")
	}
	if end.Before(start) {
		return portsrepo.ReportFilter{}, apperrors.NewValidationFailedError("endDate must not be before startDate")
	}

	userID := params.UserID
	if !actor.CanReviewOthers() {
		if userID == "" {
			userID = actor.UserID
		}
		if !policy.CanListFor(userID, actor) {
			return portsrepo.ReportFilter{}, apperrors.NewForbiddenError(policy.MsgForbidden)
		}
	}

	filter := portsrepo.ReportFilter{StartDate: start, EndDate: end, UserID: userID}
	if params.Status != "" {
		status := domain.TimesheetStatus(params.Status)
		filter.Status = &status
	}
	return filter, nil
}

type bucketKey struct {
	key   string
	label string
}

// BuildTimeReport sums entries into per client, project, task and user buckets.
// Buckets are ordered by total hours, largest first, then by key.
func BuildTimeReport(start, end time.Time, entries []domain.ReportEntry) *domain.TimeReport {
	report := &domain.TimeReport{
		StartDate:        start,
		EndDate:          end,
		TotalHours:       decimal.Zero,
		BillableHours:    decimal.Zero,
		NonBillableHours: decimal.Zero,
	}

	byClient := map[string]*domain.ReportBucket{}
	byProject := map[string]*domain.ReportBucket{}
	byTask := map[string]*domain.ReportBucket{}
	byUser := map[string]*domain.ReportBucket{}

	for _, e := range entries {
		report.TotalHours = report.TotalHours.Add(e.Hours)
		if e.IsBillable {
			report.BillableHours = report.BillableHours.Add(e.Hours)
		}

		taskLabel := e.TaskName
		if e.TaskID == "" {
			taskLabel = noTaskLabel
		}
		addToBucket(byClient, bucketKey{e.ClientID, e.ClientName}, e)
		addToBucket(byProject, bucketKey{e.ProjectID, e.ProjectName}, e)
		addToBucket(byTask, bucketKey{e.TaskID, taskLabel}, e)
		addToBucket(byUser, bucketKey{e.UserID, e.UserName}, e)
	}

	report.TotalHours = report.TotalHours.Round(2)
	report.BillableHours = report.BillableHours.Round(2)
	report.NonBillableHours = report.TotalHours.Sub(report.BillableHours)
	report.ByClient = sortedBuckets(byClient)
	report.ByProject = sortedBuckets(byProject)
	report.ByTask = sortedBuckets(byTask)
	report.ByUser = sortedBuckets(byUser)
	return report
}

func addToBucket(buckets map[string]*domain.ReportBucket, k bucketKey, e domain.ReportEntry) {
	b, ok := buckets[k.key]
	if !ok {
		b = &domain.ReportBucket{
			Key:              k.key,
			Label:            k.label,
			TotalHours:       decimal.Zero,
			BillableHours:    decimal.Zero,
			NonBillableHours: decimal.Zero,
		}
		buckets[k.key] = b
	}
	b.TotalHours = b.TotalHours.Add(e.Hours)
	if e.IsBillable {
		b.BillableHours = b.BillableHours.Add(e.Hours)
	} else {
		b.NonBillableHours = b.NonBillableHours.Add(e.Hours)
	}
	b.EntryCount++
}

func sortedBuckets(buckets map[string]*domain.ReportBucket) []domain.ReportBucket {
	out := make([]domain.ReportBucket, 0, len(buckets))
	for _, b := range buckets {
		b.TotalHours = b.TotalHours.Round(2)
		b.BillableHours = b.BillableHours.Round(2)
		b.NonBillableHours = b.NonBillableHours.Round(2)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalHours.Cmp(out[j].TotalHours); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out
}
