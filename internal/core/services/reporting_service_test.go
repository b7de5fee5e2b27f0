package services_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/timesheet_app/internal/core/ports/repositories"
	"github.com/SscSPs/timesheet_app/internal/core/services"
	"github.com/SscSPs/timesheet_app/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func reportEntry(user, client, project, task string, h string, billable bool) domain.ReportEntry {
	return domain.ReportEntry{
		UserID: user, UserName: "name-" + user,
		ClientID: client, ClientName: "client " + client,
		ProjectID: project, ProjectName: "project " + project,
		TaskID: task, TaskName: "task " + task,
		Hours:      hours(h),
		IsBillable: billable,
		Date:       testWeekStart,
	}
}

func TestBuildTimeReport(t *testing.T) {
	start := testWeekStart
	end := testWeekStart.AddDate(0, 0, 6)
	entries := []domain.ReportEntry{
		reportEntry("u1", "c1", "p1", "t1", "2", true),
		reportEntry("u1", "c1", "p2", "", "1.5", false),
		reportEntry("u2", "c2", "p3", "t3", "4.25", true),
		reportEntry("u2", "c1", "p1", "t1", "0.25", true),
	}

	report := services.BuildTimeReport(start, end, entries)

	assert.Equal(t, "8.00", report.TotalHours.StringFixed(2))
	assert.Equal(t, "6.50", report.BillableHours.StringFixed(2))
	assert.Equal(t, "1.50", report.NonBillableHours.StringFixed(2))

	require.Len(t, report.ByClient, 2)
	assert.Equal(t, "c2", report.ByClient[0].Key)
	assert.Equal(t, "4.25", report.ByClient[0].TotalHours.StringFixed(2))
	assert.Equal(t, "c1", report.ByClient[1].Key)
	assert.Equal(t, "3.75", report.ByClient[1].TotalHours.StringFixed(2))
	assert.Equal(t, "2.25", report.ByClient[1].BillableHours.StringFixed(2))
	assert.Equal(t, "1.50", report.ByClient[1].NonBillableHours.StringFixed(2))
	assert.Equal(t, 3, report.ByClient[1].EntryCount)

	require.Len(t, report.ByTask, 3)
	var noTask *domain.ReportBucket
	for i := range report.ByTask {
		if report.ByTask[i].Key == "" {
			noTask = &report.ByTask[i]
		}
	}
	require.NotNil(t, noTask)
	assert.Equal(t, "(no task)", noTask.Label)

	require.Len(t, report.ByUser, 2)
	assert.Equal(t, "u2", report.ByUser[0].Key)
	assert.Equal(t, "name-u2", report.ByUser[0].Label)
	assert.Len(t, report.ByProject, 3)
}

func TestBuildTimeReport_Empty(t *testing.T) {
	report := services.BuildTimeReport(testWeekStart, testWeekStart, nil)

	assert.True(t, report.TotalHours.IsZero())
	assert.NotNil(t, report.ByClient)
	assert.Empty(t, report.ByClient)
}

func TestTimeReport_UserLimitedToSelf(t *testing.T) {
	repo := new(MockReportingRepository)
	repo.On("ListReportEntries", mock.Anything, mock.MatchedBy(func(f portsrepo.ReportFilter) bool {
		return f.UserID == ownerID &&
			f.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) &&
			f.Status != nil && *f.Status == domain.StatusApproved
	})).Return([]domain.ReportEntry{reportEntry(ownerID, "c1", "p1", "t1", "3", true)}, nil).Once()
	svc := services.NewReportingService(repo)

	report, err := svc.TimeReport(context.Background(), dto.TimeReportParams{
		StartDate: "2024-01-01", EndDate: "2024-01-31", Status: "approved",
	}, asOwner)

	require.NoError(t, err)
	assert.Equal(t, "3.00", report.TotalHours.StringFixed(2))
	repo.AssertExpectations(t)
}

func TestTimeReport_UserCannotReportOnOthers(t *testing.T) {
	svc := services.NewReportingService(new(MockReportingRepository))

	_, err := svc.TimeReport(context.Background(), dto.TimeReportParams{
		StartDate: "2024-01-01", EndDate: "2024-01-31", UserID: otherID,
	}, asOwner)

	requireAppError(t, err, http.StatusForbidden, "Forbidden")
}

func TestTimeReport_ManagerSeesEveryone(t *testing.T) {
	repo := new(MockReportingRepository)
	repo.On("ListReportEntries", mock.Anything, mock.MatchedBy(func(f portsrepo.ReportFilter) bool {
		return f.UserID == "" && f.Status == nil
	})).Return(nil, nil).Once()
	svc := services.NewReportingService(repo)

	_, err := svc.TimeReport(context.Background(), dto.TimeReportParams{StartDate: "2024-01-01", EndDate: "2024-01-31"}, asManager)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTimeReport_InvalidRange(t *testing.T) {
	svc := services.NewReportingService(new(MockReportingRepository))

	_, err := svc.TimeReport(context.Background(), dto.TimeReportParams{StartDate: "2024-02-01", EndDate: "2024-01-01"}, asAdmin)
	requireAppError(t, err, http.StatusBadRequest, "endDate must not be before startDate")

	_, err = svc.TimeReport(context.Background(), dto.TimeReportParams{StartDate: "yesterday", EndDate: "2024-01-01"}, asAdmin)
	requireAppError(t, err, http.StatusBadRequest, "Invalid startDate")
}
