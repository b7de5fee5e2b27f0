package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/SscSPs/timesheet_app/internal/core/policy"
	portssvc "github.com/SscSPs/timesheet_app/internal/core/ports/services"
	"github.com/SscSPs/timesheet_app/internal/core/services"
	"github.com/SscSPs/timesheet_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TimesheetEntryServiceTestSuite struct {
	suite.Suite
	repo       *MockTimesheetRepository
	projects   *MockProjectRepository
	dispatcher *MockDispatcher
	service    portssvc.TimesheetEntrySvc
}

func (suite *TimesheetEntryServiceTestSuite) SetupTest() {
	suite.repo = new(MockTimesheetRepository)
	suite.projects = new(MockProjectRepository)
	suite.dispatcher = new(MockDispatcher)
	suite.service = services.NewTimesheetEntryService(suite.repo, suite.projects, suite.dispatcher,
		services.WithClock(fixedClock))
}

func TestTimesheetEntryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TimesheetEntryServiceTestSuite))
}

func (suite *TimesheetEntryServiceTestSuite) expectLoad(ts *domain.Timesheet) {
	suite.repo.On("FindTimesheetByID", mock.Anything, ts.TimesheetID).Return(ts, nil).Once()
}

func (suite *TimesheetEntryServiceTestSuite) captureSave() *domain.Timesheet {
	saved := &domain.Timesheet{}
	suite.repo.On("SaveTimesheet", mock.Anything, mock.AnythingOfType("domain.Timesheet")).
		Run(func(args mock.Arguments) { *saved = args.Get(1).(domain.Timesheet) }).
		Return(nil).Once()
	return saved
}

func (suite *TimesheetEntryServiceTestSuite) TestAddEntry_ManualHours() {
	ts := newTestTimesheet(domain.StatusUnsubmitted)
	suite.expectLoad(ts)
	saved := suite.captureSave()
	suite.dispatcher.On("Enqueue", mock.Anything, []string{"p1"}).Once()
	h := hours("2.345")

	got, err := suite.service.AddEntry(context.Background(), ts.TimesheetID, dto.AddEntryRequest{
		ProjectID: "p1",
		Date:      "2024-01-16",
		Hours:     &h,
		Notes:     "planning",
	}, asOwner)

	suite.Require().NoError(err)
	suite.Require().Len(got.Entries, 1)
	e := got.Entries[0]
	suite.NotEmpty(e.EntryKey)
	suite.Equal("2.35", e.Hours.StringFixed(2))
	suite.True(e.IsBillable)
	suite.False(e.IsRunning)
	suite.Equal(time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC), e.Date)
	suite.Equal("2.35", saved.TotalHours.StringFixed(2))
	suite.Equal(testNow, saved.UpdatedAt)
	suite.dispatcher.AssertExpectations(suite.T())
}

func (suite *TimesheetEntryServiceTestSuite) TestAddEntry_DateOutsideWeek() {
	ts := newTestTimesheet(domain.StatusUnsubmitted)
	suite.expectLoad(ts)

	_, err := suite.service.AddEntry(context.Background(), ts.TimesheetID, dto.AddEntryRequest{
		ProjectID: "p1",
		Date:      "2024-01-22",
	}, asOwner)

	requireAppError(suite.T(), err, http.StatusBadRequest, "Date outside week range")
	suite.repo.AssertNotCalled(suite.T(), "SaveTimesheet", mock.Anything, mock.Anything)
}

func (suite *TimesheetEntryServiceTestSuite) TestAddEntry_NegativeHours() {
	ts := newTestTimesheet(domain.StatusUnsubmitted)
	suite.expectLoad(ts)
	h := hours("-1")

	_, err := suite.service.AddEntry(context.Background(), ts.TimesheetID, dto.AddEntryRequest{
		ProjectID: "p1", Date: "2024-01-16", Hours: &h,
	}, asOwner)

	requireAppError(suite.T(), err, http.StatusBadRequest, "Hours must not be negative")
}

func (suite *TimesheetEntryServiceTestSuite) TestAddEntry_BillableFromTask() {
	ts := newTestTimesheet(domain.StatusUnsubmitted)
	suite.expectLoad(ts)
	suite.captureSave()
	suite.projects.On("FindTaskByID", mock.Anything, "t-internal").
		Return(&domain.Task{TaskID: "t-internal", ProjectID: "p1", IsBillable: false}, nil).Once()
	suite.dispatcher.On("Enqueue", mock.Anything, []string{"p1"}).Once()
	taskID := "t-internal"

	got, err := suite.service.AddEntry(context.Background(), ts.TimesheetID, dto.AddEntryRequest{
		ProjectID: "p1", TaskID: &taskID, Date: "2024-01-16",
	}, asOwner)

	suite.Require().NoError(err)
	suite.False(got.Entries[0].IsBillable)
	suite.True(got.NonBillableHours.IsZero())
}

func (suite *TimesheetEntryServiceTestSuite) TestAddEntry_TaskLookupFailureDefaultsBillable() {
	ts := newTestTimesheet(domain.StatusUnsubmitted)
	suite.expectLoad(ts)
	suite.captureSave()
	suite.projects.On("FindTaskByID", mock.Anything, "t-1").Return(nil, errors.New("timeout")).Once()
	suite.dispatcher.On("Enqueue", mock.Anything, []string{"p1"}).Once()
	taskID := "t-1"

	got, err := suite.service.AddEntry(context.Background(), ts.TimesheetID, dto.AddEntryRequest{
		ProjectID: "p1", TaskID: &taskID, Date: "2024-01-16",
	}, asOwner)

	suite.Require().NoError(err)
	suite.True(got.Entries[0].IsBillable)
}

func (suite *TimesheetEntryServiceTestSuite) TestAddEntry_TimerStopsRunningEntry() {
	start := testNow.Add(-90 * time.Minute)
	running := newTestEntry("a", "p1", "0.5")
	running.IsRunning = true
	running.StartTime = &start
	ts := newTestTimesheet(domain.StatusUnsubmitted, running)
	suite.expectLoad(ts)
	saved := suite.captureSave()
	suite.dispatcher.On("Enqueue", mock.Anything, []string{"p1", "p2"}).Once()
	h := hours("4")

	got, err := suite.service.AddEntry(context.Background(), ts.TimesheetID, dto.AddEntryRequest{
		ProjectID: "p2", Date: "2024-01-17", Hours: &h, StartTime: &start, IsTimer: true,
	}, asOwner)

	suite.Require().NoError(err)
	suite.Require().Len(got.Entries, 2)
	stopped, created := got.Entries[0], got.Entries[1]
	suite.False(stopped.IsRunning)
	suite.Equal("2.00", stopped.Hours.StringFixed(2))
	suite.Require().NotNil(stopped.EndTime)
	suite.Equal(testNow, *stopped.EndTime)

	suite.True(created.IsRunning)
	suite.True(created.Hours.IsZero(), "timer entries start at zero hours")
	suite.Require().NotNil(created.StartTime)
	suite.Equal(testNow, *created.StartTime)
	suite.Nil(created.EndTime)

	suite.True(saved.HasRunningTimer)
	suite.Equal("2.00", saved.TotalHours.StringFixed(2))
	suite.dispatcher.AssertExpectations(suite.T())
}

func (suite *TimesheetEntryServiceTestSuite) TestAddEntry_LockedForOwner() {
	ts := newTestTimesheet(domain.StatusApproved)
	suite.expectLoad(ts)

	_, err := suite.service.AddEntry(context.Background(), ts.TimesheetID, dto.AddEntryRequest{
		ProjectID: "p1", Date: "2024-01-16",
	}, asOwner)

	requireAppError(suite.T(), err, http.StatusForbidden, policy.MsgTimesheetLocked)
}

func (suite *TimesheetEntryServiceTestSuite) TestAddEntry_LockedAllowsAdmin() {
	ts := newTestTimesheet(domain.StatusApproved)
	suite.expectLoad(ts)
	suite.captureSave()
	suite.dispatcher.On("Enqueue", mock.Anything, []string{"p1"}).Once()

	_, err := suite.service.AddEntry(context.Background(), ts.TimesheetID, dto.AddEntryRequest{
		ProjectID: "p1", Date: "2024-01-16",
	}, asAdmin)

	suite.Require().NoError(err)
}

func (suite *TimesheetEntryServiceTestSuite) TestAddEntry_OtherUserForbidden() {
	ts := newTestTimesheet(domain.StatusUnsubmitted)
	suite.expectLoad(ts)

	_, err := suite.service.AddEntry(context.Background(), ts.TimesheetID, dto.AddEntryRequest{
		ProjectID: "p1", Date: "2024-01-16",
	}, asOther)

	requireAppError(suite.T(), err, http.StatusForbidden, policy.MsgForbidden)
}

// A is running for two hours on top of 1.5 logged hours. Starting B must fold the
// elapsed time into A before B starts.
func (suite *TimesheetEntryServiceTestSuite) TestUpdateEntry_StartTimerSwitchesRunningEntry() {
	start := testNow.Add(-2 * time.Hour)
	a := newTestEntry("a", "p1", "1.5")
	a.IsRunning = true
	a.StartTime = &start
	b := newTestEntry("b", "p2", "0")
	ts := newTestTimesheet(domain.StatusUnsubmitted, a, b)
	suite.expectLoad(ts)
	saved := suite.captureSave()
	suite.dispatcher.On("Enqueue", mock.Anything, []string{"p1", "p2"}).Once()
	action := dto.EntryActionStartTimer

	got, err := suite.service.UpdateEntry(context.Background(), ts.TimesheetID, dto.UpdateEntryRequest{
		EntryKey: "b", Action: &action,
	}, asOwner)

	suite.Require().NoError(err)
	suite.Equal("3.50", got.Entries[0].Hours.StringFixed(2))
	suite.False(got.Entries[0].IsRunning)
	suite.Equal(testNow, *got.Entries[0].EndTime)
	suite.True(got.Entries[1].IsRunning)
	suite.Equal(testNow, *got.Entries[1].StartTime)
	suite.Nil(got.Entries[1].EndTime)
	suite.True(saved.HasRunningTimer)
	suite.Equal("3.50", saved.TotalHours.StringFixed(2))
	suite.dispatcher.AssertExpectations(suite.T())
}

func (suite *TimesheetEntryServiceTestSuite) TestUpdateEntry_StopTimerFoldsElapsed() {
	start := testNow.Add(-45 * time.Minute)
	a := newTestEntry("a", "p1", "1")
	a.IsRunning = true
	a.StartTime = &start
	ts := newTestTimesheet(domain.StatusUnsubmitted, a)
	suite.expectLoad(ts)
	saved := suite.captureSave()
	suite.dispatcher.On("Enqueue", mock.Anything, []string{"p1"}).Once()
	action := dto.EntryActionStopTimer

	_, err := suite.service.UpdateEntry(context.Background(), ts.TimesheetID, dto.UpdateEntryRequest{
		EntryKey: "a", Action: &action,
	}, asOwner)

	suite.Require().NoError(err)
	suite.Equal("1.75", saved.Entries[0].Hours.StringFixed(2))
	suite.False(saved.HasRunningTimer)
}

func (suite *TimesheetEntryServiceTestSuite) TestUpdateEntry_StopTimerWithoutStartTime() {
	a := newTestEntry("a", "p1", "1.2")
	a.IsRunning = true
	ts := newTestTimesheet(domain.StatusUnsubmitted, a)
	suite.expectLoad(ts)
	saved := suite.captureSave()
	suite.dispatcher.On("Enqueue", mock.Anything, []string{"p1"}).Once()
	action := dto.EntryActionStopTimer

	_, err := suite.service.UpdateEntry(context.Background(), ts.TimesheetID, dto.UpdateEntryRequest{
		EntryKey: "a", Action: &action,
	}, asOwner)

	suite.Require().NoError(err)
	suite.Equal("1.20", saved.Entries[0].Hours.StringFixed(2))
	suite.False(saved.Entries[0].IsRunning)
}

func (suite *TimesheetEntryServiceTestSuite) TestUpdateEntry_PatchMovesProject() {
	ts := newTestTimesheet(domain.StatusRejected, newTestEntry("a", "p9", "3"))
	suite.expectLoad(ts)
	saved := suite.captureSave()
	suite.dispatcher.On("Enqueue", mock.Anything, []string{"p1", "p9"}).Once()
	project := "p1"
	billable := false
	h := decimal.NewFromInt(5)

	_, err := suite.service.UpdateEntry(context.Background(), ts.TimesheetID, dto.UpdateEntryRequest{
		EntryKey: "a", ProjectID: &project, IsBillable: &billable, Hours: &h,
	}, asOwner)

	suite.Require().NoError(err)
	suite.Equal("p1", saved.Entries[0].ProjectID)
	suite.False(saved.Entries[0].IsBillable)
	suite.Equal("5.00", saved.TotalHours.StringFixed(2))
	suite.Equal("5.00", saved.NonBillableHours.StringFixed(2))
	suite.dispatcher.AssertExpectations(suite.T())
}

func (suite *TimesheetEntryServiceTestSuite) TestUpdateEntry_PatchKeepsBillableWhenOmitted() {
	ts := newTestTimesheet(domain.StatusUnsubmitted, newTestEntry("a", "p1", "3"))
	ts.Entries[0].IsBillable = false
	suite.expectLoad(ts)
	saved := suite.captureSave()
	suite.dispatcher.On("Enqueue", mock.Anything, []string{"p1"}).Once()
	notes := "updated"

	_, err := suite.service.UpdateEntry(context.Background(), ts.TimesheetID, dto.UpdateEntryRequest{
		EntryKey: "a", Notes: &notes,
	}, asOwner)

	suite.Require().NoError(err)
	suite.False(saved.Entries[0].IsBillable)
	suite.Equal("updated", saved.Entries[0].Notes)
	suite.Equal(testNow, saved.Entries[0].UpdatedAt)
}

func (suite *TimesheetEntryServiceTestSuite) TestUpdateEntry_DateOutsideWeek() {
	ts := newTestTimesheet(domain.StatusUnsubmitted, newTestEntry("a", "p1", "3"))
	suite.expectLoad(ts)
	date := "2024-01-22"

	_, err := suite.service.UpdateEntry(context.Background(), ts.TimesheetID, dto.UpdateEntryRequest{
		EntryKey: "a", Date: &date,
	}, asOwner)

	requireAppError(suite.T(), err, http.StatusBadRequest, "Date outside week range")
	suite.repo.AssertNotCalled(suite.T(), "SaveTimesheet", mock.Anything, mock.Anything)
	suite.dispatcher.AssertNotCalled(suite.T(), "Enqueue", mock.Anything, mock.Anything)
}

func (suite *TimesheetEntryServiceTestSuite) TestUpdateEntry_UnknownKey() {
	ts := newTestTimesheet(domain.StatusUnsubmitted, newTestEntry("a", "p1", "3"))
	suite.expectLoad(ts)

	_, err := suite.service.UpdateEntry(context.Background(), ts.TimesheetID, dto.UpdateEntryRequest{EntryKey: "zzz"}, asOwner)

	requireAppError(suite.T(), err, http.StatusNotFound, "Entry not found")
}

func (suite *TimesheetEntryServiceTestSuite) TestDeleteEntry() {
	ts := newTestTimesheet(domain.StatusUnsubmitted,
		newTestEntry("a", "p1", "3"),
		newTestEntry("b", "p2", "1"),
	)
	suite.expectLoad(ts)
	saved := suite.captureSave()
	suite.dispatcher.On("Enqueue", mock.Anything, []string{"p1"}).Once()

	_, err := suite.service.DeleteEntry(context.Background(), ts.TimesheetID, "a", asManager)

	suite.Require().NoError(err)
	suite.Require().Len(saved.Entries, 1)
	suite.Equal("b", saved.Entries[0].EntryKey)
	suite.Equal("1.00", saved.TotalHours.StringFixed(2))
}

func (suite *TimesheetEntryServiceTestSuite) TestDeleteEntry_UnknownKey() {
	ts := newTestTimesheet(domain.StatusUnsubmitted, newTestEntry("a", "p1", "3"))
	suite.expectLoad(ts)

	_, err := suite.service.DeleteEntry(context.Background(), ts.TimesheetID, "missing", asOwner)

	requireAppError(suite.T(), err, http.StatusNotFound, "Entry not found")
	suite.repo.AssertNotCalled(suite.T(), "SaveTimesheet", mock.Anything, mock.Anything)
}
