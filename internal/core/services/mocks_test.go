package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/timesheet_app/internal/apperrors"
	"github.com/SscSPs/timesheet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/timesheet_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Monday of ISO week 2024-W03 and a Wednesday noon inside it.
var (
	testWeekStart = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	testNow       = time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return testNow }

var (
	ownerID   = "user-1"
	otherID   = "user-2"
	asOwner   = domain.Identity{UserID: ownerID, Role: domain.RoleUser}
	asOther   = domain.Identity{UserID: otherID, Role: domain.RoleUser}
	asManager = domain.Identity{UserID: "manager-1", Role: domain.RoleManager}
	asAdmin   = domain.Identity{UserID: "admin-1", Role: domain.RoleAdmin}
)

func hours(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestTimesheet(status domain.TimesheetStatus, entries ...domain.TimesheetEntry) *domain.Timesheet {
	if entries == nil {
		entries = []domain.TimesheetEntry{}
	}
	return &domain.Timesheet{
		TimesheetID: ownerID + "-2024-W03",
		UserID:      ownerID,
		WeekStart:   testWeekStart,
		WeekEnd:     testWeekStart.AddDate(0, 0, 6),
		Year:        2024,
		WeekNumber:  3,
		Status:      status,
		Entries:     entries,
		IsLocked:    status == domain.StatusApproved,
	}
}

func newTestEntry(key, projectID, h string) domain.TimesheetEntry {
	return domain.TimesheetEntry{
		EntryKey:   key,
		Date:       testWeekStart.AddDate(0, 0, 1),
		ProjectID:  projectID,
		Hours:      hours(h),
		IsBillable: true,
	}
}

func requireAppError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, message, appErr.Message)
}

// --- MockTimesheetRepository ---
type MockTimesheetRepository struct {
	mock.Mock
}

func (m *MockTimesheetRepository) FindTimesheetByID(ctx context.Context, timesheetID string) (*domain.Timesheet, error) {
	args := m.Called(ctx, timesheetID)
	var ts *domain.Timesheet
	if args.Get(0) != nil {
		ts = args.Get(0).(*domain.Timesheet)
	}
	return ts, args.Error(1)
}

func (m *MockTimesheetRepository) ListTimesheets(ctx context.Context, filter portsrepo.TimesheetFilter) ([]domain.Timesheet, *string, error) {
	args := m.Called(ctx, filter)
	var sheets []domain.Timesheet
	if args.Get(0) != nil {
		sheets = args.Get(0).([]domain.Timesheet)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return sheets, next, args.Error(2)
}

func (m *MockTimesheetRepository) GetOrCreateTimesheet(ctx context.Context, ts domain.Timesheet) (*domain.Timesheet, bool, error) {
	args := m.Called(ctx, ts)
	var stored *domain.Timesheet
	if args.Get(0) != nil {
		stored = args.Get(0).(*domain.Timesheet)
	}
	return stored, args.Bool(1), args.Error(2)
}

func (m *MockTimesheetRepository) SaveTimesheet(ctx context.Context, ts domain.Timesheet) error {
	args := m.Called(ctx, ts)
	return args.Error(0)
}

func (m *MockTimesheetRepository) DeleteTimesheet(ctx context.Context, timesheetID string) error {
	args := m.Called(ctx, timesheetID)
	return args.Error(0)
}

// --- MockProjectRepository ---
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	var p *domain.Project
	if args.Get(0) != nil {
		p = args.Get(0).(*domain.Project)
	}
	return p, args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context, clientID string, limit int, offset int) ([]domain.Project, error) {
	args := m.Called(ctx, clientID, limit, offset)
	var ps []domain.Project
	if args.Get(0) != nil {
		ps = args.Get(0).([]domain.Project)
	}
	return ps, args.Error(1)
}

func (m *MockProjectRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	args := m.Called(ctx, taskID)
	var task *domain.Task
	if args.Get(0) != nil {
		task = args.Get(0).(*domain.Task)
	}
	return task, args.Error(1)
}

func (m *MockProjectRepository) ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	args := m.Called(ctx, projectID)
	var tasks []domain.Task
	if args.Get(0) != nil {
		tasks = args.Get(0).([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *MockProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) SaveTask(ctx context.Context, task domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockProjectRepository) RecomputeProjectHours(ctx context.Context, projectID string, at time.Time) (*domain.ProjectHours, error) {
	args := m.Called(ctx, projectID, at)
	var h *domain.ProjectHours
	if args.Get(0) != nil {
		h = args.Get(0).(*domain.ProjectHours)
	}
	return h, args.Error(1)
}

// --- MockClientRepository ---
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	args := m.Called(ctx, clientID)
	var c *domain.Client
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Client)
	}
	return c, args.Error(1)
}

func (m *MockClientRepository) ListClients(ctx context.Context, limit int, offset int) ([]domain.Client, error) {
	args := m.Called(ctx, limit, offset)
	var cs []domain.Client
	if args.Get(0) != nil {
		cs = args.Get(0).([]domain.Client)
	}
	return cs, args.Error(1)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var u *domain.User
	if args.Get(0) != nil {
		u = args.Get(0).(*domain.User)
	}
	return u, args.Error(1)
}

func (m *MockUserRepository) FindUsers(ctx context.Context, limit int, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	var us []domain.User
	if args.Get(0) != nil {
		us = args.Get(0).([]domain.User)
	}
	return us, args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User) (domain.UserRole, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.UserRole), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, userID, deletedAt, deletedBy)
	return args.Error(0)
}

// --- MockReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) ListReportEntries(ctx context.Context, filter portsrepo.ReportFilter) ([]domain.ReportEntry, error) {
	args := m.Called(ctx, filter)
	var es []domain.ReportEntry
	if args.Get(0) != nil {
		es = args.Get(0).([]domain.ReportEntry)
	}
	return es, args.Error(1)
}

// --- MockDispatcher records background recompute requests ---
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Enqueue(ctx context.Context, projectIDs ...string) {
	m.Called(ctx, projectIDs)
}

// --- MockAggregator ---
type MockAggregator struct {
	mock.Mock
}

func (m *MockAggregator) RecomputeProjectHours(ctx context.Context, projectIDs ...string) error {
	args := m.Called(ctx, projectIDs)
	return args.Error(0)
}

// --- MockTracker ---
type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}
