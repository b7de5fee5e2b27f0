package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	portssvc "github.com/SscSPs/timesheet_app/internal/core/ports/services"
	"github.com/SscSPs/timesheet_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

type MockTimesheetService struct {
	mock.Mock
}

func (m *MockTimesheetService) timesheet(args mock.Arguments) (*domain.Timesheet, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Timesheet), args.Error(1)
}

func (m *MockTimesheetService) GetTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error) {
	return m.timesheet(m.Called(ctx, timesheetID, actor))
}

func (m *MockTimesheetService) ListTimesheets(ctx context.Context, params dto.ListTimesheetsParams, actor domain.Identity) ([]domain.Timesheet, *string, error) {
	args := m.Called(ctx, params, actor)
	var sheets []domain.Timesheet
	if args.Get(0) != nil {
		sheets = args.Get(0).([]domain.Timesheet)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return sheets, token, args.Error(2)
}

func (m *MockTimesheetService) GetOrCreateTimesheet(ctx context.Context, req dto.GetOrCreateTimesheetRequest, actor domain.Identity) (*domain.Timesheet, error) {
	return m.timesheet(m.Called(ctx, req, actor))
}

func (m *MockTimesheetService) ApplyAction(ctx context.Context, timesheetID string, req dto.TimesheetActionRequest, actor domain.Identity) (*domain.Timesheet, error) {
	return m.timesheet(m.Called(ctx, timesheetID, req, actor))
}

func (m *MockTimesheetService) SubmitTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error) {
	return m.timesheet(m.Called(ctx, timesheetID, actor))
}

func (m *MockTimesheetService) ApproveTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error) {
	return m.timesheet(m.Called(ctx, timesheetID, actor))
}

func (m *MockTimesheetService) RejectTimesheet(ctx context.Context, timesheetID string, reason *string, actor domain.Identity) (*domain.Timesheet, error) {
	return m.timesheet(m.Called(ctx, timesheetID, reason, actor))
}

func (m *MockTimesheetService) UnapproveTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error) {
	return m.timesheet(m.Called(ctx, timesheetID, actor))
}

func (m *MockTimesheetService) RecalculateTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) (*domain.Timesheet, error) {
	return m.timesheet(m.Called(ctx, timesheetID, actor))
}

func (m *MockTimesheetService) DeleteTimesheet(ctx context.Context, timesheetID string, actor domain.Identity) error {
	return m.Called(ctx, timesheetID, actor).Error(0)
}

var _ portssvc.TimesheetSvcFacade = (*MockTimesheetService)(nil)

type MockEntryService struct {
	mock.Mock
}

func (m *MockEntryService) timesheet(args mock.Arguments) (*domain.Timesheet, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Timesheet), args.Error(1)
}

func (m *MockEntryService) AddEntry(ctx context.Context, timesheetID string, req dto.AddEntryRequest, actor domain.Identity) (*domain.Timesheet, error) {
	return m.timesheet(m.Called(ctx, timesheetID, req, actor))
}

func (m *MockEntryService) UpdateEntry(ctx context.Context, timesheetID string, req dto.UpdateEntryRequest, actor domain.Identity) (*domain.Timesheet, error) {
	return m.timesheet(m.Called(ctx, timesheetID, req, actor))
}

func (m *MockEntryService) DeleteEntry(ctx context.Context, timesheetID string, entryKey string, actor domain.Identity) (*domain.Timesheet, error) {
	return m.timesheet(m.Called(ctx, timesheetID, entryKey, actor))
}

var _ portssvc.TimesheetEntrySvc = (*MockEntryService)(nil)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) user(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return m.user(m.Called(ctx, userID))
}

func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	return m.user(m.Called(ctx, req))
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, actor domain.Identity) (*domain.User, error) {
	return m.user(m.Called(ctx, userID, req, actor))
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string, actor domain.Identity) error {
	return m.Called(ctx, userID, actor).Error(0)
}

func (m *MockUserService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	return m.user(m.Called(ctx, email, password))
}

var _ portssvc.UserSvcFacade = (*MockUserService)(nil)

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)
