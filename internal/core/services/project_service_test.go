package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/SscSPs/timesheet_app/internal/apperrors"
	"github.com/SscSPs/timesheet_app/internal/core/domain"
	portssvc "github.com/SscSPs/timesheet_app/internal/core/ports/services"
	"github.com/SscSPs/timesheet_app/internal/core/services"
	"github.com/SscSPs/timesheet_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProjectServiceTestSuite struct {
	suite.Suite
	projects   *MockProjectRepository
	clients    *MockClientRepository
	aggregator *MockAggregator
	service    portssvc.ProjectSvcFacade
	clientSvc  portssvc.ClientSvcFacade
}

func (suite *ProjectServiceTestSuite) SetupTest() {
	suite.projects = new(MockProjectRepository)
	suite.clients = new(MockClientRepository)
	suite.aggregator = new(MockAggregator)
	suite.service = services.NewProjectService(suite.projects, suite.clients, suite.aggregator, services.WithClock(fixedClock))
	suite.clientSvc = services.NewClientService(suite.clients, services.WithClock(fixedClock))
}

func TestProjectServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProjectServiceTestSuite))
}

func (suite *ProjectServiceTestSuite) TestCreateProject_Success() {
	ctx := context.Background()
	budget := hours("120.456")
	suite.clients.On("FindClientByID", ctx, "c1").Return(&domain.Client{ClientID: "c1"}, nil).Once()
	suite.projects.On("SaveProject", ctx, mock.AnythingOfType("domain.Project")).Return(nil).Once()

	p, err := suite.service.CreateProject(ctx, dto.CreateProjectRequest{
		ClientID: "c1", Name: " Website ", Code: "web", BudgetHours: &budget,
	}, asManager)

	suite.Require().NoError(err)
	suite.NotEmpty(p.ProjectID)
	suite.Equal("Website", p.Name)
	suite.Equal("WEB", p.Code)
	suite.Equal(domain.ProjectActive, p.Status)
	suite.Equal("120.46", p.BudgetHours.StringFixed(2))
	suite.True(p.Hours.TotalHours.IsZero())
	suite.Equal(asManager.UserID, p.CreatedBy)
	suite.Equal(testNow, p.CreatedAt)
	suite.projects.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestCreateProject_UserForbidden() {
	_, err := suite.service.CreateProject(context.Background(), dto.CreateProjectRequest{ClientID: "c1", Name: "x"}, asOwner)
	requireAppError(suite.T(), err, http.StatusForbidden, "Forbidden")
}

func (suite *ProjectServiceTestSuite) TestCreateProject_UnknownClient() {
	suite.clients.On("FindClientByID", mock.Anything, "nope").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateProject(context.Background(), dto.CreateProjectRequest{ClientID: "nope", Name: "x"}, asAdmin)
	requireAppError(suite.T(), err, http.StatusBadRequest, "Client not found")
}

func (suite *ProjectServiceTestSuite) TestCreateTask_DefaultsToBillable() {
	suite.projects.On("FindProjectByID", mock.Anything, "p1").Return(&domain.Project{ProjectID: "p1"}, nil).Once()
	suite.projects.On("SaveTask", mock.Anything, mock.AnythingOfType("domain.Task")).Return(nil).Once()

	task, err := suite.service.CreateTask(context.Background(), "p1", dto.CreateTaskRequest{Name: "Design"}, asAdmin)

	suite.Require().NoError(err)
	suite.True(task.IsBillable)
	suite.True(task.IsActive)
	suite.Equal("p1", task.ProjectID)
}

func (suite *ProjectServiceTestSuite) TestListTasks_UnknownProject() {
	suite.projects.On("FindProjectByID", mock.Anything, "p404").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListTasks(context.Background(), "p404")
	requireAppError(suite.T(), err, http.StatusNotFound, "Project not found")
}

func (suite *ProjectServiceTestSuite) TestRecalculateProject_ReturnsRefreshedRollup() {
	suite.projects.On("FindProjectByID", mock.Anything, "p1").Return(&domain.Project{ProjectID: "p1"}, nil).Once()
	suite.aggregator.On("RecomputeProjectHours", mock.Anything, []string{"p1"}).Return(nil).Once()
	suite.projects.On("FindProjectByID", mock.Anything, "p1").
		Return(&domain.Project{ProjectID: "p1", Hours: domain.ProjectHours{TotalHours: hours("12")}}, nil).Once()

	p, err := suite.service.RecalculateProject(context.Background(), "p1", asManager)

	suite.Require().NoError(err)
	suite.Equal("12.00", p.Hours.TotalHours.StringFixed(2))
	suite.aggregator.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestRecalculateProject_Failure() {
	suite.projects.On("FindProjectByID", mock.Anything, "p1").Return(&domain.Project{ProjectID: "p1"}, nil).Once()
	suite.aggregator.On("RecomputeProjectHours", mock.Anything, []string{"p1"}).Return(errors.New("boom")).Once()

	_, err := suite.service.RecalculateProject(context.Background(), "p1", asAdmin)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInternal)
}

func (suite *ProjectServiceTestSuite) TestCreateClient_NormalizesEmail() {
	suite.clients.On("SaveClient", mock.Anything, mock.MatchedBy(func(c domain.Client) bool {
		return c.Email == "billing@acme.test" && c.IsActive
	})).Return(nil).Once()

	c, err := suite.clientSvc.CreateClient(context.Background(), dto.CreateClientRequest{
		Name: "Acme", Email: " Billing@ACME.test ",
	}, asManager)

	suite.Require().NoError(err)
	suite.Equal("Acme", c.Name)
	suite.clients.AssertExpectations(suite.T())
}

func (suite *ProjectServiceTestSuite) TestListClients_EmptyIsNotNil() {
	suite.clients.On("ListClients", mock.Anything, 20, 0).Return(nil, nil).Once()

	cs, err := suite.clientSvc.ListClients(context.Background(), 20, 0)

	suite.Require().NoError(err)
	suite.NotNil(cs)
	suite.Empty(cs)
}
