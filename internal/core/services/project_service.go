package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/timesheet_app/internal/apperrors"
	"github.com/SscSPs/timesheet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/timesheet_app/internal/core/ports/services"
	"github.com/SscSPs/timesheet_app/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// projectService implements the ProjectSvcFacade interface
type projectService struct {
	BaseService
	projectRepo portsrepo.ProjectRepositoryFacade
	clientRepo  portsrepo.ClientRepositoryFacade
	aggregator  portssvc.ProjectAggregatorSvc
}

// NewProjectService creates a new project service with the provided dependencies
func NewProjectService(
	projectRepo portsrepo.ProjectRepositoryFacade,
	clientRepo portsrepo.ClientRepositoryFacade,
	aggregator portssvc.ProjectAggregatorSvc,
	options ...ServiceOption,
) portssvc.ProjectSvcFacade {
	return &projectService{
		BaseService: newBaseService(options...),
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		aggregator:  aggregator,
	}
}

var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

func requireReviewer(actor domain.Identity) error {
	if !actor.CanReviewOthers() {
		return apperrors.NewForbiddenError("Forbidden")
	}
	return nil
}

func (s *projectService) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Project not found")
		}
		s.LogError(ctx, err, "Failed to find project by ID", slog.String("project_id", projectID))
		return nil, err
	}
	return project, nil
}

func (s *projectService) ListProjects(ctx context.Context, params dto.ListParams) ([]domain.Project, error) {
	projects, err := s.projectRepo.ListProjects(ctx, params.ClientID, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list projects", slog.String("client_id", params.ClientID))
		return nil, err
	}
	if projects == nil {
		return []domain.Project{}, nil
	}
	return projects, nil
}

func (s *projectService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.projectRepo.FindTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Task not found")
		}
		s.LogError(ctx, err, "Failed to find task by ID", slog.String("task_id", taskID))
		return nil, err
	}
	return task, nil
}

func (s *projectService) ListTasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	tasks, err := s.projectRepo.ListTasksByProject(ctx, projectID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tasks", slog.String("project_id", projectID))
		return nil, err
	}
	if tasks == nil {
		return []domain.Task{}, nil
	}
	return tasks, nil
}

// CreateProject creates an active project under an existing client. Admins and managers only.
func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, actor domain.Identity) (*domain.Project, error) {
	if err := requireReviewer(actor); err != nil {
		return nil, err
	}
	if _, err := s.clientRepo.FindClientByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationFailedError("Client not found")
		}
		s.LogError(ctx, err, "Failed to look up client for project", slog.String("client_id", req.ClientID))
		return nil, err
	}

	budget := decimal.Zero
	if req.BudgetHours != nil {
		if req.BudgetHours.IsNegative() {
			return nil, apperrors.NewValidationFailedError("budgetHours must not be negative")
		}
		budget = req.BudgetHours.Round(2)
	}

	now := s.Now()
	project := domain.Project{
		ProjectID:   uuid.NewString(),
		ClientID:    req.ClientID,
		Name:        strings.TrimSpace(req.Name),
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Status:      domain.ProjectActive,
		BudgetHours: budget,
		Hours: domain.ProjectHours{
			TotalHours:    decimal.Zero,
			BillableHours: decimal.Zero,
			ApprovedHours: decimal.Zero,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.projectRepo.SaveProject(ctx, project); err != nil {
		s.LogError(ctx, err, "Failed to save project", slog.String("project_id", project.ProjectID))
		return nil, err
	}
	s.LogInfo(ctx, "Project created", slog.String("project_id", project.ProjectID))
	return &project, nil
}

// CreateTask adds a task to a project. Tasks are billable unless stated otherwise.
func (s *projectService) CreateTask(ctx context.Context, projectID string, req dto.CreateTaskRequest, actor domain.Identity) (*domain.Task, error) {
	if err := requireReviewer(actor); err != nil {
		return nil, err
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	billable := true
	if req.IsBillable != nil {
		billable = *req.IsBillable
	}

	now := s.Now()
	task := domain.Task{
		TaskID:     uuid.NewString(),
		ProjectID:  projectID,
		Name:       strings.TrimSpace(req.Name),
		IsBillable: billable,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
	if err := s.projectRepo.SaveTask(ctx, task); err != nil {
		s.LogError(ctx, err, "Failed to save task", slog.String("task_id", task.TaskID))
		return nil, err
	}
	s.LogInfo(ctx, "Task created", slog.String("task_id", task.TaskID), slog.String("project_id", projectID))
	return &task, nil
}

// RecalculateProject recomputes the rollup in the request path, unlike the background queue.
func (s *projectService) RecalculateProject(ctx context.Context, projectID string, actor domain.Identity) (*domain.Project, error) {
	if err := requireReviewer(actor); err != nil {
		return nil, err
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}
	if err := s.aggregator.RecomputeProjectHours(ctx, projectID); err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to recompute project hours", err)
	}
	return s.GetProject(ctx, projectID)
}
