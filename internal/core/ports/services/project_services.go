package services

import (
	"context"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	"github.com/SscSPs/timesheet_app/internal/dto"
)

// ProjectAggregatorSvc recomputes project hour rollups from the timesheets referencing them.
type ProjectAggregatorSvc interface {
	// RecomputeProjectHours recomputes every given project. It is idempotent.
	RecomputeProjectHours(ctx context.Context, projectIDs ...string) error
}

// AggregationDispatcher schedules project recomputes without waiting for them.
type AggregationDispatcher interface {
	Enqueue(ctx context.Context, projectIDs ...string)
}

// ProjectReaderSvc defines read operations for projects and tasks
type ProjectReaderSvc interface {
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
	ListProjects(ctx context.Context, params dto.ListParams) ([]domain.Project, error)
	GetTask(ctx context.Context, taskID string) (*domain.Task, error)
	ListTasks(ctx context.Context, projectID string) ([]domain.Task, error)
}

// ProjectWriterSvc defines write operations for projects and tasks
type ProjectWriterSvc interface {
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, actor domain.Identity) (*domain.Project, error)
	CreateTask(ctx context.Context, projectID string, req dto.CreateTaskRequest, actor domain.Identity) (*domain.Task, error)
	// RecalculateProject recomputes the rollup synchronously and returns the refreshed project.
	RecalculateProject(ctx context.Context, projectID string, actor domain.Identity) (*domain.Project, error)
}

// ProjectSvcFacade combines all project service interfaces
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
}

// ClientSvcFacade defines operations on clients
type ClientSvcFacade interface {
	CreateClient(ctx context.Context, req dto.CreateClientRequest, actor domain.Identity) (*domain.Client, error)
	GetClient(ctx context.Context, clientID string) (*domain.Client, error)
	ListClients(ctx context.Context, limit int, offset int) ([]domain.Client, error)
}
