package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
)

// ProjectReader defines read operations for projects and their tasks
type ProjectReader interface {
	FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error)
	// ListProjects lists projects, optionally of one client only.
	ListProjects(ctx context.Context, clientID string, limit int, offset int) ([]domain.Project, error)
	FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error)
	ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error)
}

// ProjectWriter defines write operations for projects and their tasks
type ProjectWriter interface {
	SaveProject(ctx context.Context, project domain.Project) error
	SaveTask(ctx context.Context, task domain.Task) error
}

// ProjectHoursRecomputer recomputes project rollups from the timesheets referencing them.
type ProjectHoursRecomputer interface {
	// RecomputeProjectHours rebuilds the hour totals of projectID from source entries.
	// Recomputing twice yields the same result.
	RecomputeProjectHours(ctx context.Context, projectID string, at time.Time) (*domain.ProjectHours, error)
}

// ProjectRepositoryFacade combines all project repository interfaces
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
	ProjectHoursRecomputer
}
