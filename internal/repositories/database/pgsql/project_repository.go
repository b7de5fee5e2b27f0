package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/timesheet_app/internal/apperrors"
	"github.com/SscSPs/timesheet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/timesheet_app/internal/core/ports/repositories"
	"github.com/SscSPs/timesheet_app/internal/models"
	"github.com/SscSPs/timesheet_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const projectColumns = `
	project_id, client_id, name, code, status, budget_hours,
	total_hours, billable_hours, approved_hours, hours_recalculated_at,
	created_at, created_by, last_updated_at, last_updated_by`

const taskColumns = `
	task_id, project_id, name, is_billable, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxProjectRepository struct {
	BaseRepository
}

func newPgxProjectRepository(pool *pgxpool.Pool) portsrepo.ProjectRepositoryFacade {
	return &PgxProjectRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ProjectRepositoryFacade = (*PgxProjectRepository)(nil)

func scanProject(row pgx.Row) (domain.Project, error) {
	var m models.Project
	err := row.Scan(
		&m.ProjectID,
		&m.ClientID,
		&m.Name,
		&m.Code,
		&m.Status,
		&m.BudgetHours,
		&m.TotalHours,
		&m.BillableHours,
		&m.ApprovedHours,
		&m.HoursRecalculatedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Project{}, err
	}
	return mapping.ToDomainProject(m), nil
}

func scanTask(row pgx.Row) (domain.Task, error) {
	var m models.Task
	err := row.Scan(
		&m.TaskID,
		&m.ProjectID,
		&m.Name,
		&m.IsBillable,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Task{}, err
	}
	return mapping.ToDomainTask(m), nil
}

// SaveProject inserts a project or updates its descriptive fields. The hour
// rollup columns are only written by RecomputeProjectHours.
func (r *PgxProjectRepository) SaveProject(ctx context.Context, project domain.Project) error {
	m := mapping.ToModelProject(project)
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (project_id) DO UPDATE SET
			name = EXCLUDED.name,
			code = EXCLUDED.code,
			status = EXCLUDED.status,
			budget_hours = EXCLUDED.budget_hours,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProjectID,
		m.ClientID,
		m.Name,
		m.Code,
		m.Status,
		m.BudgetHours,
		m.TotalHours,
		m.BillableHours,
		m.ApprovedHours,
		m.HoursRecalculatedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to save project "+m.ProjectID, err)
	}
	return nil
}

func (r *PgxProjectRepository) FindProjectByID(ctx context.Context, projectID string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE project_id = $1;`

	p, err := scanProject(r.Pool.QueryRow(ctx, query, projectID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find project "+projectID, err)
	}
	return &p, nil
}

// ListProjects lists projects by name, optionally of one client only.
func (r *PgxProjectRepository) ListProjects(ctx context.Context, clientID string, limit int, offset int) ([]domain.Project, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var c conditions
	if clientID != "" {
		c.add("client_id = %s", clientID)
	}
	query := `SELECT ` + projectColumns + ` FROM projects` + c.where() +
		` ORDER BY name, project_id LIMIT ` + c.next(limit) + ` OFFSET ` + c.next(offset) + `;`

	rows, err := r.Pool.Query(ctx, query, c.args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list projects", err)
	}
	defer rows.Close()

	projects := []domain.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan project row", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating project rows", err)
	}
	return projects, nil
}

func (r *PgxProjectRepository) SaveTask(ctx context.Context, task domain.Task) error {
	m := mapping.ToModelTask(task)
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (task_id) DO UPDATE SET
			name = EXCLUDED.name,
			is_billable = EXCLUDED.is_billable,
			is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TaskID,
		m.ProjectID,
		m.Name,
		m.IsBillable,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save task "+m.TaskID, err)
	}
	return nil
}

func (r *PgxProjectRepository) FindTaskByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE task_id = $1;`

	t, err := scanTask(r.Pool.QueryRow(ctx, query, taskID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find task "+taskID, err)
	}
	return &t, nil
}

func (r *PgxProjectRepository) ListTasksByProject(ctx context.Context, projectID string) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1 ORDER BY name, task_id;`

	rows, err := r.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list tasks of project "+projectID, err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan task row", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating task rows", err)
	}
	return tasks, nil
}

// RecomputeProjectHours rebuilds the rollup of one project from every timesheet
// entry referencing it, in a single statement. The containment predicate lets the
// GIN index on entries narrow the scan before the array is unnested.
func (r *PgxProjectRepository) RecomputeProjectHours(ctx context.Context, projectID string, at time.Time) (*domain.ProjectHours, error) {
	query := `
		WITH project_entries AS (
			SELECT
				t.status,
				(e->>'hours')::numeric AS hours,
				COALESCE((e->>'isBillable')::boolean, false) AS billable
			FROM timesheets t
			CROSS JOIN LATERAL jsonb_array_elements(t.entries) AS e
			WHERE t.entries @> jsonb_build_array(jsonb_build_object('projectId', $1::text))
				AND e->>'projectId' = $1::text
		), sums AS (
			SELECT
				COALESCE(SUM(hours), 0) AS total,
				COALESCE(SUM(hours) FILTER (WHERE billable), 0) AS billable,
				COALESCE(SUM(hours) FILTER (WHERE status = 'approved'), 0) AS approved
			FROM project_entries
		)
		UPDATE projects p SET
			total_hours = ROUND(s.total, 2),
			billable_hours = ROUND(s.billable, 2),
			approved_hours = ROUND(s.approved, 2),
			hours_recalculated_at = $2
		FROM sums s
		WHERE p.project_id = $1::text
		RETURNING p.total_hours, p.billable_hours, p.approved_hours, p.hours_recalculated_at;
	`
	var m models.Project
	err := r.Pool.QueryRow(ctx, query, projectID, at).Scan(
		&m.TotalHours,
		&m.BillableHours,
		&m.ApprovedHours,
		&m.HoursRecalculatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to recompute hours of project "+projectID, err)
	}
	hours := mapping.ToDomainProject(m).Hours
	return &hours, nil
}
