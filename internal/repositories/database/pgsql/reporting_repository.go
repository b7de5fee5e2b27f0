package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/timesheet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/timesheet_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// ListReportEntries unnests the entries of every timesheet overlapping the range and
// keeps those dated inside it. Labels of deleted or unknown rows come back empty.
func (r *reportingRepository) ListReportEntries(ctx context.Context, filter portsrepo.ReportFilter) ([]domain.ReportEntry, error) {
	var c conditions
	c.add("t.week_end >= %s AND t.week_start <= %s", filter.StartDate, filter.EndDate)
	c.add("(e->>'date')::date BETWEEN %s AND %s", filter.StartDate, filter.EndDate)
	if filter.UserID != "" {
		c.add("t.user_id = %s", filter.UserID)
	}
	if filter.Status != nil {
		c.add("t.status = %s", string(*filter.Status))
	}

	query := `
		SELECT
			t.timesheet_id,
			t.user_id,
			COALESCE(u.name, ''),
			t.status,
			(e->>'date')::date,
			COALESCE(p.client_id, ''),
			COALESCE(c.name, ''),
			e->>'projectId',
			COALESCE(p.name, ''),
			COALESCE(e->>'taskId', ''),
			COALESCE(tk.name, ''),
			(e->>'hours')::numeric,
			COALESCE((e->>'isBillable')::boolean, false)
		FROM timesheets t
		CROSS JOIN LATERAL jsonb_array_elements(t.entries) AS e
		LEFT JOIN users u ON u.user_id = t.user_id
		LEFT JOIN projects p ON p.project_id = e->>'projectId'
		LEFT JOIN clients c ON c.client_id = p.client_id
		LEFT JOIN tasks tk ON tk.task_id = e->>'taskId'` + c.where() + `
		ORDER BY (e->>'date')::date, t.timesheet_id;
	`

	rows, err := r.Pool.Query(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("error querying report entries: %w", err)
	}
	defer rows.Close()

	var result []domain.ReportEntry
	for rows.Next() {
		var row domain.ReportEntry
		var status string
		if err := rows.Scan(
			&row.TimesheetID,
			&row.UserID,
			&row.UserName,
			&status,
			&row.Date,
			&row.ClientID,
			&row.ClientName,
			&row.ProjectID,
			&row.ProjectName,
			&row.TaskID,
			&row.TaskName,
			&row.Hours,
			&row.IsBillable,
		); err != nil {
			return nil, fmt.Errorf("error scanning report entry: %w", err)
		}
		row.Status = domain.TimesheetStatus(status)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report entries: %w", err)
	}
	return result, nil
}
