package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/timesheet_app/internal/apperrors"
	"github.com/SscSPs/timesheet_app/internal/core/domain"
	portsrepo "github.com/SscSPs/timesheet_app/internal/core/ports/repositories"
	"github.com/SscSPs/timesheet_app/internal/models"
	"github.com/SscSPs/timesheet_app/internal/utils/mapping"
	"github.com/SscSPs/timesheet_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultListLimit = 20

const timesheetColumns = `
	timesheet_id, user_id, week_start, week_end, year, week_number, status, entries,
	total_hours, billable_hours, non_billable_hours, has_running_timer, is_locked,
	submitted_at, approved_by, approved_at, rejected_at, rejection_reason,
	created_at, updated_at`

type PgxTimesheetRepository struct {
	BaseRepository
}

func newPgxTimesheetRepository(pool *pgxpool.Pool) portsrepo.TimesheetRepositoryFacade {
	return &PgxTimesheetRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TimesheetRepositoryFacade = (*PgxTimesheetRepository)(nil)

func scanTimesheet(row pgx.Row) (domain.Timesheet, error) {
	var m models.Timesheet
	err := row.Scan(
		&m.TimesheetID,
		&m.UserID,
		&m.WeekStart,
		&m.WeekEnd,
		&m.Year,
		&m.WeekNumber,
		&m.Status,
		&m.Entries, // jsonb
		&m.TotalHours,
		&m.BillableHours,
		&m.NonBillableHours,
		&m.HasRunningTimer,
		&m.IsLocked,
		&m.SubmittedAt,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.RejectedAt,
		&m.RejectionReason,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return domain.Timesheet{}, err
	}
	return mapping.ToDomainTimesheet(m)
}

// FindTimesheetByID retrieves a timesheet with its entries.
func (r *PgxTimesheetRepository) FindTimesheetByID(ctx context.Context, timesheetID string) (*domain.Timesheet, error) {
	query := `SELECT ` + timesheetColumns + ` FROM timesheets WHERE timesheet_id = $1;`

	ts, err := scanTimesheet(r.Pool.QueryRow(ctx, query, timesheetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find timesheet "+timesheetID, err)
	}
	return &ts, nil
}

// GetOrCreateTimesheet inserts ts when no row with its id exists yet. Two racing
// callers both end up reading the single stored row.
func (r *PgxTimesheetRepository) GetOrCreateTimesheet(ctx context.Context, ts domain.Timesheet) (*domain.Timesheet, bool, error) {
	m := mapping.ToModelTimesheet(ts)
	query := `
		INSERT INTO timesheets (` + timesheetColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT DO NOTHING;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.TimesheetID,
		m.UserID,
		m.WeekStart,
		m.WeekEnd,
		m.Year,
		m.WeekNumber,
		m.Status,
		m.Entries,
		m.TotalHours,
		m.BillableHours,
		m.NonBillableHours,
		m.HasRunningTimer,
		m.IsLocked,
		m.SubmittedAt,
		m.ApprovedBy,
		m.ApprovedAt,
		m.RejectedAt,
		m.RejectionReason,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		// the owning user row is gone
		if isForeignKeyViolation(err) {
			return nil, false, apperrors.ErrNotFound
		}
		return nil, false, apperrors.NewAppError(500, "failed to insert timesheet "+m.TimesheetID, err)
	}

	stored, err := r.FindTimesheetByID(ctx, m.TimesheetID)
	if err != nil {
		return nil, false, err
	}
	return stored, tag.RowsAffected() == 1, nil
}

// SaveTimesheet overwrites the mutable columns of an existing timesheet.
func (r *PgxTimesheetRepository) SaveTimesheet(ctx context.Context, ts domain.Timesheet) error {
	m := mapping.ToModelTimesheet(ts)
	query := `
		UPDATE timesheets SET
			status = $2,
			entries = $3,
			total_hours = $4,
			billable_hours = $5,
			non_billable_hours = $6,
			has_running_timer = $7,
			is_locked = $8,
			submitted_at = $9,
			approved_by = $10,
			approved_at = $11,
			rejected_at = $12,
			rejection_reason = $13,
			updated_at = $14
		WHERE timesheet_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.TimesheetID,
		m.Status,
		m.Entries,
		m.TotalHours,
		m.BillableHours,
		m.NonBillableHours,
		m.HasRunningTimer,
		m.IsLocked,
		m.SubmittedAt,
		m.ApprovedBy,
		m.ApprovedAt,
		m.RejectedAt,
		m.RejectionReason,
		m.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update timesheet "+m.TimesheetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTimesheetRepository) DeleteTimesheet(ctx context.Context, timesheetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM timesheets WHERE timesheet_id = $1;`, timesheetID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete timesheet "+timesheetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListTimesheets retrieves timesheets newest week first. The token marks the last
// row of the previous page; the timesheet id breaks ties between users of one week.
func (r *PgxTimesheetRepository) ListTimesheets(ctx context.Context, filter portsrepo.TimesheetFilter) ([]domain.Timesheet, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	var c conditions
	if filter.UserID != "" {
		c.add("user_id = %s", filter.UserID)
	}
	if filter.Status != nil {
		c.add("status = %s", string(*filter.Status))
	}
	if filter.WeekStart != nil {
		c.add("week_start = %s", *filter.WeekStart)
	}
	if filter.StartDate != nil {
		c.add("week_end >= %s", *filter.StartDate)
	}
	if filter.EndDate != nil {
		c.add("week_start <= %s", *filter.EndDate)
	}
	if filter.BeforeWeek != nil {
		c.add("week_start < %s", *filter.BeforeWeek)
	}
	if filter.WithEntriesOnly {
		c.add("jsonb_array_length(entries) > 0")
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		lastWeekStart, lastID, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		c.add("(week_start, timesheet_id) < (%s, %s)", lastWeekStart, lastID)
	}

	query := `SELECT ` + timesheetColumns + ` FROM timesheets` + c.where() +
		` ORDER BY week_start DESC, timesheet_id DESC LIMIT ` + c.next(fetchLimit) + `;`

	rows, err := r.Pool.Query(ctx, query, c.args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list timesheets", err)
	}
	defer rows.Close()

	timesheets := make([]domain.Timesheet, 0, fetchLimit)
	for rows.Next() {
		ts, err := scanTimesheet(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan timesheet row", err)
		}
		timesheets = append(timesheets, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating timesheet rows", err)
	}

	var nextToken *string
	if len(timesheets) > limit {
		last := timesheets[limit-1]
		token := pagination.EncodeToken(last.WeekStart, last.TimesheetID)
		nextToken = &token
		timesheets = timesheets[:limit]
	}
	return timesheets, nextToken, nil
}
