package pgsql

import (
	portsrepo "github.com/SscSPs/timesheet_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TimesheetRepo: newPgxTimesheetRepository(dbPool),
		ProjectRepo:   newPgxProjectRepository(dbPool),
		ClientRepo:    newPgxClientRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
	}
}
