package services

import (
	portsrepo "github.com/SscSPs/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/timesheet_app/internal/core/ports/services"
	"github.com/SscSPs/timesheet_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// The returned queue is not started; the caller owns its Start and Shutdown.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, options ...ServiceOption) (*portssvc.ServiceContainer, *AggregationQueue) {
	container := &portssvc.ServiceContainer{}

	// The aggregator is shared by the background queue and the manual recalculate endpoint
	container.Aggregator = NewProjectAggregatorService(repos.ProjectRepo, options...)
	queue := NewAggregationQueue(container.Aggregator, AggregationQueueConfig{
		Workers:     cfg.AggregationWorkers,
		QueueSize:   cfg.AggregationQueueSize,
		MaxAttempts: cfg.AggregationMaxAttempts,
		RetryDelay:  cfg.AggregationRetryDelay,
	}, options...)

	container.Timesheet = NewTimesheetService(repos.TimesheetRepo, queue, options...)
	container.TimesheetEntry = NewTimesheetEntryService(repos.TimesheetRepo, repos.ProjectRepo, queue, options...)
	container.Project = NewProjectService(repos.ProjectRepo, repos.ClientRepo, container.Aggregator, options...)
	container.Client = NewClientService(repos.ClientRepo, options...)
	container.User = NewUserService(repos.UserRepo, options...)
	container.TokenService = NewTokenService(cfg, options...)
	container.Reporting = NewReportingService(repos.ReportingRepo, options...)

	return container, queue
}
