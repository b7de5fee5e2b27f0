package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/timesheet_app/internal/apperrors"
	portsrepo "github.com/SscSPs/timesheet_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/timesheet_app/internal/core/ports/services"
	"golang.org/x/sync/errgroup"
)

// projectAggregatorService recomputes project rollups synchronously.
type projectAggregatorService struct {
	BaseService
	repo portsrepo.ProjectHoursRecomputer
}

// NewProjectAggregatorService creates the synchronous project recompute service.
func NewProjectAggregatorService(repo portsrepo.ProjectHoursRecomputer, options ...ServiceOption) portssvc.ProjectAggregatorSvc {
	return &projectAggregatorService{BaseService: newBaseService(options...), repo: repo}
}

var _ portssvc.ProjectAggregatorSvc = (*projectAggregatorService)(nil)

// RecomputeProjectHours recomputes each project and joins the failures.
// A project that no longer exists is skipped.
func (s *projectAggregatorService) RecomputeProjectHours(ctx context.Context, projectIDs ...string) error {
	var errs []error
	for _, id := range dedupeIDs(projectIDs) {
		hours, err := s.repo.RecomputeProjectHours(ctx, id, s.Now())
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				s.LogWarn(ctx, "Skipping recompute of unknown project", slog.String("project_id", id))
				continue
			}
			errs = append(errs, fmt.Errorf("project %s: %w", id, err))
			continue
		}
		s.LogDebug(ctx, "Project hours recomputed",
			slog.String("project_id", id),
			slog.String("total_hours", hours.TotalHours.String()),
			slog.String("approved_hours", hours.ApprovedHours.String()))
	}
	return errors.Join(errs...)
}

// dedupeIDs drops empty and repeated ids and sorts the rest.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// AggregationQueueConfig sizes the background recompute pool.
type AggregationQueueConfig struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	RetryDelay  time.Duration
}

type aggregationJob struct {
	// ctx keeps the values of the enqueuing request but not its cancellation
	ctx       context.Context
	projectID string
}

// AggregationQueue runs project recomputes on a bounded pool of background workers.
// Each job is retried up to MaxAttempts times; failures are logged and dropped.
type AggregationQueue struct {
	BaseService
	aggregator portssvc.ProjectAggregatorSvc
	cfg        AggregationQueueConfig
	jobs       chan aggregationJob

	mu     sync.RWMutex
	closed bool
	group  *errgroup.Group
}

// NewAggregationQueue creates a queue. Jobs are buffered until Start is called.
func NewAggregationQueue(aggregator portssvc.ProjectAggregatorSvc, cfg AggregationQueueConfig, options ...ServiceOption) *AggregationQueue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &AggregationQueue{
		BaseService: newBaseService(options...),
		aggregator:  aggregator,
		cfg:         cfg,
		jobs:        make(chan aggregationJob, cfg.QueueSize),
	}
}

var _ portssvc.AggregationDispatcher = (*AggregationQueue)(nil)

// Start launches the workers. They stop when ctx is cancelled or Shutdown drains the queue.
func (q *AggregationQueue) Start(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < q.cfg.Workers; i++ {
		worker := i
		g.Go(func() error {
			q.work(gctx, worker)
			return nil
		})
	}
	q.mu.Lock()
	q.group = g
	q.mu.Unlock()
	q.LogInfo(ctx, "Aggregation queue started", slog.Int("workers", q.cfg.Workers), slog.Int("queue_size", q.cfg.QueueSize))
}

// Enqueue schedules a recompute for each distinct project id and returns immediately.
// A full queue drops the job with a warning.
func (q *AggregationQueue) Enqueue(ctx context.Context, projectIDs ...string) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		q.LogWarn(ctx, "Aggregation queue closed, dropping recompute", slog.Any("project_ids", projectIDs))
		return
	}

	jobCtx := context.WithoutCancel(ctx)
	for _, id := range dedupeIDs(projectIDs) {
		select {
		case q.jobs <- aggregationJob{ctx: jobCtx, projectID: id}:
			q.LogDebug(ctx, "Project recompute enqueued", slog.String("project_id", id))
		default:
			q.LogWarn(ctx, "Aggregation queue full, dropping recompute", slog.String("project_id", id))
		}
	}
}

// Shutdown stops accepting jobs and waits for the workers to drain the queue or for ctx to end.
func (q *AggregationQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.jobs)
	g := q.group
	q.mu.Unlock()

	if g == nil {
		return nil
	}
	done := make(chan error, 1)
	go func() { done <- g.Wait() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *AggregationQueue) work(ctx context.Context, worker int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-q.jobs:
			if !ok {
				return
			}
			q.run(ctx, worker, job)
		}
	}
}

func (q *AggregationQueue) run(ctx context.Context, worker int, job aggregationJob) {
	logger := q.GetLogger(job.ctx).With(slog.Int("worker", worker), slog.String("project_id", job.projectID))
	for attempt := 1; attempt <= q.cfg.MaxAttempts; attempt++ {
		err := q.aggregator.RecomputeProjectHours(job.ctx, job.projectID)
		if err == nil {
			logger.Debug("Background project recompute done", slog.Int("attempt", attempt))
			return
		}
		if attempt == q.cfg.MaxAttempts {
			logger.Error("Background project recompute failed, giving up",
				slog.String("error", err.Error()), slog.Int("attempts", attempt))
			return
		}
		logger.Warn("Background project recompute failed, retrying",
			slog.String("error", err.Error()), slog.Int("attempt", attempt))
		select {
		case <-ctx.Done():
			return
		case <-time.After(q.cfg.RetryDelay):
		}
	}
}
